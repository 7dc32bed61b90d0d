package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const SessionCookieName = "yatube_session"

type SessionClaims struct {
	jwt.RegisteredClaims

	// AuthHash ties the session to the password it was opened with,
	// changing the password signs every other session out.
	AuthHash string `json:"sah"`
}

func GetSessionAuthHash(user models.User) string {
	sum := sha256.Sum256([]byte(viper.GetString("security.secret") + user.Password))
	return hex.EncodeToString(sum[:])[:16]
}

func NewSessionToken(user models.User) (string, time.Time, error) {
	now := time.Now()
	expiredAt := now.Add(viper.GetDuration("security.session_ttl"))

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "yatube",
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiredAt),
		},
		AuthHash: GetSessionAuthHash(user),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(viper.GetString("security.secret")))
	if err != nil {
		return "", expiredAt, fmt.Errorf("unable to sign session: %w", err)
	}
	return signed, expiredAt, nil
}

// ParseSessionToken returns the user of a valid session.
func ParseSessionToken(raw string) (models.User, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(viper.GetString("security.secret")), nil
	}, jwt.WithIssuer("yatube"), jwt.WithExpirationRequired())
	if err != nil {
		return models.User{}, fmt.Errorf("invalid session: %w", err)
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid session subject: %w", err)
	}

	user, err := GetUserWithID(uint(id))
	if err != nil {
		return user, fmt.Errorf("session user is gone: %w", err)
	}
	if claims.AuthHash != GetSessionAuthHash(user) {
		return models.User{}, fmt.Errorf("session was opened with an outdated password")
	}
	return user, nil
}
