package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FieldError is a validation failure bound to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (v *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

var ErrInvalidCredentials = errors.New("please enter a correct username and password, note that both fields may be case-sensitive")

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ReservedUsernames collide with top level routes and can never be profile names.
var ReservedUsernames = []string{
	"new", "follow", "group", "auth", "about", "admin", "media", "static",
	"contacts", "about-author", "about-spec", "api",
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return &FieldError{"username", "This field is required."}
	}
	if len([]rune(username)) > 150 {
		return &FieldError{"username", "Ensure this value has at most 150 characters."}
	}
	if !usernamePattern.MatchString(username) {
		return &FieldError{"username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."}
	}
	if lo.Contains(ReservedUsernames, strings.ToLower(username)) {
		return &FieldError{"username", "This username is reserved."}
	}

	var count int64
	if err := database.C.Model(&models.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("unable to check username: %w", err)
	}
	if count > 0 {
		return &FieldError{"username", "A user with that username already exists."}
	}
	return nil
}

func ValidatePassword(field, password string) error {
	if len([]rune(password)) < 8 {
		return &FieldError{field, "This password is too short. It must contain at least 8 characters."}
	}
	if strings.Trim(password, "0123456789") == "" {
		return &FieldError{field, "This password is entirely numeric."}
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password: %w", err)
	}
	return string(hash), nil
}

func ComparePassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func RegisterUser(user models.User, password string) (models.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	if err := ValidateUsername(user.Username); err != nil {
		return user, err
	}
	if err := ValidatePassword("password2", password); err != nil {
		return user, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return user, err
	}
	user.Password = hash

	if err := database.C.Create(&user).Error; err != nil {
		return user, fmt.Errorf("unable to create user: %w", err)
	}

	log.Info().Uint("id", user.ID).Str("username", user.Username).Msg("A new user has signed up.")
	return user, nil
}

func CreateSuperuser(username, email, password string) (models.User, error) {
	return RegisterUser(models.User{
		Username:    username,
		Email:       email,
		IsSuperuser: true,
	}, password)
}

func Authenticate(username, password string) (models.User, error) {
	var user models.User
	if err := database.C.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrInvalidCredentials
		}
		return user, err
	}
	if !ComparePassword(user.Password, password) {
		return user, ErrInvalidCredentials
	}
	return user, nil
}

func GetUserWithID(id uint) (models.User, error) {
	var user models.User
	if err := database.C.Where("id = ?", id).First(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func GetUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := database.C.Where("username = ?", username).First(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func ChangePassword(user models.User, oldPassword, newPassword string) (models.User, error) {
	if !ComparePassword(user.Password, oldPassword) {
		return user, &FieldError{"old_password", "Your old password was entered incorrectly. Please enter it again."}
	}
	if err := ValidatePassword("new_password2", newPassword); err != nil {
		return user, err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return user, err
	}
	user.Password = hash
	if err := database.C.Model(&user).Update("password", hash).Error; err != nil {
		return user, fmt.Errorf("unable to update password: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account with everything it owns: its follow pairs in both
// directions, its comments, its posts and the comments under those posts.
func DeleteUser(user models.User) error {
	var images []string
	if err := database.C.Model(&models.Post{}).
		Where("author_id = ? AND image IS NOT NULL", user.ID).
		Pluck("image", &images).Error; err != nil {
		return fmt.Errorf("unable to collect post images: %w", err)
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		for _, model := range database.AutoMaintainRange {
			var err error
			switch model.(type) {
			case *models.Follow:
				err = tx.Where("user_id = ? OR author_id = ?", user.ID, user.ID).Delete(model).Error
			case *models.Comment:
				authored := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", user.ID)
				err = tx.Where("author_id = ? OR post_id IN (?)", user.ID, authored).Delete(model).Error
			default:
				err = tx.Where("author_id = ?", user.ID).Delete(model).Error
			}
			if err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete user: %w", err)
	}

	for _, image := range images {
		RemoveImage(image)
	}

	log.Info().Uint("id", user.ID).Msg("User and its content has been deleted.")
	return nil
}
