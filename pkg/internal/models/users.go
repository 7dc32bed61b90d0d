package models

import "strings"

type User struct {
	BaseModel

	Username    string `json:"username" gorm:"uniqueIndex;size:150"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"-"`
	IsSuperuser bool   `json:"is_superuser"`
}

// DisplayName falls back to the username when no real name was given.
func (v User) DisplayName() string {
	name := strings.TrimSpace(v.FirstName + " " + v.LastName)
	if len(name) == 0 {
		return v.Username
	}
	return name
}
