package models

import "time"

type Comment struct {
	BaseModel

	Text    string    `json:"text"`
	Created time.Time `json:"created" gorm:"autoCreateTime"`

	PostID   uint `json:"post_id"`
	Post     Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint `json:"author_id"`
	Author   User `json:"author" gorm:"constraint:OnDelete:CASCADE"`
}
