package models

import "time"

type Post struct {
	BaseModel

	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	Image    *string   `json:"image"`
	Language string    `json:"language"`

	AuthorID uint `json:"author_id"`
	Author   User `json:"author" gorm:"constraint:OnDelete:CASCADE"`

	GroupID *uint  `json:"group_id"`
	Group   *Group `json:"group" gorm:"constraint:OnDelete:SET NULL"`

	Metric PostMetric `json:"metric" gorm:"-"`
}

type PostMetric struct {
	CommentCount int64 `json:"comment_count"`
}

// Excerpt returns the first runes of the text, the way the post is titled in lists.
func (v Post) Excerpt(length int) string {
	runes := []rune(v.Text)
	if len(runes) <= length {
		return v.Text
	}
	return string(runes[:length])
}
