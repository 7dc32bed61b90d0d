package models

type Follow struct {
	BaseModel

	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_follow_pair"`
	User     User `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint `json:"author_id" gorm:"uniqueIndex:idx_follow_pair"`
	Author   User `json:"author" gorm:"constraint:OnDelete:CASCADE"`
}
