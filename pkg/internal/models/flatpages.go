package models

type FlatPage struct {
	BaseModel

	URL                  string `json:"url" gorm:"uniqueIndex;size:100"`
	Title                string `json:"title" gorm:"size:200"`
	Content              string `json:"content"`
	RegistrationRequired bool   `json:"registration_required"`
}
