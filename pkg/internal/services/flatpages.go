package services

import (
	"strings"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
)

// NormalizeFlatPageURL makes the url start and end with a slash.
func NormalizeFlatPageURL(url string) string {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}

func GetFlatPage(url string) (models.FlatPage, error) {
	var page models.FlatPage
	if err := database.C.Where("url = ?", NormalizeFlatPageURL(url)).First(&page).Error; err != nil {
		return page, err
	}
	return page, nil
}

func GetFlatPageWithID(id uint) (models.FlatPage, error) {
	var page models.FlatPage
	err := database.C.Where("id = ?", id).First(&page).Error
	return page, err
}

func ListFlatPage() ([]models.FlatPage, error) {
	var pages []models.FlatPage
	err := database.C.Order("url ASC").Find(&pages).Error
	return pages, err
}

func validateFlatPage(page models.FlatPage) (models.FlatPage, error) {
	page.URL = NormalizeFlatPageURL(page.URL)
	if page.URL == "/" || strings.ContainsAny(page.URL, " ?#") {
		return page, &FieldError{"url", "URL is missing a leading or trailing slash, or contains invalid characters."}
	}
	if len(strings.TrimSpace(page.Title)) == 0 {
		return page, &FieldError{"title", "This field is required."}
	}

	var count int64
	if err := database.C.Model(&models.FlatPage{}).
		Where("url = ? AND id <> ?", page.URL, page.ID).
		Count(&count).Error; err != nil {
		return page, err
	}
	if count > 0 {
		return page, &FieldError{"url", "Flatpage with url " + page.URL + " already exists."}
	}
	return page, nil
}

func NewFlatPage(page models.FlatPage) (models.FlatPage, error) {
	page, err := validateFlatPage(page)
	if err != nil {
		return page, err
	}
	err = database.C.Create(&page).Error
	return page, err
}

func EditFlatPage(page models.FlatPage) (models.FlatPage, error) {
	page, err := validateFlatPage(page)
	if err != nil {
		return page, err
	}
	err = database.C.Save(&page).Error
	return page, err
}

func DeleteFlatPage(page models.FlatPage) error {
	return database.C.Delete(&page).Error
}
