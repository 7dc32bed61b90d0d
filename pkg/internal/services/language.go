package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

var DetectableLanguages = []lingua.Language{
	lingua.English,
	lingua.Russian,
	lingua.Ukrainian,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Chinese,
	lingua.Japanese,
}

// DetectLanguage returns the ISO 639-1 code of the text, or an empty string when unsure.
func DetectLanguage(content string) string {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(DetectableLanguages...).
			Build()
	})

	if lang, ok := languageDetector.DetectLanguageOf(content); ok {
		return strings.ToLower(lang.IsoCode639_1().String())
	}
	return ""
}
