package services

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const PostImageDirectory = "posts"

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

func newInvalidImageError() error {
	return &FieldError{"image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image."}
}

// ValidateImage sniffs the upload and decodes its header, the extension the client
// sent is never trusted. It returns the extension the file will be stored with.
func ValidateImage(file *multipart.FileHeader) (string, error) {
	if limit := viper.GetInt64("media.max_size"); limit > 0 && file.Size > limit {
		return "", &FieldError{"image", fmt.Sprintf("Ensure the image is at most %d bytes (it is %d).", limit, file.Size)}
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open upload: %w", err)
	}
	defer reader.Close()

	mtype, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", newInvalidImageError()
	}
	if !lo.ContainsBy(AllowedImageTypes, func(item string) bool {
		return mtype.Is(item)
	}) {
		return "", newInvalidImageError()
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("unable to rewind upload: %w", err)
	}
	if _, _, err := image.DecodeConfig(reader); err != nil {
		return "", newInvalidImageError()
	}

	return mtype.Extension(), nil
}

// SaveImage validates the upload and writes it under the media root.
// The returned path is relative to the media root.
func SaveImage(file *multipart.FileHeader) (string, error) {
	ext, err := ValidateImage(file)
	if err != nil {
		return "", err
	}

	directory := filepath.Join(viper.GetString("media.root"), PostImageDirectory)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("unable to prepare media directory: %w", err)
	}

	name := uuid.NewString() + ext
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(directory, name))
	if err != nil {
		return "", fmt.Errorf("unable to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("unable to write image file: %w", err)
	}

	return PostImageDirectory + "/" + name, nil
}

func RemoveImage(path string) {
	if err := removeMediaFile(path); err != nil {
		log.Warn().Err(err).Str("image", path).Msg("Unable to remove image from media root...")
	}
}

// DoAutoMediaCleanup deletes uploaded images that no post refers to.
// Files younger than an hour are kept, their post may still be saving.
func DoAutoMediaCleanup() {
	log.Debug().Msg("Cleaning up unused media...")

	var referenced []string
	if err := database.C.Model(&models.Post{}).
		Where("image IS NOT NULL").
		Pluck("image", &referenced).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when listing referenced media...")
		return
	}
	keep := lo.SliceToMap(referenced, func(item string) (string, bool) {
		return item, true
	})

	directory := filepath.Join(viper.GetString("media.root"), PostImageDirectory)
	entries, err := os.ReadDir(directory)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Msg("An error occurred when reading media directory...")
		}
		return
	}

	deadline := time.Now().Add(-time.Hour)
	var count int
	for _, entry := range entries {
		if entry.IsDir() || keep[PostImageDirectory+"/"+entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(deadline) {
			continue
		}
		if err := os.Remove(filepath.Join(directory, entry.Name())); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Unable to remove unused media...")
			continue
		}
		count++
	}

	log.Info().Int("count", count).Msg("Cleaned up unused media.")
}
