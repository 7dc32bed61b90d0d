// Package testkit prepares an isolated database, cache and media root for tests.
package testkit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/cache"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/config"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultPassword = "correct-horse-battery"

// Setup points database.C at a fresh sqlite file and gives the cache an empty
// in-process store. Language detection and csrf checks are off.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()

	config.SetDefaults()
	viper.Set("debug", false)
	viper.Set("database.driver", "sqlite")
	viper.Set("cache.driver", "memory")
	viper.Set("cache.index_ttl", 20*time.Second)
	viper.Set("security.secret", "testing-secret")
	viper.Set("security.csrf", false)
	viper.Set("media.root", t.TempDir())
	viper.Set("posts.page_size", 10)
	viper.Set("posts.detect_language", false)

	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "yatube.db"),
	)
	source, err := database.Open("sqlite", dsn, "yatube_", false)
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))
	database.C = source

	require.NoError(t, cache.NewMemoryStore())

	t.Cleanup(func() {
		if sqlDB, err := source.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if cache.R != nil {
			cache.R.Close()
		}
		cache.S, cache.R = nil, nil
	})

	return source
}

func CreateUser(t *testing.T, username string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, database.C.Create(&user).Error)
	return user
}

func CreateGroup(t *testing.T, title, slug string) models.Group {
	t.Helper()

	group := models.Group{Title: title, Slug: slug, Description: "Description of " + title}
	require.NoError(t, database.C.Create(&group).Error)
	return group
}

func CreatePost(t *testing.T, author models.User, text string, group *models.Group) models.Post {
	t.Helper()

	post := models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, database.C.Omit("Author", "Group").Create(&post).Error)
	post.Author = author
	post.Group = group
	return post
}

func CreateFollow(t *testing.T, user, author models.User) models.Follow {
	t.Helper()

	follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
	require.NoError(t, database.C.Omit("User", "Author").Create(&follow).Error)
	return follow
}

// PNG encodes a tiny picture.
func PNG(t *testing.T) []byte {
	t.Helper()

	canvas := image.NewRGBA(image.Rect(0, 0, 2, 2))
	canvas.Set(0, 0, color.RGBA{R: 255, A: 255})
	canvas.Set(1, 1, color.RGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, canvas))
	return buf.Bytes()
}

// GIF is a two by one pixel picture with a global color table.
var GIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0c,
	0x0a, 0x00, 0x3b,
}

// Form is a multipart body under construction.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func NewForm() *Form {
	form := &Form{}
	form.writer = multipart.NewWriter(&form.buf)
	return form
}

func (v *Form) Field(name, value string) *Form {
	_ = v.writer.WriteField(name, value)
	return v
}

func (v *Form) File(field, filename, contentType string, content []byte) *Form {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)
	part, _ := v.writer.CreatePart(header)
	_, _ = part.Write(content)
	return v
}

// Close finishes the body and returns it with its content type.
func (v *Form) Close() (*bytes.Buffer, string) {
	_ = v.writer.Close()
	return &v.buf, v.writer.FormDataContentType()
}

// Upload builds the file header the server would see for a single uploaded file.
func Upload(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, bodyType := NewForm().File("image", filename, contentType, content).Close()
	_, params, err := mime.ParseMediaType(bodyType)
	require.NoError(t, err)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["image"], 1)
	return form.File["image"][0]
}
