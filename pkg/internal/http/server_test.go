package http

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/cache"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/testkit"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *nethttp.Cookie
	jar    map[string]*nethttp.Cookie
}

func newTestApp(t *testing.T) *fiber.App {
	testkit.Setup(t)
	return NewServer().App()
}

func anonymous(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

func loggedIn(t *testing.T, app *fiber.App, user models.User) *client {
	token, _, err := services.NewSessionToken(user)
	require.NoError(t, err)
	return &client{t: t, app: app, cookie: &nethttp.Cookie{Name: services.SessionCookieName, Value: token}}
}

func (v *client) do(req *nethttp.Request) *nethttp.Response {
	v.t.Helper()
	if v.cookie != nil {
		req.AddCookie(v.cookie)
	}
	for _, item := range v.jar {
		req.AddCookie(item)
	}
	resp, err := v.app.Test(req, -1)
	require.NoError(v.t, err)
	if v.jar != nil {
		for _, item := range resp.Cookies() {
			v.jar[item.Name] = &nethttp.Cookie{Name: item.Name, Value: item.Value}
		}
	}
	return resp
}

func (v *client) get(path string) *nethttp.Response {
	return v.do(httptest.NewRequest(fiber.MethodGet, path, nil))
}

func (v *client) post(path string, values url.Values) *nethttp.Response {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return v.do(req)
}

func (v *client) postMultipart(path string, form *testkit.Form) *nethttp.Response {
	body, contentType := form.Close()
	req := httptest.NewRequest(fiber.MethodPost, path, body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	return v.do(req)
}

func readBody(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func countPost(t *testing.T) int64 {
	var count int64
	require.NoError(t, database.C.Model(&models.Post{}).Count(&count).Error)
	return count
}

func TestPagesAreServed(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	group := testkit.CreateGroup(t, "Writers", "writers")
	post := testkit.CreatePost(t, leo, "All happy families", &group)

	guest := anonymous(t, app)
	for _, path := range []string{
		"/",
		"/group/writers/",
		"/leo/",
		fmt.Sprintf("/leo/%d/", post.ID),
	} {
		resp := guest.get(path)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), "All happy families", path)
	}
}

func TestUnknownPagesAreNotFound(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	testkit.CreateUser(t, "anna")
	post := testkit.CreatePost(t, leo, "Mine", nil)

	guest := anonymous(t, app)
	for _, path := range []string{
		"/nobody/",
		"/group/missing/",
		"/leo/9999/",
		fmt.Sprintf("/anna/%d/", post.ID),
		"/a/b/c/d/",
	} {
		resp := guest.get(path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), "Page not found", path)
	}
}

func TestNewPost(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	group := testkit.CreateGroup(t, "Writers", "writers")

	t.Run("Guests are sent to log in", func(t *testing.T) {
		guest := anonymous(t, app)

		resp := guest.get("/new/")
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login/?next=/new/", resp.Header.Get(fiber.HeaderLocation))

		resp = guest.post("/new/", url.Values{"text": {"Sneaky"}})
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.EqualValues(t, 0, countPost(t))
	})

	author := loggedIn(t, app, leo)

	resp := author.get("/new/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `name="text"`)

	resp = author.post("/new/", url.Values{
		"text":  {"Brand new post"},
		"group": {fmt.Sprint(group.ID)},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	assert.EqualValues(t, 1, countPost(t))

	var stored models.Post
	require.NoError(t, database.C.First(&stored).Error)
	assert.Equal(t, "Brand new post", stored.Text)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)

	t.Run("Blank text is rejected", func(t *testing.T) {
		resp := author.post("/new/", url.Values{"text": {"   "}})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "This field is required.")
		assert.EqualValues(t, 1, countPost(t))
	})
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	anna := testkit.CreateUser(t, "anna")
	group := testkit.CreateGroup(t, "Writers", "writers")
	post := testkit.CreatePost(t, leo, "First draft", &group)
	editURL := fmt.Sprintf("/leo/%d/edit/", post.ID)
	postURL := fmt.Sprintf("/leo/%d/", post.ID)

	t.Run("Other users are sent back to the post", func(t *testing.T) {
		resp := loggedIn(t, app, anna).get(editURL)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))

		resp = loggedIn(t, app, anna).post(editURL, url.Values{"text": {"Hijacked"}})
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))
	})

	author := loggedIn(t, app, leo)
	resp := author.get(editURL)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "First draft")

	resp = author.post(editURL, url.Values{
		"text":  {"Second draft"},
		"group": {fmt.Sprint(group.ID)},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))

	for _, path := range []string{"/", "/leo/", postURL, "/group/writers/", editURL} {
		body := readBody(t, author.get(path))
		assert.Contains(t, body, "Second draft", path)
		assert.NotContains(t, body, "First draft", path)
	}
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	anna := testkit.CreateUser(t, "anna")
	post := testkit.CreatePost(t, leo, "Regrettable", nil)
	deleteURL := fmt.Sprintf("/leo/%d/delete/", post.ID)

	resp := loggedIn(t, app, anna).post(deleteURL, url.Values{})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.EqualValues(t, 1, countPost(t))

	resp = loggedIn(t, app, leo).post(deleteURL, url.Values{})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/leo/", resp.Header.Get(fiber.HeaderLocation))
	assert.EqualValues(t, 0, countPost(t))
}

func TestPostWithImage(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	group := testkit.CreateGroup(t, "Writers", "writers")
	author := loggedIn(t, app, leo)

	resp := author.postMultipart("/new/", testkit.NewForm().
		Field("text", "Look at this").
		Field("group", fmt.Sprint(group.ID)).
		File("image", "small.gif", "image/gif", testkit.GIF))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var stored models.Post
	require.NoError(t, database.C.First(&stored).Error)
	require.NotNil(t, stored.Image)

	for _, path := range []string{"/", "/leo/", "/group/writers/", fmt.Sprintf("/leo/%d/", stored.ID)} {
		body := readBody(t, author.get(path))
		assert.Contains(t, body, `<img class="card-img"`, path)
		assert.Contains(t, body, "/media/"+*stored.Image, path)
	}

	resp = author.get("/media/" + *stored.Image)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	t.Run("Files that are not images are rejected", func(t *testing.T) {
		resp := author.postMultipart("/new/", testkit.NewForm().
			Field("text", "Not a picture").
			File("image", "notes.txt", "text/plain", []byte("plain text, not an image")))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Upload a valid image.")
		assert.EqualValues(t, 1, countPost(t))
	})
}

func mediaFileExists(t *testing.T, path string) bool {
	_, err := os.Stat(filepath.Join(viper.GetString("media.root"), path))
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

func getStoredPost(t *testing.T, id uint) models.Post {
	var stored models.Post
	require.NoError(t, database.C.Where("id = ?", id).First(&stored).Error)
	return stored
}

func TestEditPostImage(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	group := testkit.CreateGroup(t, "Writers", "writers")
	post := testkit.CreatePost(t, leo, "Plain words", &group)
	editURL := fmt.Sprintf("/leo/%d/edit/", post.ID)
	postURL := fmt.Sprintf("/leo/%d/", post.ID)
	author := loggedIn(t, app, leo)

	resp := author.postMultipart(editURL, testkit.NewForm().
		Field("text", "Plain words").
		Field("group", fmt.Sprint(group.ID)).
		File("image", "small.gif", "image/gif", testkit.GIF))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))

	first := getStoredPost(t, post.ID).Image
	require.NotNil(t, first)
	assert.True(t, mediaFileExists(t, *first))

	for _, path := range []string{"/", "/leo/", "/group/writers/", postURL} {
		body := readBody(t, author.get(path))
		assert.Contains(t, body, `<img class="card-img"`, path)
		assert.Contains(t, body, "/media/"+*first, path)
	}

	t.Run("Files that are not images are rejected", func(t *testing.T) {
		resp := author.postMultipart(editURL, testkit.NewForm().
			Field("text", "Broken upload").
			File("image", "notes.txt", "text/plain", []byte("plain text, not an image")))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Upload a valid image.")

		stored := getStoredPost(t, post.ID)
		assert.Equal(t, "Plain words", stored.Text)
		require.NotNil(t, stored.Image)
		assert.Equal(t, *first, *stored.Image)
	})

	t.Run("Saving without an upload keeps the image", func(t *testing.T) {
		resp := author.postMultipart(editURL, testkit.NewForm().Field("text", "Still pictured"))
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		stored := getStoredPost(t, post.ID)
		assert.Equal(t, "Still pictured", stored.Text)
		require.NotNil(t, stored.Image)
		assert.Equal(t, *first, *stored.Image)
		assert.True(t, mediaFileExists(t, *first))
	})

	var second string
	t.Run("A new upload replaces the old file", func(t *testing.T) {
		resp := author.postMultipart(editURL, testkit.NewForm().
			Field("text", "New picture").
			File("image", "small.png", "image/png", testkit.PNG(t)))
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		stored := getStoredPost(t, post.ID)
		require.NotNil(t, stored.Image)
		second = *stored.Image
		assert.NotEqual(t, *first, second)
		assert.True(t, mediaFileExists(t, second))
		assert.False(t, mediaFileExists(t, *first))
	})

	t.Run("Clearing removes the image", func(t *testing.T) {
		resp := author.postMultipart(editURL, testkit.NewForm().
			Field("text", "No picture").
			Field("image-clear", "on"))
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		assert.Nil(t, getStoredPost(t, post.ID).Image)
		if second != "" {
			assert.False(t, mediaFileExists(t, second))
		}
		assert.NotContains(t, readBody(t, author.get(postURL)), `<img class="card-img"`)
	})
}

var csrfTokenPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func readCsrfToken(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	match := csrfTokenPattern.FindStringSubmatch(readBody(t, resp))
	require.Len(t, match, 2, "no csrf token on the page")
	return match[1]
}

func TestCsrfProtectedForms(t *testing.T) {
	testkit.Setup(t)
	viper.Set("security.csrf", true)
	viper.Set("security.cookie_secure", false)
	app := NewServer().App()
	testkit.CreateUser(t, "leo")

	browser := &client{t: t, app: app, jar: map[string]*nethttp.Cookie{}}

	resp := browser.get("/auth/login/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := readCsrfToken(t, resp)

	t.Run("Forms without a token are refused", func(t *testing.T) {
		resp := browser.post("/auth/login/", url.Values{"username": {"leo"}, "password": {testkit.DefaultPassword}})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	resp = browser.post("/auth/login/", url.Values{
		"_csrf":    {token},
		"username": {"leo"},
		"password": {testkit.DefaultPassword},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Contains(t, browser.jar, services.SessionCookieName)

	resp = browser.get("/new/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token = readCsrfToken(t, resp)

	resp = browser.postMultipart("/new/", testkit.NewForm().
		Field("_csrf", token).
		Field("text", "Guarded post"))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	assert.EqualValues(t, 1, countPost(t))

	resp = browser.postMultipart("/new/", testkit.NewForm().Field("text", "Forged post"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.EqualValues(t, 1, countPost(t))
}

func TestNonLatinUsernames(t *testing.T) {
	app := newTestApp(t)
	guest := anonymous(t, app)

	resp := guest.post("/auth/signup/", url.Values{
		"username":  {"анна"},
		"email":     {"anna@example.com"},
		"password1": {"vronsky-forever"},
		"password2": {"vronsky-forever"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var anna models.User
	require.NoError(t, database.C.Where("username = ?", "анна").First(&anna).Error)
	post := testkit.CreatePost(t, anna, "Все счастливые семьи похожи друг на друга", nil)

	// Browsers send the path percent-encoded.
	profileURL := "/" + url.PathEscape("анна") + "/"
	postURL := fmt.Sprintf("%s%d/", profileURL, post.ID)
	assert.Equal(t, "/%D0%B0%D0%BD%D0%BD%D0%B0/", profileURL)

	for _, path := range []string{profileURL, postURL} {
		resp := guest.get(path)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), "Все счастливые семьи", path)
	}

	author := loggedIn(t, app, anna)
	assert.Equal(t, fiber.StatusOK, author.get(postURL+"edit/").StatusCode)

	resp = author.post(postURL+"edit/", url.Values{"text": {"Каждая несчастливая семья"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))

	resp = loggedIn(t, app, testkit.CreateUser(t, "leo")).get(profileURL + "follow/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, profileURL, resp.Header.Get(fiber.HeaderLocation))
	assert.EqualValues(t, 1, services.CountFollower(anna))
}

func TestIndexFragmentCache(t *testing.T) {
	app := newTestApp(t)
	viper.Set("cache.index_ttl", 500*time.Millisecond)
	leo := testkit.CreateUser(t, "leo")
	testkit.CreatePost(t, leo, "Cached post", nil)

	guest := anonymous(t, app)
	assert.Contains(t, readBody(t, guest.get("/")), "Cached post")

	testkit.CreatePost(t, leo, "Fresh post", nil)
	body := readBody(t, guest.get("/"))
	assert.Contains(t, body, "Cached post")
	assert.NotContains(t, body, "Fresh post")

	// Other pages are not cached.
	assert.Contains(t, readBody(t, guest.get("/leo/")), "Fresh post")

	time.Sleep(time.Second)
	assert.Contains(t, readBody(t, guest.get("/")), "Fresh post")
}

func TestIndexFragmentKeyedByPageNumber(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	testkit.CreatePost(t, leo, "Cached post", nil)

	guest := anonymous(t, app)
	assert.Contains(t, readBody(t, guest.get("/?page=garbage")), "Cached post")

	_, hit := cache.GetFragment(context.Background(), cache.GetFragmentCacheKey("index_page", 1))
	assert.True(t, hit)
	_, hit = cache.GetFragment(context.Background(), cache.GetFragmentCacheKey("index_page", "garbage"))
	assert.False(t, hit)

	testkit.CreatePost(t, leo, "Fresh post", nil)
	for _, path := range []string{"/", "/?page=1", "/?page=9999", "/?page=-3"} {
		body := readBody(t, guest.get(path))
		assert.Contains(t, body, "Cached post", path)
		assert.NotContains(t, body, "Fresh post", path)
	}
}

func TestFollowFeed(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	reader := testkit.CreateUser(t, "reader")
	stranger := testkit.CreateUser(t, "stranger")
	testkit.CreatePost(t, leo, "For my followers", nil)

	follower := loggedIn(t, app, reader)

	resp := follower.get("/leo/follow/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/leo/", resp.Header.Get(fiber.HeaderLocation))
	assert.True(t, services.IsFollowing(reader, leo))

	assert.Contains(t, readBody(t, follower.get("/follow/")), "For my followers")
	assert.NotContains(t, readBody(t, loggedIn(t, app, stranger).get("/follow/")), "For my followers")

	t.Run("Following yourself does nothing", func(t *testing.T) {
		resp := loggedIn(t, app, leo).get("/leo/follow/")
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.False(t, services.IsFollowing(leo, leo))
	})

	t.Run("Following nobody is not found", func(t *testing.T) {
		assert.Equal(t, fiber.StatusNotFound, follower.get("/nobody/follow/").StatusCode)
	})

	t.Run("Guests are sent to log in", func(t *testing.T) {
		resp := anonymous(t, app).get("/leo/follow/")
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login/?next=/leo/follow/", resp.Header.Get(fiber.HeaderLocation))
	})

	resp = follower.get("/leo/unfollow/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.False(t, services.IsFollowing(reader, leo))
	assert.NotContains(t, readBody(t, follower.get("/follow/")), "For my followers")

	// Unfollowing again is harmless.
	assert.Equal(t, fiber.StatusFound, follower.get("/leo/unfollow/").StatusCode)
}

func TestComments(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	anna := testkit.CreateUser(t, "anna")
	post := testkit.CreatePost(t, leo, "Discuss", nil)
	commentURL := fmt.Sprintf("/leo/%d/comment/", post.ID)
	postURL := fmt.Sprintf("/leo/%d/", post.ID)

	resp := anonymous(t, app).post(commentURL, url.Values{"text": {"Anonymous opinion"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next="+commentURL, resp.Header.Get(fiber.HeaderLocation))
	assert.EqualValues(t, 0, services.CountPostComment(post.ID))

	commenter := loggedIn(t, app, anna)
	resp = commenter.post(commentURL, url.Values{"text": {"Well written"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postURL, resp.Header.Get(fiber.HeaderLocation))
	assert.Contains(t, readBody(t, anonymous(t, app).get(postURL)), "Well written")

	resp = commenter.post(commentURL, url.Values{"text": {""}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, services.CountPostComment(post.ID))

	resp = commenter.post(fmt.Sprintf("/anna/%d/comment/", post.ID), url.Values{"text": {"Wrong author"}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)
	guest := anonymous(t, app)

	assert.Equal(t, fiber.StatusNotFound, guest.get("/anna/").StatusCode)

	resp := guest.post("/auth/signup/", url.Values{
		"first_name": {"Anna"},
		"last_name":  {"Karenina"},
		"username":   {"anna"},
		"email":      {"anna@example.com"},
		"password1":  {"vronsky-forever"},
		"password2":  {"vronsky-forever"},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, fiber.StatusOK, guest.get("/anna/").StatusCode)

	t.Run("Mismatched passwords", func(t *testing.T) {
		resp := guest.post("/auth/signup/", url.Values{
			"username":  {"kitty"},
			"email":     {"kitty@example.com"},
			"password1": {"levin-levin"},
			"password2": {"levin-levin2"},
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "didn’t match")
	})

	t.Run("Wrong password", func(t *testing.T) {
		resp := guest.post("/auth/login/", url.Values{"username": {"anna"}, "password": {"nope-nope"}})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Please enter a correct username and password.")
	})

	resp = guest.post("/auth/login/?next=/new/", url.Values{"username": {"anna"}, "password": {"vronsky-forever"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/new/", resp.Header.Get(fiber.HeaderLocation))

	var session *nethttp.Cookie
	for _, item := range resp.Cookies() {
		if item.Name == services.SessionCookieName {
			session = item
		}
	}
	require.NotNil(t, session)

	member := &client{t: t, app: app, cookie: session}
	assert.Equal(t, fiber.StatusOK, member.get("/new/").StatusCode)

	t.Run("Foreign redirect targets are ignored", func(t *testing.T) {
		resp := guest.post("/auth/login/?next=//evil.example", url.Values{"username": {"anna"}, "password": {"vronsky-forever"}})
		assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	})
}

func TestFlatPages(t *testing.T) {
	app := newTestApp(t)
	_, err := services.NewFlatPage(models.FlatPage{URL: "/about-author/", Title: "About the author", Content: "<p>Hello</p>"})
	require.NoError(t, err)
	_, err = services.NewFlatPage(models.FlatPage{URL: "/members/", Title: "Members", RegistrationRequired: true})
	require.NoError(t, err)

	guest := anonymous(t, app)

	resp := guest.get("/about-author/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "<p>Hello</p>")

	assert.Equal(t, fiber.StatusNotFound, guest.get("/about-spec/").StatusCode)

	resp = guest.get("/about/members/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	member := loggedIn(t, app, testkit.CreateUser(t, "leo"))
	assert.Equal(t, fiber.StatusOK, member.get("/about/members/").StatusCode)
}

func TestAdminAPI(t *testing.T) {
	app := newTestApp(t)
	leo := testkit.CreateUser(t, "leo")
	testkit.CreatePost(t, leo, "Leo was here", nil)

	root := testkit.CreateUser(t, "root")
	require.NoError(t, database.C.Model(&root).Update("is_superuser", true).Error)
	root.IsSuperuser = true

	assert.Equal(t, fiber.StatusUnauthorized, anonymous(t, app).get("/admin/api/posts").StatusCode)
	assert.Equal(t, fiber.StatusForbidden, loggedIn(t, app, leo).get("/admin/api/posts").StatusCode)

	admin := loggedIn(t, app, root)
	resp := admin.get("/admin/api/posts?search=leo")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"count":1`)

	req := httptest.NewRequest(fiber.MethodPost, "/admin/api/groups", strings.NewReader(`{"title":"Russian Writers"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp = admin.do(req)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"slug":"russian-writers"`)

	resp = admin.do(httptest.NewRequest(fiber.MethodDelete, "/admin/api/users/leo", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, countPost(t))
}
