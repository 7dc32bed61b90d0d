package http

import (
	nethttp "net/http"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/templates"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/ui"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	engine := html.NewFileSystem(nethttp.FS(templates.FS), ".html")
	engine.Reload(viper.GetBool("debug"))
	exts.RegisterTemplateFuncs(engine)
	exts.SetViews(engine)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		UnescapePath:          true,
		ServerHeader:          "Yatube",
		AppName:               "Yatube",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             viper.GetInt("media.max_size") + (1 << 20),
		Views:                 engine,
		ViewsLayout:           "layouts/base",
		PassLocalsToViews:     true,
		ErrorHandler:          ui.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: viper.GetBool("debug"),
	}))

	app.Use(logger.New(logger.Config{
		Format: "${status} | ${latency} | ${method} ${path}\n",
		Output: log.Logger,
	}))

	app.Static("/media", viper.GetString("media.root"), fiber.Static{
		MaxAge: int((24 * time.Hour).Seconds()),
	})

	app.Use(exts.SessionMiddleware)

	admin.MapControllers(app, "/admin/api")

	if viper.GetBool("security.csrf") {
		app.Use(csrf.New(csrf.Config{
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/admin/api")
			},
			KeyLookup:      "form:_csrf",
			CookieName:     "yatube_csrf",
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			CookieSecure:   viper.GetBool("security.cookie_secure"),
			CookieHTTPOnly: true,
			Expiration:     12 * time.Hour,
			ContextKey:     "csrf",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				log.Debug().Err(err).Str("path", c.Path()).Msg("Rejected a request without a valid csrf token...")
				return fiber.NewError(fiber.StatusForbidden, "CSRF verification failed. Request aborted.")
			},
		}))
	}

	ui.MapControllers(app)

	return &App{app}
}

// App exposes the fiber application, mostly so tests can drive it with app.Test.
func (v *App) App() *fiber.App {
	return v.app
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *App) Shutdown() error {
	return v.app.ShutdownWithTimeout(10 * time.Second)
}
