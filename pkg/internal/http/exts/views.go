package exts

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

var views *html.Engine

func SetViews(engine *html.Engine) {
	views = engine
}

// RenderFragment renders a template without the page layout, for caching pieces of pages.
func RenderFragment(name string, binding any) (string, error) {
	if views == nil {
		return "", fmt.Errorf("views are not configured")
	}
	var buf bytes.Buffer
	if err := views.Render(&buf, name, binding); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RegisterTemplateFuncs(engine *html.Engine) {
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	})
	engine.AddFunc("linebreaksbr", func(text string) template.HTML {
		escaped := template.HTMLEscapeString(text)
		escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	})
	engine.AddFunc("media", func(path *string) string {
		if path == nil {
			return ""
		}
		return "/media/" + *path
	})
	engine.AddFunc("safe", func(content string) template.HTML {
		return template.HTML(content)
	})
	engine.AddFunc("itoa", func(v uint) string {
		return fmt.Sprintf("%d", v)
	})
}
