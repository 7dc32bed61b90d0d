package templates

import "embed"

//go:embed layouts partials misc auth posts *.html
var FS embed.FS
