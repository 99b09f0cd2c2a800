package http

import (
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// post bodies are authored HTML; the UGC policy strips scripts, event
// handler attributes and javascript: URLs before the content is marked
// safe for the template engine
var sanitizer = bluemonday.UGCPolicy()

// TemplateFuncs returns the helper functions the page templates rely on.
// Must be installed on the engine before templates are loaded.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(sanitizer.Sanitize(s))
		},
	}
}
