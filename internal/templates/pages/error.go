// Package pages holds site-wide pages that belong to no plugin.
package pages

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/zeromovies/internal/templates/layouts"
)

var errorTmpl = template.Must(template.New("error").Parse(`<section class="error-page">
  <h1>{{.Code}}</h1>
  <p>{{.Message}}</p>
  <a href="/">Back to movies</a>
</section>`))

// ErrorPage renders a human-facing error page.
func ErrorPage(code int, message string) templ.Component {
	data := struct {
		Code    int
		Message string
	}{code, message}
	return layouts.Page("Error", layouts.Template(errorTmpl, "error", data))
}
