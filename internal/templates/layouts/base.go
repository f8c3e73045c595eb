package layouts

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// chromeData is what the base layout needs besides the page body.
type chromeData struct {
	Title         string
	Body          template.HTML
	Authenticated bool
	UserName      string
	IsAdmin       bool
	CSRFToken     string
	ActivePath    string
}

var baseTmpl = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · ZeroMovies</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
<nav class="navbar">
  <a class="brand" href="/">ZeroMovies</a>
  <form class="search" action="/search" method="get">
    <input type="search" name="q" placeholder="Search movies">
  </form>
  <ul>
  {{- if .Authenticated}}
    {{- if .IsAdmin}}<li><a href="/admin/"{{if eq .ActivePath "/admin/"}} class="active"{{end}}>Admin</a></li>{{end}}
    <li class="user">{{.UserName}}</li>
    <li><a href="/auth/logout">Log out</a></li>
  {{- else}}
    <li><a href="/auth/login">Log in</a></li>
    <li><a href="/auth/signup">Sign up</a></li>
  {{- end}}
  </ul>
</nav>
<main>
{{.Body}}
</main>
<script src="/static/js/script.js"></script>
</body>
</html>
`))

// Page wraps body in the site chrome. Session details come from the
// context populated by the layout injector.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := body.Render(ctx, &buf); err != nil {
			return err
		}
		return baseTmpl.Execute(w, chromeData{
			Title:         title,
			Body:          template.HTML(buf.String()),
			Authenticated: IsAuthenticated(ctx),
			UserName:      GetUserName(ctx),
			IsAdmin:       IsAdmin(ctx),
			CSRFToken:     GetCSRFToken(ctx),
			ActivePath:    GetActivePath(ctx),
		})
	})
}

// Template adapts a parsed html/template into a templ component. The named
// template is executed with data.
func Template(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := t.ExecuteTemplate(w, name, data); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		return nil
	})
}
