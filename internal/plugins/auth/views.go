package auth

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/zeromovies/internal/templates/layouts"
)

// loginPageData feeds the login template.
type loginPageData struct {
	CSRFToken string
	Username  string
	Next      string
	Error     string
	Notice    string
}

// signupPageData feeds the signup template.
type signupPageData struct {
	CSRFToken string
	Username  string
	Email     string
	Error     string
}

var authTmpl = template.Must(template.New("auth").Parse(`
{{define "login"}}<section class="auth-form">
  <h1>Log in</h1>
  {{if .Notice}}<div class="alert alert-success">{{.Notice}}</div>{{end}}
  {{if .Error}}<div class="alert alert-danger">{{.Error}}</div>{{end}}
  <form method="post" action="/auth/login">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <input type="hidden" name="next" value="{{.Next}}">
    <label>Username <input type="text" name="username" value="{{.Username}}" required></label>
    <label>Password <input type="password" name="password" required></label>
    <label><input type="checkbox" name="remember" value="1"> Remember me</label>
    <button type="submit">Log in</button>
  </form>
  <p>No account? <a href="/auth/signup">Sign up</a></p>
</section>{{end}}

{{define "signup"}}<section class="auth-form">
  <h1>Sign up</h1>
  {{if .Error}}<div class="alert alert-danger">{{.Error}}</div>{{end}}
  <form method="post" action="/auth/signup">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <label>Username <input type="text" name="username" value="{{.Username}}" required></label>
    <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
    <label>Password <input type="password" name="password" required></label>
    <label>Confirm password <input type="password" name="confirm_password" required></label>
    <button type="submit">Create account</button>
  </form>
  <p>Already registered? <a href="/auth/login">Log in</a></p>
</section>{{end}}
`))

// LoginPage renders the full login page.
func LoginPage(data loginPageData) templ.Component {
	return layouts.Page("Log in", layouts.Template(authTmpl, "login", data))
}

// SignupPage renders the full signup page.
func SignupPage(data signupPageData) templ.Component {
	return layouts.Page("Sign up", layouts.Template(authTmpl, "signup", data))
}
