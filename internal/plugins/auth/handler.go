package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
	"github.com/keyxmakerx/zeromovies/internal/middleware"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "zeromovies_session"

// Handler handles HTTP requests for authentication (signup, login, logout).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// SignupForm renders the signup page (GET /auth/signup).
func (h *Handler) SignupForm(c echo.Context) error {
	if CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusSeeOther, LandingPath)
	}
	return middleware.Render(c, http.StatusOK, SignupPage(signupPageData{
		CSRFToken: middleware.GetCSRFToken(c),
	}))
}

// Signup processes the signup form (POST /auth/signup). Validation and
// conflict errors re-render the form with the message.
func (h *Handler) Signup(c echo.Context) error {
	if CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusSeeOther, LandingPath)
	}

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	_, err := h.service.Register(c.Request().Context(), RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		code := apperror.SafeCode(err)
		if code >= http.StatusInternalServerError {
			return err
		}
		return middleware.Render(c, code, SignupPage(signupPageData{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  req.Username,
			Email:     req.Email,
			Error:     apperror.SafeMessage(err),
		}))
	}

	return c.Redirect(http.StatusSeeOther, LoginPath+"?registered=1")
}

// LoginForm renders the login page (GET /auth/login). The next parameter
// survives into the form so the client resumes where it was sent from.
func (h *Handler) LoginForm(c echo.Context) error {
	if CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusSeeOther, LandingPath)
	}

	var notice string
	if c.QueryParam("registered") != "" {
		notice = "Account created successfully! Please log in."
	}

	return middleware.Render(c, http.StatusOK, LoginPage(loginPageData{
		CSRFToken: middleware.GetCSRFToken(c),
		Next:      c.QueryParam("next"),
		Notice:    notice,
	}))
}

// Login processes the login form (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	if CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusSeeOther, LandingPath)
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}

	result, err := h.service.Login(c.Request().Context(), LoginInput{
		Username: req.Username,
		Password: req.Password,
		Remember: req.Remember != "",
	})
	if err != nil {
		code := apperror.SafeCode(err)
		if code >= http.StatusInternalServerError {
			return err
		}
		return middleware.Render(c, code, LoginPage(loginPageData{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  req.Username,
			Next:      req.Next,
			Error:     apperror.SafeMessage(err),
		}))
	}

	setSessionCookie(c, result.Token, result.MaxAge)
	return c.Redirect(http.StatusSeeOther, SafeNext(req.Next))
}

// Logout destroys the session and clears the cookie (/auth/logout).
func (h *Handler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context(), getSessionToken(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, LandingPath)
}

// SafeNext returns next when it is a local path, otherwise the landing
// page. Absolute and scheme-relative URLs are refused to avoid open
// redirects.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return LandingPath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return LandingPath
	}
	return next
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie. maxAge 0 leaves the cookie
// without Max-Age so the browser drops it when it closes.
func setSessionCookie(c echo.Context, token string, maxAge int) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
