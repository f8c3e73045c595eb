package auth

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// contextKeyIdentity stores the resolved *Identity in the Echo context.
// contextKeyResolved marks that resolution already ran for this request,
// so anonymous requests are not re-validated by every gate.
const (
	contextKeyIdentity = "auth_identity"
	contextKeyResolved = "auth_resolved"
)

// Paths the gates redirect to.
const (
	LoginPath   = "/auth/login"
	LandingPath = "/"
)

// LoadIdentity returns middleware that resolves the session cookie, if any,
// into an Identity for downstream handlers. Requests without a valid
// session continue anonymously and a stale cookie is cleared.
func LoadIdentity(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := resolveIdentity(c, service); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Require returns middleware that applies gate to the request identity.
// It resolves the identity itself when LoadIdentity has not run.
func Require(service AuthService, gate Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolveIdentity(c, service)
			if err != nil {
				return err
			}

			decision := gate(id)
			if !decision.Allowed {
				return deny(c, decision.Reason)
			}
			return next(c)
		}
	}
}

// RequireLogin refuses anonymous requests.
func RequireLogin(service AuthService) echo.MiddlewareFunc {
	return Require(service, CheckLogin)
}

// RequireAdmin refuses anonymous and non-admin requests.
func RequireAdmin(service AuthService) echo.MiddlewareFunc {
	return Require(service, CheckAdmin)
}

// CurrentIdentity returns the identity resolved for this request, or nil
// for anonymous requests.
func CurrentIdentity(c echo.Context) *Identity {
	id, ok := c.Get(contextKeyIdentity).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// resolveIdentity validates the session cookie once per request and caches
// the result in the Echo context.
func resolveIdentity(c echo.Context, service AuthService) (*Identity, error) {
	if resolved, _ := c.Get(contextKeyResolved).(bool); resolved {
		return CurrentIdentity(c), nil
	}
	c.Set(contextKeyResolved, true)

	token := getSessionToken(c)
	if token == "" {
		return nil, nil
	}

	id, err := service.ValidateSession(c.Request().Context(), token)
	if err != nil {
		if apperror.IsCode(err, http.StatusUnauthorized) {
			clearSessionCookie(c)
			return nil, nil
		}
		return nil, err
	}

	c.Set(contextKeyIdentity, id)
	return id, nil
}

// deny turns a refused decision into a redirect. Unauthenticated clients go
// to the login page with the original destination preserved; forbidden
// ones go to the landing page.
func deny(c echo.Context, reason DenyReason) error {
	if reason == DenyForbidden {
		return c.Redirect(http.StatusSeeOther, LandingPath)
	}
	next := c.Request().URL.RequestURI()
	return c.Redirect(http.StatusSeeOther, LoginPath+"?next="+url.QueryEscape(next))
}
