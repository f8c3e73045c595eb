// Package admin provides the catalog administration pages. Every route
// except the login shortcut requires an administrator.
package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
	"github.com/keyxmakerx/zeromovies/internal/middleware"
	"github.com/keyxmakerx/zeromovies/internal/plugins/auth"
	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
)

// UserCounter provides the number of registered users for the dashboard.
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// Handler handles admin HTTP requests. Depends on other plugins' services
// via interfaces; no direct repo access.
type Handler struct {
	catalog catalog.CatalogService
	users   UserCounter
}

// NewHandler creates a new admin handler.
func NewHandler(catalogService catalog.CatalogService, users UserCounter) *Handler {
	return &Handler{catalog: catalogService, users: users}
}

// Dashboard renders every movie, newest first (GET /admin/).
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	movies, err := h.catalog.ListAll(ctx)
	if err != nil {
		return err
	}
	userCount, err := h.users.CountUsers(ctx)
	if err != nil {
		return apperror.NewInternal(err)
	}

	return middleware.Render(c, http.StatusOK, DashboardPage(dashboardData{
		CSRFToken: middleware.GetCSRFToken(c),
		Movies:    movies,
		UserCount: userCount,
		Deleted:   c.QueryParam("deleted") != "",
		Added:     c.QueryParam("added") != "",
	}))
}

// Login is the admin entry point (GET /admin/login). Administrators go
// straight to the dashboard; everyone else is sent to the login form,
// which returns to the dashboard afterwards.
func (h *Handler) Login(c echo.Context) error {
	if auth.CheckAdmin(auth.CurrentIdentity(c)).Allowed {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return c.Redirect(http.StatusSeeOther, auth.LoginPath+"?next="+url.QueryEscape("/admin/"))
}

// AddMovieForm renders the add-movie form (GET /admin/add_movie).
func (h *Handler) AddMovieForm(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, AddMoviePage(addMovieData{
		CSRFToken: middleware.GetCSRFToken(c),
	}))
}

// AddMovie creates a movie (POST /admin/add_movie). Validation failures
// re-render the form with the submitted values.
func (h *Handler) AddMovie(c echo.Context) error {
	var req catalog.MovieRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	_, err := h.catalog.Create(c.Request().Context(), auth.CurrentIdentity(c), catalog.CreateMovieInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		DownloadURL:  req.DownloadURL,
	})
	if err != nil {
		if !apperror.IsCode(err, http.StatusUnprocessableEntity) {
			return err
		}
		return middleware.Render(c, http.StatusUnprocessableEntity, AddMoviePage(addMovieData{
			CSRFToken: middleware.GetCSRFToken(c),
			Movie:     req,
			Error:     apperror.SafeMessage(err),
		}))
	}

	return c.Redirect(http.StatusSeeOther, "/admin/?added=1")
}

// DeleteMovie removes a movie (POST /admin/delete_movie/:id). Unknown ids
// are a 404.
func (h *Handler) DeleteMovie(c echo.Context) error {
	removed, err := h.catalog.Delete(c.Request().Context(), auth.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NewNotFound("movie not found")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?deleted=1")
}
