package catalog

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/middleware"
)

// Handler handles the public catalog pages.
type Handler struct {
	service CatalogService
	perPage int
}

// NewHandler creates a catalog handler listing perPage movies per page.
func NewHandler(service CatalogService, perPage int) *Handler {
	return &Handler{service: service, perPage: perPage}
}

// Index lists movies (GET /). Accepts ?page= and ?q=.
func (h *Handler) Index(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), ListOptions{
		Page:    pageParam(c),
		PerPage: h.perPage,
		Query:   c.QueryParam("q"),
	})
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, IndexPage(result))
}

// Detail shows one movie (GET /movie/:id).
func (h *Handler) Detail(c echo.Context) error {
	movie, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, DetailPage(movie))
}

// Search forwards the navbar search to the index (GET /search).
func (h *Handler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Redirect(http.StatusSeeOther, "/?q="+url.QueryEscape(q))
}

// pageParam reads ?page=, defaulting to 1 when absent or not a number.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return page
}
