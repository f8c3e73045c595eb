package catalog

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the public catalog routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Index)
	e.GET("/search", h.Search)
	e.GET("/movie/:id", h.Detail)
}
