package admin

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/plugins/auth"
)

// RegisterRoutes sets up the admin routes. The /admin group requires an
// administrator; /admin/login is registered outside it so anyone can use
// it as an entry point.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService) *echo.Group {
	e.GET("/admin/login", h.Login)

	admin := e.Group("/admin", auth.RequireAdmin(authService))

	admin.GET("/", h.Dashboard)
	admin.GET("/add_movie", h.AddMovieForm)
	admin.POST("/add_movie", h.AddMovie)
	admin.POST("/delete_movie/:id", h.DeleteMovie)

	return admin
}
