package site

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/pomiya/landing/web"
)

var Module = fx.Module("site",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

// RegisterRoutes registers the landing page and its static assets
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Landing)

	// POST /waitlist - HTML form submit, re-renders the page
	e.POST("/waitlist", h.Submit)

	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))
}
