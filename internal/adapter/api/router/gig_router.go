package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupGigRouter(e *echo.Echo, gigHandler *handler.GigHandler, authMiddleware *middleware.AuthMiddleware) {
	// Public browsing
	e.GET("/v1/gigs", gigHandler.ListGigs)
	e.GET("/v1/gigs/:id", gigHandler.GetGig)

	gigs := e.Group("/v1/gigs")
	gigs.Use(authMiddleware.Authenticate)

	gigs.POST("", gigHandler.CreateGig)
	gigs.GET("/mine", gigHandler.ListMyGigs)
	gigs.PUT("/:id", gigHandler.UpdateGig)
	gigs.DELETE("/:id", gigHandler.DeleteGig)
}
