package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, adminHandler *handler.AdminHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.DELETE("/gigs/:id", adminHandler.DeleteGig)
	admin.GET("/orders", adminHandler.ListOrders)
}
