package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.GetMyOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)

	// Order chat: history replay and HTTP send. Live delivery runs over
	// the /ws endpoint.
	orders.GET("/:id/messages", chatHandler.GetMessages)
	orders.POST("/:id/messages", chatHandler.SendMessage)
}
