package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

type Handlers struct {
	User      *handler.UserHandler
	Gig       *handler.GigHandler
	Order     *handler.OrderHandler
	Chat      *handler.ChatHandler
	Review    *handler.ReviewHandler
	Admin     *handler.AdminHandler
	WebSocket *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupUserRouter(e, h.User, authMiddleware)
	SetupGigRouter(e, h.Gig, authMiddleware)
	SetupOrderRouter(e, h.Order, h.Chat, authMiddleware)
	SetupReviewRouter(e, h.Review, authMiddleware)
	SetupAdminRouter(e, h.Admin, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e)
}
