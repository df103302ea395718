package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	// Public: a gig's reviews are part of its listing.
	e.GET("/v1/gigs/:id/reviews", reviewHandler.ListGigReviews)

	reviews := e.Group("/v1/reviews")
	reviews.Use(authMiddleware.Authenticate)

	reviews.POST("", reviewHandler.CreateReview)
	reviews.GET("/mine", reviewHandler.ListMyReviews)
}
