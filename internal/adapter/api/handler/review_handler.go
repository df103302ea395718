package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	GigID   string `json:"gig_id" validate:"required"`
	OrderID string `json:"order_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=3"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), buyerID, usecase.CreateReviewInput{
		GigID:   req.GigID,
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) ListGigReviews(c echo.Context) error {
	reviews, err := h.reviewUseCase.ListGigReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}

func (h *ReviewHandler) ListMyReviews(c echo.Context) error {
	buyerID := c.Get("uid").(string)

	reviews, err := h.reviewUseCase.ListBuyerReviews(c.Request().Context(), buyerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}
