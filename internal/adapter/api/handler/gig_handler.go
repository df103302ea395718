package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
	"gigmarket/pkg/utils"
)

type GigHandler struct {
	gigUseCase *usecase.GigUseCase
}

func NewGigHandler(gigUseCase *usecase.GigUseCase) *GigHandler {
	return &GigHandler{
		gigUseCase: gigUseCase,
	}
}

type createGigRequest struct {
	Title        string   `json:"title" validate:"required,min=5"`
	Description  string   `json:"description" validate:"required,min=20"`
	Category     string   `json:"category" validate:"required"`
	SubCategory  string   `json:"sub_category"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	DeliveryTime int      `json:"delivery_time" validate:"required,gt=0"`
	Revisions    int      `json:"revisions" validate:"gte=0"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
}

type updateGigRequest struct {
	Title        string   `json:"title" validate:"required,min=5"`
	Description  string   `json:"description" validate:"required,min=20"`
	Category     string   `json:"category" validate:"required"`
	SubCategory  string   `json:"sub_category"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	DeliveryTime int      `json:"delivery_time" validate:"required,gt=0"`
	Revisions    int      `json:"revisions" validate:"gte=0"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
}

func (h *GigHandler) CreateGig(c echo.Context) error {
	var req createGigRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	gig, err := h.gigUseCase.CreateGig(c.Request().Context(), sellerID, usecase.CreateGigInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		Revisions:    req.Revisions,
		Images:       req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, gig)
}

func (h *GigHandler) GetGig(c echo.Context) error {
	gig, err := h.gigUseCase.GetGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, gig)
}

func (h *GigHandler) ListGigs(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	gigs, total, err := h.gigUseCase.ListGigs(
		c.Request().Context(),
		c.QueryParam("category"),
		c.QueryParam("sort"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, gigs, total, pagination.Page, pagination.PageSize)
}

func (h *GigHandler) ListMyGigs(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	gigs, _, err := h.gigUseCase.ListSellerGigs(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, gigs)
}

func (h *GigHandler) UpdateGig(c echo.Context) error {
	var req updateGigRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	gig, err := h.gigUseCase.UpdateGig(c.Request().Context(), userID, c.Param("id"), usecase.UpdateGigInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		Revisions:    req.Revisions,
		Images:       req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, gig)
}

func (h *GigHandler) DeleteGig(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.gigUseCase.DeleteGig(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Gig deleted"})
}
