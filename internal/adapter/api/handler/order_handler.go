package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type createOrderRequest struct {
	GigID string  `json:"gig_id" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress delivered completed cancelled"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	order, err := h.orderUseCase.CreateOrder(c.Request().Context(), buyerID, usecase.CreateOrderInput{
		GigID: req.GigID,
		Price: req.Price,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID := c.Get("uid").(string)

	orders, err := h.orderUseCase.GetUserOrders(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.UpdateStatus(c.Request().Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
