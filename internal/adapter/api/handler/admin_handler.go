package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
	"gigmarket/pkg/utils"
)

type AdminHandler struct {
	userUseCase  *usecase.UserUseCase
	gigUseCase   *usecase.GigUseCase
	orderUseCase *usecase.OrderUseCase
}

func NewAdminHandler(
	userUseCase *usecase.UserUseCase,
	gigUseCase *usecase.GigUseCase,
	orderUseCase *usecase.OrderUseCase,
) *AdminHandler {
	return &AdminHandler{
		userUseCase:  userUseCase,
		gigUseCase:   gigUseCase,
		orderUseCase: orderUseCase,
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, pagination.Page, pagination.PageSize)
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=client freelancer admin"`
}

func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.userUseCase.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "User deleted"})
}

// DeleteGig is the moderation path: removes a gig regardless of owner.
func (h *AdminHandler) DeleteGig(c echo.Context) error {
	if err := h.gigUseCase.AdminDeleteGig(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Gig deleted"})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListAllOrders(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}
