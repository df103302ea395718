package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendMessage sends a message into an order's chat over HTTP. The
// persisted message is returned; live members receive it via broadcast.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	orderID := c.Param("id")

	message, err := h.chatUseCase.Send(c.Request().Context(), orderID, userID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetMessages replays the order chat's full history, oldest first.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	orderID := c.Param("id")

	messages, err := h.chatUseCase.History(c.Request().Context(), orderID, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
