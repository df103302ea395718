package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/adapter/api"
	"gigmarket/internal/domain/entity"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
)

type stubOrderRepo struct {
	order *entity.Order
}

func (r *stubOrderRepo) Create(ctx context.Context, order *entity.Order) error { return nil }

func (r *stubOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if r.order == nil || r.order.ID != id {
		return nil, errors.NotFound("Order", nil)
	}
	return r.order, nil
}

func (r *stubOrderRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error) {
	return nil, 0, nil
}

func (r *stubOrderRepo) Update(ctx context.Context, order *entity.Order) error { return nil }

type stubMessageRepo struct {
	messages []*entity.Message
}

func (r *stubMessageRepo) Append(ctx context.Context, message *entity.Message) error {
	message.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	message.Timestamp = time.Now().UTC()
	r.messages = append(r.messages, message)
	return nil
}

func (r *stubMessageRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Message, error) {
	return r.messages, nil
}

type noopHub struct{}

func (noopHub) Join(orderID, userID string)           {}
func (noopHub) Leave(orderID, userID string)          {}
func (noopHub) Broadcast(orderID string, payload []byte) {}

func chatTestContext(t *testing.T, method, body, uid string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = api.NewValidator()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("ord1")
	c.Set("uid", uid)
	return c, rec
}

func newChatHandler() *ChatHandler {
	orderRepo := &stubOrderRepo{order: &entity.Order{
		ID:       "ord1",
		BuyerID:  "b1",
		SellerID: "s1",
		Status:   entity.OrderStatusInProgress,
	}}
	return NewChatHandler(usecase.NewChatUseCase(orderRepo, &stubMessageRepo{}, noopHub{}))
}

func TestSendMessageEndpoint(t *testing.T) {
	h := newChatHandler()
	c, rec := chatTestContext(t, http.MethodPost, `{"content":"hello there"}`, "b1")

	require.NoError(t, h.SendMessage(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello there")
	assert.Contains(t, rec.Body.String(), "message_id")
}

func TestSendMessageEndpointRejectsOutsider(t *testing.T) {
	h := newChatHandler()
	c, rec := chatTestContext(t, http.MethodPost, `{"content":"hello"}`, "intruder")

	require.NoError(t, h.SendMessage(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestSendMessageEndpointRejectsWhitespaceContent(t *testing.T) {
	h := newChatHandler()
	c, rec := chatTestContext(t, http.MethodPost, `{"content":"   "}`, "b1")

	require.NoError(t, h.SendMessage(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CONTENT")
}

func TestGetMessagesEndpoint(t *testing.T) {
	h := newChatHandler()

	sendCtx, sendRec := chatTestContext(t, http.MethodPost, `{"content":"first"}`, "b1")
	require.NoError(t, h.SendMessage(sendCtx))
	require.Equal(t, http.StatusCreated, sendRec.Code)

	c, rec := chatTestContext(t, http.MethodGet, "", "s1")
	require.NoError(t, h.GetMessages(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "first")
}

func TestGetMessagesEndpointRejectsOutsider(t *testing.T) {
	h := newChatHandler()
	c, rec := chatTestContext(t, http.MethodGet, "", "intruder")

	require.NoError(t, h.GetMessages(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetMessagesEndpointUnknownOrder(t *testing.T) {
	h := NewChatHandler(usecase.NewChatUseCase(&stubOrderRepo{}, &stubMessageRepo{}, noopHub{}))
	c, rec := chatTestContext(t, http.MethodGet, "", "b1")

	require.NoError(t, h.GetMessages(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
