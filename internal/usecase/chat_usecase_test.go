package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/errors"
)

type memOrderRepo struct {
	orders map[string]*entity.Order
}

func newMemOrderRepo(orders ...*entity.Order) *memOrderRepo {
	repo := &memOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *memOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	return order, nil
}

func (r *memOrderRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if o.IsParticipant(userID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.orders[order.ID] = order
	return nil
}

type memMessageRepo struct {
	messages map[string][]*entity.Message
	seq      int
	failing  bool
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[string][]*entity.Message)}
}

func (r *memMessageRepo) Append(ctx context.Context, message *entity.Message) error {
	if r.failing {
		return errors.StoreUnavailable("Failed to store message", nil)
	}
	r.seq++
	message.ID = fmt.Sprintf("msg-%03d", r.seq)
	message.Timestamp = time.Now().UTC()
	r.messages[message.OrderID] = append(r.messages[message.OrderID], message)
	return nil
}

func (r *memMessageRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Message, error) {
	return r.messages[orderID], nil
}

// recordingHub captures hub calls; at broadcast time it also snapshots
// how many messages were already durable, so tests can assert that
// persistence happens before delivery.
type recordingHub struct {
	store           *memMessageRepo
	joins           []string
	leaves          []string
	broadcasts      [][]byte
	durableAtNotify []int
}

func (h *recordingHub) Join(orderID, userID string) {
	h.joins = append(h.joins, orderID+":"+userID)
}

func (h *recordingHub) Leave(orderID, userID string) {
	h.leaves = append(h.leaves, orderID+":"+userID)
}

func (h *recordingHub) Broadcast(orderID string, payload []byte) {
	h.broadcasts = append(h.broadcasts, payload)
	h.durableAtNotify = append(h.durableAtNotify, len(h.store.messages[orderID]))
}

func newChatFixture(t *testing.T, orders ...*entity.Order) (*ChatUseCase, *memMessageRepo, *recordingHub) {
	t.Helper()

	messageRepo := newMemMessageRepo()
	hub := &recordingHub{store: messageRepo}
	uc := NewChatUseCase(newMemOrderRepo(orders...), messageRepo, hub)
	return uc, messageRepo, hub
}

func testOrder() *entity.Order {
	return &entity.Order{
		ID:       "ord1",
		GigID:    "gig1",
		BuyerID:  "b1",
		SellerID: "s1",
		Status:   entity.OrderStatusInProgress,
	}
}

func TestJoinAdmitsBothParticipants(t *testing.T) {
	uc, _, hub := newChatFixture(t, testOrder())

	require.NoError(t, uc.Join(context.Background(), "ord1", "b1"))
	require.NoError(t, uc.Join(context.Background(), "ord1", "s1"))

	assert.Equal(t, []string{"ord1:b1", "ord1:s1"}, hub.joins)
}

func TestJoinRejectsNonParticipant(t *testing.T) {
	uc, _, hub := newChatFixture(t, testOrder())

	err := uc.Join(context.Background(), "ord1", "intruder")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Empty(t, hub.joins)
}

func TestJoinUnknownOrder(t *testing.T) {
	uc, _, _ := newChatFixture(t, testOrder())

	err := uc.Join(context.Background(), "missing", "b1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	uc, messageRepo, hub := newChatFixture(t, testOrder())

	message, err := uc.Send(context.Background(), "ord1", "b1", "hello")

	require.NoError(t, err)
	assert.NotEmpty(t, message.ID)
	assert.False(t, message.Timestamp.IsZero())

	require.Len(t, hub.broadcasts, 1)
	// The message was already durable when the broadcast fired.
	assert.Equal(t, 1, hub.durableAtNotify[0])

	var event struct {
		Type    string          `json:"type"`
		OrderID string          `json:"order_id"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(hub.broadcasts[0], &event))
	assert.Equal(t, "receive_message", event.Type)
	assert.Equal(t, "ord1", event.OrderID)

	var broadcast entity.Message
	require.NoError(t, json.Unmarshal(event.Data, &broadcast))
	assert.Equal(t, message.ID, broadcast.ID)
	assert.Equal(t, "hello", broadcast.Content)
	assert.Equal(t, "b1", broadcast.SenderID)

	history, err := messageRepo.ListByOrder(context.Background(), "ord1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, message.ID, history[0].ID)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	uc, messageRepo, hub := newChatFixture(t, testOrder())

	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := uc.Send(context.Background(), "ord1", "b1", content)
		require.Error(t, err)
		assert.True(t, errors.Is(err, "EMPTY_CONTENT"))
	}

	// Nothing was persisted or delivered.
	assert.Empty(t, messageRepo.messages["ord1"])
	assert.Empty(t, hub.broadcasts)
}

// Blank sends are rejected before the rate limiter, so they never
// consume the sender's budget or mask the real rejection code.
func TestSendEmptyContentDoesNotConsumeRateBudget(t *testing.T) {
	uc, messageRepo, _ := newChatFixture(t, testOrder())

	for i := 0; i < 30; i++ {
		_, err := uc.Send(context.Background(), "ord1", "b1", "   ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, "EMPTY_CONTENT"))
	}

	message, err := uc.Send(context.Background(), "ord1", "b1", "still within budget")
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID)
	assert.Len(t, messageRepo.messages["ord1"], 1)
}

func TestSendRejectsNonParticipant(t *testing.T) {
	uc, messageRepo, hub := newChatFixture(t, testOrder())

	_, err := uc.Send(context.Background(), "ord1", "intruder", "let me in")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Empty(t, messageRepo.messages["ord1"])
	assert.Empty(t, hub.broadcasts)
}

func TestSendStoreFailureIsNotBroadcast(t *testing.T) {
	uc, messageRepo, hub := newChatFixture(t, testOrder())
	messageRepo.failing = true

	_, err := uc.Send(context.Background(), "ord1", "b1", "hello")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "STORE_UNAVAILABLE"))
	assert.Empty(t, hub.broadcasts)
}

func TestHistoryPreservesSendOrder(t *testing.T) {
	uc, _, _ := newChatFixture(t, testOrder())

	m1, err := uc.Send(context.Background(), "ord1", "b1", "first")
	require.NoError(t, err)
	m2, err := uc.Send(context.Background(), "ord1", "s1", "second")
	require.NoError(t, err)

	history, err := uc.History(context.Background(), "ord1", "b1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, m1.ID, history[0].ID)
	assert.Equal(t, m2.ID, history[1].ID)
}

func TestHistoryRejectsNonParticipant(t *testing.T) {
	uc, _, _ := newChatFixture(t, testOrder())

	_, err := uc.Send(context.Background(), "ord1", "b1", "private")
	require.NoError(t, err)

	_, err = uc.History(context.Background(), "ord1", "intruder")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

// A participant who was never live in the room still reads the full
// sequence: durability does not depend on delivery.
func TestHistoryAfterOfflineSend(t *testing.T) {
	uc, _, hub := newChatFixture(t, testOrder())

	_, err := uc.Send(context.Background(), "ord1", "b1", "sent while seller offline")
	require.NoError(t, err)

	require.Len(t, hub.broadcasts, 1)

	history, err := uc.History(context.Background(), "ord1", "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "sent while seller offline", history[0].Content)
}

func TestLeaveKeepsHistory(t *testing.T) {
	uc, _, hub := newChatFixture(t, testOrder())

	require.NoError(t, uc.Join(context.Background(), "ord1", "b1"))
	_, err := uc.Send(context.Background(), "ord1", "b1", "before leaving")
	require.NoError(t, err)

	uc.Leave("ord1", "b1")
	assert.Equal(t, []string{"ord1:b1"}, hub.leaves)

	// Rejoin and replay.
	require.NoError(t, uc.Join(context.Background(), "ord1", "b1"))
	history, err := uc.History(context.Background(), "ord1", "b1")
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestOrderChatScenario(t *testing.T) {
	uc, _, hub := newChatFixture(t, testOrder())
	ctx := context.Background()

	require.NoError(t, uc.Join(ctx, "ord1", "b1"))
	require.NoError(t, uc.Join(ctx, "ord1", "s1"))

	_, err := uc.Send(ctx, "ord1", "b1", "When can you deliver?")
	require.NoError(t, err)
	_, err = uc.Send(ctx, "ord1", "s1", "By Friday.")
	require.NoError(t, err)

	require.Error(t, uc.Join(ctx, "ord1", "intruder"))
	_, err = uc.Send(ctx, "ord1", "intruder", "hi")
	require.Error(t, err)

	buyerView, err := uc.History(ctx, "ord1", "b1")
	require.NoError(t, err)
	sellerView, err := uc.History(ctx, "ord1", "s1")
	require.NoError(t, err)

	require.Len(t, buyerView, 2)
	assert.Equal(t, buyerView, sellerView)
	assert.Equal(t, "When can you deliver?", buyerView[0].Content)
	assert.Equal(t, "By Friday.", buyerView[1].Content)

	// Two legitimate sends, two broadcasts.
	assert.Len(t, hub.broadcasts, 2)
}
