package usecase

import (
	"context"
	"strings"
	"sync"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/infrastructure/ratelimit"
	ws "gigmarket/internal/infrastructure/websocket"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

// LiveHub is the live-delivery side of an order chat room: membership
// registration plus best-effort broadcast. The durable log stays the
// single source of truth; nothing delivered through the hub survives a
// disconnect.
type LiveHub interface {
	Join(orderID, userID string)
	Leave(orderID, userID string)
	Broadcast(orderID string, payload []byte)
}

// ChatUseCase is the channel manager for order chat. Each order has at
// most one channel, created lazily on first join or send. Membership is
// re-derived from the order document on every operation rather than
// cached, so authorization always reflects the current order state.
type ChatUseCase struct {
	orderRepo   repository.OrderRepository
	messageRepo repository.MessageRepository
	hub         LiveHub
	rateLimiter *ratelimit.RateLimiter

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewChatUseCase(
	orderRepo repository.OrderRepository,
	messageRepo repository.MessageRepository,
	hub LiveHub,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		orderRepo:   orderRepo,
		messageRepo: messageRepo,
		hub:         hub,
		rateLimiter: rateLimiter,
		roomLocks:   make(map[string]*sync.Mutex),
	}
}

// authorize resolves the order and checks the identity against its
// buyer and seller. The rejection carries no channel or message data.
func (uc *ChatUseCase) authorize(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(userID) {
		logger.Warn("Chat access denied: user %s is not a participant of order %s", userID, orderID)
		return nil, errors.Forbidden("You are not authorized for this chat", nil)
	}

	return order, nil
}

// roomLock returns the mutex serializing append+broadcast for one room.
// Sends for different rooms proceed concurrently; within a room no send
// may broadcast before an earlier send has been durably appended.
func (uc *ChatUseCase) roomLock(orderID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lock, ok := uc.roomLocks[orderID]
	if !ok {
		lock = &sync.Mutex{}
		uc.roomLocks[orderID] = lock
	}
	return lock
}

// Join admits an identity to the order's live room. Idempotent; joining
// generates no message and delivers nothing by itself.
func (uc *ChatUseCase) Join(ctx context.Context, orderID, userID string) error {
	if _, err := uc.authorize(ctx, orderID, userID); err != nil {
		return err
	}

	uc.hub.Join(orderID, userID)
	return nil
}

// Leave drops the identity from the live room. History is unaffected
// and the room is immediately re-joinable.
func (uc *ChatUseCase) Leave(orderID, userID string) {
	uc.hub.Leave(orderID, userID)
}

// Send persists a message to the durable log and then broadcasts the
// persisted object to every live member of the room, the sender
// included. Authorization is re-checked on every send, not just at
// join, so a stale session cannot outlive a reassigned order.
func (uc *ChatUseCase) Send(ctx context.Context, orderID, senderID, content string) (*entity.Message, error) {
	// Content is checked before the limiter so a blank send never
	// burns a token; authorization stays behind the limiter since it
	// costs a store read.
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.EmptyContent("Message content cannot be empty")
	}

	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		logger.Warn("Send rate limited: user %s must wait %v", senderID, wait)
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	if _, err := uc.authorize(ctx, orderID, senderID); err != nil {
		return nil, err
	}

	lock := uc.roomLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	message := &entity.Message{
		OrderID:  orderID,
		SenderID: senderID,
		Content:  content,
	}

	// The append is the durability boundary: if it fails nothing is
	// broadcast, and once it succeeds the message is visible via
	// history even if every broadcast below is lost.
	if err := uc.messageRepo.Append(ctx, message); err != nil {
		return nil, err
	}

	payload, err := ws.NewMessageEvent(message)
	if err != nil {
		logger.Error("Failed to encode broadcast for order %s: %v", orderID, err)
		return message, nil
	}
	uc.hub.Broadcast(orderID, payload)

	return message, nil
}

// History replays the channel's full message sequence from the durable
// log, timestamp ascending. It does not require live-room membership:
// a participant who was offline reads the same sequence as one who was
// connected throughout.
func (uc *ChatUseCase) History(ctx context.Context, orderID, userID string) ([]*entity.Message, error) {
	if _, err := uc.authorize(ctx, orderID, userID); err != nil {
		return nil, err
	}

	return uc.messageRepo.ListByOrder(ctx, orderID)
}
