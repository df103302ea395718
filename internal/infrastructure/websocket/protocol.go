package websocket

import (
	"context"
	"encoding/json"
	"time"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

// Wire event types.
const (
	EventPing           = "ping"
	EventPong           = "pong"
	EventJoinChat       = "join_chat"
	EventLeaveChat      = "leave_chat"
	EventSendMessage    = "send_message"
	EventJoined         = "joined"
	EventReceiveMessage = "receive_message"
	EventError          = "error"
)

// Event is the JSON envelope for every frame on the chat socket.
type Event struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type sendMessageData struct {
	Content string `json:"content"`
}

type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChatService is the slice of the chat use case the socket layer needs.
type ChatService interface {
	Join(ctx context.Context, orderID, userID string) error
	Send(ctx context.Context, orderID, senderID, content string) (*entity.Message, error)
}

// SetChatService wires the chat use case in after construction; the use
// case itself broadcasts through the manager, so the two reference each
// other.
func (m *Manager) SetChatService(svc ChatService) {
	m.chatService = svc
}

// NewMessageEvent wraps a persisted message in a receive_message
// envelope. The broadcast carries the exact object that was stored,
// store-assigned id and timestamp included, so clients can deduplicate
// their own optimistic echo by message id.
func NewMessageEvent(message *entity.Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:      EventReceiveMessage,
		OrderID:   message.OrderID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleClientMessage dispatches one inbound frame.
func (m *Manager) HandleClientMessage(client *Client, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("Invalid frame from %s: %v", client.UserID, err)
		m.sendError(client, errors.BadRequest("Invalid message format", err))
		return
	}

	switch event.Type {
	case EventPing:
		m.sendEvent(client, Event{Type: EventPong})

	case EventJoinChat:
		m.handleJoinChat(client, event)

	case EventLeaveChat:
		m.handleLeaveChat(client, event)

	case EventSendMessage:
		m.handleSendMessage(client, event)

	default:
		logger.Warn("Unknown event type %q from %s", event.Type, client.UserID)
		m.sendError(client, errors.BadRequest("Unknown event type", nil))
	}
}

func (m *Manager) handleJoinChat(client *Client, event Event) {
	if event.OrderID == "" {
		m.sendError(client, errors.BadRequest("Missing order_id", nil))
		return
	}

	if err := m.chatService.Join(context.Background(), event.OrderID, client.UserID); err != nil {
		m.sendError(client, err)
		return
	}

	m.sendEvent(client, Event{Type: EventJoined, OrderID: event.OrderID})
}

func (m *Manager) handleLeaveChat(client *Client, event Event) {
	if event.OrderID == "" {
		m.sendError(client, errors.BadRequest("Missing order_id", nil))
		return
	}

	m.Leave(event.OrderID, client.UserID)
}

func (m *Manager) handleSendMessage(client *Client, event Event) {
	if event.OrderID == "" {
		m.sendError(client, errors.BadRequest("Missing order_id", nil))
		return
	}

	var data sendMessageData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			m.sendError(client, errors.BadRequest("Invalid send_message data", err))
			return
		}
	}

	// Send validates authorization and content, persists, then
	// broadcasts to the whole room, the sender included, so no ack
	// is needed here on success.
	if _, err := m.chatService.Send(context.Background(), event.OrderID, client.UserID, data.Content); err != nil {
		m.sendError(client, err)
	}
}

func (m *Manager) sendEvent(client *Client, event Event) {
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event for %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		logger.Warn("Event to %s dropped: send buffer full", client.UserID)
	}
}

func (m *Manager) sendError(client *Client, err error) {
	code := "INTERNAL_ERROR"
	message := "An unexpected error occurred"
	if appErr, ok := err.(*errors.AppError); ok {
		code = appErr.Code
		message = appErr.Message
	}

	data, _ := json.Marshal(errorData{Code: code, Message: message})
	m.sendEvent(client, Event{Type: EventError, Data: data})
}
