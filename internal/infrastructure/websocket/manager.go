package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"gigmarket/pkg/logger"
)

// Client represents one authenticated WebSocket session. A session
// moves from connecting (upgrade + token check, done by the handler)
// to joined once the chat layer admits it to an order room, and back
// to disconnected when the transport drops.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager owns the live-delivery state: which user is connected, and
// which users are registered in which order room. Room membership is
// the broadcast set only; durable history is never kept here.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client         // userID -> active session
	rooms   map[string]map[string]bool // orderID -> set of joined userIDs

	Register   chan *Client
	Unregister chan *Client

	chatService ChatService
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's registration loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mu.Lock()
				old, replaced := m.clients[client.UserID]
				m.clients[client.UserID] = client
				m.mu.Unlock()

				// The replaced session's Send channel stays open until
				// its own ReadPump unregisters; closing it here would
				// race with frames the old connection is still reading.
				if replaced && old != client && old.Conn != nil {
					old.Conn.Close()
				}
				logger.Info("Client connected: %s", client.UserID)

			case client := <-m.Unregister:
				m.mu.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					for orderID, members := range m.rooms {
						delete(members, client.UserID)
						if len(members) == 0 {
							delete(m.rooms, orderID)
						}
					}
				}
				// The pumps for this session are done; no sender can
				// reach the channel anymore (Broadcast and SendToUser
				// only see the clients map, under this lock).
				close(client.Send)
				m.mu.Unlock()
				logger.Info("Client disconnected: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Join registers a user in an order room. Idempotent: repeated joins
// keep exactly one live registration, so a member never receives a
// broadcast twice.
func (m *Manager) Join(orderID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.rooms[orderID]
	if !ok {
		members = make(map[string]bool)
		m.rooms[orderID] = members
	}
	members[userID] = true
}

// Leave drops a user from a room's delivery set. The room itself is
// re-joinable immediately and durable history is unaffected.
func (m *Manager) Leave(orderID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.rooms[orderID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, orderID)
		}
	}
}

// IsMember reports whether a user is currently joined to a room.
func (m *Manager) IsMember(orderID, userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.rooms[orderID][userID]
}

// Broadcast pushes a payload to every user joined to the room,
// including the sender. Delivery is best effort: an unreachable member
// is logged and skipped, never treated as a send failure (it catches
// up from history on reconnect).
func (m *Manager) Broadcast(orderID string, payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for userID := range m.rooms[orderID] {
		client, ok := m.clients[userID]
		if !ok {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			logger.Warn("Broadcast to %s in room %s dropped: send buffer full", userID, orderID)
		}
	}
}

// SendToUser pushes a payload to a single connected user.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()

	if !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
		logger.Warn("Send to %s dropped: send buffer full", userID)
	}
}

// ReadPump reads frames from the connection and dispatches them until
// the transport fails or the client goes away.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, payload)
	}
}

// WritePump drains the client's send channel onto the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Error("Write error for %s: %v", c.UserID, err)
			return
		}
	}
}
