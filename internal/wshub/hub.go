package wshub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scorekeeper/internal/broadcast"
	"scorekeeper/internal/bus"
	"scorekeeper/internal/event"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type    string     `json:"t"`
	Event   *event.Raw `json:"ev,omitempty"`
	EventID int64      `json:"id,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type     string             `json:"t"`
	ClientID string             `json:"c,omitempty"`
	State    *broadcast.Payload `json:"s,omitempty"`
	Error    string             `json:"e,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 16),
	}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes client messages and passes them to handle until the
// connection fails or ctx ends. A handler error is sent back to this client
// only.
func (c *Client) ReadPump(ctx context.Context, h *Hub, handle func(context.Context, ClientMessage) error) error {
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.SendTo(c.ID, ServerMessage{Type: "error", Error: "malformed message"})
			continue
		}
		if err := handle(ctx, msg); err != nil {
			h.SendTo(c.ID, ServerMessage{Type: "error", Error: err.Error()})
		}
	}
}

// ErrUnknownMessage is returned by handlers for a message type they do not
// serve.
var ErrUnknownMessage = errors.New("unknown message type")

// Hub manages the WebSocket connections of one game.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.Logger
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     zap.L().Named("wshub"),
	}
}

// Register adds a client to the hub and greets it with its id.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.SendTo(c.ID, ServerMessage{Type: "welcome", ClientID: c.ID})
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastState sends c as a state message to every client. It has the
// shape of a broadcast.Broadcaster listener.
func (h *Hub) BroadcastState(c bus.StateChange) {
	p := broadcast.NewPayload(c)
	h.Broadcast(ServerMessage{Type: "state", State: &p})
}

// Broadcast sends a message to all clients. Non-blocking: drops if channel full.
func (h *Hub) Broadcast(msg ServerMessage) {
	data, ok := h.marshal(msg)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

func (h *Hub) SendTo(id string, msg ServerMessage) {
	data, ok := h.marshal(msg)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[id]; ok {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) marshal(msg ServerMessage) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal message", zap.String("type", msg.Type), zap.Error(err))
		return nil, false
	}
	return data, true
}
