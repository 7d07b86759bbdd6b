package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"coursedesk/modules/platform/eventbus"
	"coursedesk/modules/platform/routebus"
	"coursedesk/modules/ui/core"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
	historyDefault = 50
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The wide shell is served to local browsers only
		return true
	},
}

// ClientMessage is a command sent by the browser
type ClientMessage struct {
	Type   string          `json:"type"`
	Target string          `json:"target,omitempty"`
	Params routebus.Params `json:"params,omitempty"`
	Value  string          `json:"value,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// ServerMessage is everything the server pushes to the browser
type ServerMessage struct {
	Type         string             `json:"type"`
	Frame        *core.FrameVM      `json:"frame,omitempty"`
	Notification *core.Notification `json:"notification,omitempty"`
	Events       []*eventbus.Event  `json:"events,omitempty"`
	Message      string             `json:"message,omitempty"`
	Timestamp    int64              `json:"timestamp,omitempty"`
}

// clientEvents maps protocol message types to presenter events
var clientEvents = map[string]core.EventType{
	"go_to_tab":   core.EventSelectTab,
	"go_to_route": core.EventOpen,
	"go_back":     core.EventBack,
	"clear_route": core.EventClearRoute,
	"follow_link": core.EventFollowLink,
	"set_title":   core.EventSetTitle,
	"sign_in":     core.EventSignIn,
	"sign_out":    core.EventSignOut,
	"switch_role": core.EventSwitchRole,
	"refresh":     core.EventRefresh,
}

// WSClient represents a WebSocket client
type WSClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub
}

// WSHub manages all WebSocket connections and relays bus events to them
type WSHub struct {
	clients    map[string]*WSClient
	unregister chan *WSClient
	done       chan struct{}
	mu         sync.RWMutex

	presenter core.Presenter
	bus       *eventbus.Bus
	ping      time.Duration
	logger    *zap.Logger
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(presenter core.Presenter, bus *eventbus.Bus, ping time.Duration, logger *zap.Logger) *WSHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ping <= 0 {
		ping = 30 * time.Second
	}
	return &WSHub{
		clients:    make(map[string]*WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
		presenter:  presenter,
		bus:        bus,
		ping:       ping,
		logger:     logger,
	}
}

// Run relays bus events until ctx is done, then disconnects every client
func (h *WSHub) Run(ctx context.Context) {
	unsub := h.bus.Subscribe(nil, func(event *eventbus.Event) {
		data, err := json.Marshal(messageFor(event))
		if err != nil {
			h.logger.Warn("encode event", zap.Error(err))
			return
		}
		h.broadcast(data)
	})
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				h.logger.Info("websocket client disconnected", zap.String("client", client.id))
			}
			h.mu.Unlock()
		}
	}
}

// messageFor turns a bus event into the wire message
func messageFor(event *eventbus.Event) ServerMessage {
	msg := ServerMessage{Type: string(event.Type), Timestamp: event.Timestamp.UnixMilli()}
	switch event.Type {
	case eventbus.EventFrame:
		msg.Frame, _ = event.Data["frame"].(*core.FrameVM)
	case eventbus.EventNotification:
		msg.Notification, _ = event.Data["notification"].(*core.Notification)
	}
	return msg
}

// broadcast sends data to all connected clients; slow clients miss it
func (h *WSHub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client buffer full, dropping message", zap.String("client", client.id))
		}
	}
}

// add registers client unless the hub has shut down
func (h *WSHub) add(client *WSClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.clients[client.id] = client
	return true
}

// ClientCount returns the number of connected clients
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS handles WebSocket connections
func (h *WSHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &WSClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}

	if !h.add(client) {
		conn.Close()
		return
	}
	h.logger.Info("websocket client connected", zap.String("client", client.id))

	// Registered first so no frame published from here on is missed
	if vm, err := h.presenter.GetViewModel(core.VMFrame); err == nil {
		if frame, ok := vm.(*core.FrameVM); ok {
			client.reply(ServerMessage{Type: string(eventbus.EventFrame), Frame: frame})
		}
	}

	go client.writePump()
	go client.readPump()
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *WSClient) writePump() {
	ticker := time.NewTicker(c.hub.ping)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the presenter
func (c *WSClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

// handleMessage handles a command from the browser
func (c *WSClient) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.reply(ServerMessage{Type: "error", Message: "malformed message"})
		return
	}

	switch msg.Type {
	case "ping":
		c.reply(ServerMessage{Type: "pong", Timestamp: time.Now().UnixMilli()})
		return

	case "get_history":
		limit := msg.Limit
		if limit <= 0 {
			limit = historyDefault
		}
		c.reply(ServerMessage{Type: "history", Events: c.hub.bus.GetHistory(limit)})
		return
	}

	eventType, ok := clientEvents[msg.Type]
	if !ok {
		c.reply(ServerMessage{Type: "error", Message: "unknown message type: " + msg.Type})
		return
	}

	event := core.NewEvent(eventType).
		WithTarget(msg.Target).
		WithParams(msg.Params).
		WithValue(msg.Value)
	if err := c.hub.presenter.HandleEvent(event); err != nil {
		c.reply(ServerMessage{Type: "error", Message: err.Error()})
	}
}

// reply queues a message for this client only
func (c *WSClient) reply(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	// send is closed once the client leaves the hub
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
