package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientBacklog  = 32
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served cross-origin to the web client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub fans events out to every connected websocket client. It implements
// Broadcaster; Emit never blocks the caller and slow clients are dropped.
type Hub struct {
	register   chan *client
	unregister chan *client
	events     chan frame
	logger     *slog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan frame, 256),
		logger:     logger,
	}
}

// Run owns the client set; it exits when ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})
	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case ev := <-h.events:
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("broadcast marshal failed", "event", ev.Event, "error", err)
				continue
			}
			for c := range clients {
				select {
				case c.send <- data:
				default:
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) Emit(event string, payload any) {
	select {
	case h.events <- frame{Event: event, Payload: payload}:
	default:
		h.logger.Warn("broadcast queue full, dropping event", "event", event)
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBacklog)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are processed;
// inbound payloads are ignored, the API is one-way.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
