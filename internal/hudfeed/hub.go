// Package hudfeed streams AI ship snapshots to websocket viewers.
package hudfeed

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jg18/fs2open.github.com/internal/ai"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16

	// MsgTypeSnapshot carries a []ai.HUDView payload.
	MsgTypeSnapshot = "snapshot"
)

// Message is the envelope sent to viewers.
type Message struct {
	Type string       `json:"type"`
	Tick uint64       `json:"tick"`
	Data []ai.HUDView `json:"data"`
}

// Source provides the latest published views. *ai.Manager satisfies it.
type Source interface {
	Snapshot() []ai.HUDView
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type client struct {
	id   int
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// Hub fans snapshots out to every connected viewer.
type Hub struct {
	src      Source
	interval time.Duration

	mu      sync.RWMutex
	clients map[int]*client
	nextID  int
	tick    uint64

	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub creates a hub publishing src every interval.
func NewHub(src Source, interval time.Duration) *Hub {
	return &Hub{
		src:        src,
		interval:   interval,
		clients:    make(map[int]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run publishes until ctx is canceled, then disconnects every viewer.
// A hub runs once.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			slog.Debug("hud viewer connected", "client", c.id, "remote", c.conn.RemoteAddr())
			// New viewers get the current state without waiting a full interval.
			h.sendTo(c, h.message())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			slog.Debug("hud viewer disconnected", "client", c.id)

		case <-ticker.C:
			h.tick++
			msg := h.message()
			h.mu.RLock()
			for _, c := range h.clients {
				h.sendTo(c, msg)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) message() Message {
	return Message{Type: MsgTypeSnapshot, Tick: h.tick, Data: h.src.Snapshot()}
}

// sendTo drops the message for a viewer whose buffer is full.
func (h *Hub) sendTo(c *client, msg Message) {
	select {
	case c.send <- msg:
	default:
		slog.Warn("hud viewer send buffer full, dropping snapshot", "client", c.id)
	}
}

// HandleWebSocket upgrades the request and attaches the viewer to the hub.
// Run must be running.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("hud websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.mu.Unlock()

	c := &client{id: id, hub: h, conn: conn, send: make(chan Message, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards viewer input and keeps the read deadline alive on pongs.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("hud websocket read error", "client", c.id, "error", err)
			}
			return
		}
	}
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
