package chat

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Star-Map/internal/logging"
)

const hubWriteWait = 5 * time.Second

// subscriberConn is the part of a websocket connection the hub writes to.
type subscriberConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type hubClient struct {
	conn subscriberConn
	mu   sync.Mutex // one writer at a time
}

func (c *hubClient) write(m Message, wait time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(m)
}

// Hub is a websocket endpoint that relays every message to all connected
// clients, the sender included.
type Hub struct {
	upgrader  websocket.Upgrader
	log       logging.Logger
	writeWait time.Duration

	mu      sync.Mutex
	clients map[subscriberConn]*hubClient
}

// NewHub creates an empty hub.
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:       logger.With(logging.String("component", "chat_hub")),
		writeWait: hubWriteWait,
		clients:   make(map[subscriberConn]*hubClient),
	}
}

// ServeHTTP upgrades the request and relays the connection's messages until
// it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("chat upgrade failed", logging.Err(err))
		return
	}
	h.add(conn)
	h.log.Debug("chat client joined", logging.String("remote", r.RemoteAddr))

	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("chat client read ended", logging.Err(err))
			}
			return
		}
		h.broadcast(m)
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn subscriberConn) {
	h.mu.Lock()
	h.clients[conn] = &hubClient{conn: conn}
	h.mu.Unlock()
}

func (h *Hub) remove(conn subscriberConn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// broadcast writes m to every client outside the hub lock. A client whose
// write fails or misses the deadline is dropped.
func (h *Hub) broadcast(m Message) {
	h.mu.Lock()
	targets := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(m, h.writeWait); err != nil {
			h.log.Warn("chat relay failed, dropping client", logging.Err(err))
			h.remove(c.conn)
			c.conn.Close()
		}
	}
}
