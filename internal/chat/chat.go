// Package chat carries player chat messages over a websocket.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Star-Map/internal/logging"
)

// Message is the wire form of one chat line.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Line formats m for display.
func (m Message) Line() string {
	if m.Sender == "" {
		return m.Text
	}
	return m.Sender + ": " + m.Text
}

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("chat: connection closed")

// Config configures a Client.
type Config struct {
	URL          string
	Sender       string
	Buffer       int           // incoming messages held before dropping
	WriteTimeout time.Duration // per message
	Logger       logging.Logger
}

func (c *Config) normalise() {
	if c.Buffer <= 0 {
		c.Buffer = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = logging.Noop()
	}
}

// Client is a websocket chat connection. Send and Close may be called from
// any goroutine; Incoming is fed by a reader goroutine and never blocks it.
type Client struct {
	conn     *websocket.Conn
	cfg      Config
	log      logging.Logger
	incoming chan string

	writeMu   sync.Mutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to a chat hub.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	cfg.normalise()
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial chat %s: %w", cfg.URL, err)
	}
	c := &Client{
		conn:     conn,
		cfg:      cfg,
		log:      cfg.Logger.With(logging.String("component", "chat")),
		incoming: make(chan string, cfg.Buffer),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.incoming)
	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !c.isClosed() {
				c.log.Warn("chat read failed", logging.Err(err))
			}
			return
		}
		select {
		case c.incoming <- m.Line():
		default:
			c.log.Warn("chat buffer full, message dropped")
		}
	}
}

// Send writes one message as this client's sender.
func (c *Client) Send(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("chat send: %w", err)
	}
	if err := c.conn.WriteJSON(Message{Sender: c.cfg.Sender, Text: text}); err != nil {
		return fmt.Errorf("chat send: %w", err)
	}
	return nil
}

// Incoming delivers formatted lines. It is closed when the connection ends.
func (c *Client) Incoming() <-chan string { return c.incoming }

func (c *Client) isClosed() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.closed
}

// Close sends a close frame and waits for the reader to finish.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.closed = true
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteTimeout))
		c.writeMu.Unlock()
		err = c.conn.Close()
		<-c.done
	})
	return err
}

// Loopback is an in-process transport that echoes every sent message back
// as incoming. Used when no chat server is configured.
type Loopback struct {
	Sender   string
	incoming chan string
}

// NewLoopback creates a loopback holding up to buffer unread messages.
func NewLoopback(sender string, buffer int) *Loopback {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loopback{Sender: sender, incoming: make(chan string, buffer)}
}

func (l *Loopback) Send(text string) error {
	select {
	case l.incoming <- Message{Sender: l.Sender, Text: text}.Line():
		return nil
	default:
		return errors.New("chat: loopback buffer full")
	}
}

func (l *Loopback) Incoming() <-chan string { return l.incoming }
