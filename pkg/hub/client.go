package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // a full landmark frame or a JPEG
	sendBuffer     = 256
)

// Conn is the part of a websocket connection a client needs.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Handler receives the messages a client sends.
type Handler func(c *Client, data []byte)

// Client is one websocket connection attached to a hub.
type Client struct {
	hub     *Hub
	conn    Conn
	send    chan Message // closed by the hub
	handler Handler
}

// NewClient registers conn with h. Inbound messages go to handler, which
// may be nil for output-only feeds. The hub queues its retained states for
// the client before NewClient returns.
func NewClient(h *Hub, conn Conn, handler Handler) *Client {
	c := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan Message, sendBuffer),
		handler: handler,
	}
	h.register <- c
	return c
}

// Reply queues a message for this client only. It reports false when the
// buffer is full or the hub has already let go of the client.
func (c *Client) Reply(msg Message) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Run pumps messages in both directions and returns when the connection
// closes.
func (c *Client) Run() {
	go c.write()
	c.read()
}

func (c *Client) read() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if c.handler != nil {
			c.handler(c, data)
		}
	}
}

// write is the only goroutine writing to the connection.
func (c *Client) write() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame := websocket.TextMessage
			if msg.Kind == Binary {
				frame = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(frame, msg.Data); err != nil {
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
