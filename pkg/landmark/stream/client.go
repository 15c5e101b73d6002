// Package stream pushes landmark frames from a webcam process to the
// mannequin server over a websocket.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-mannequin/internal/log"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/protocol"
)

// ErrNotConnected is returned when sending on a closed client.
var ErrNotConnected = errors.New("stream not connected")

// Config holds stream client settings.
type Config struct {
	URL              string        // ws://host:port/ws/landmarks
	HandshakeTimeout time.Duration // Dial timeout
	WriteTimeout     time.Duration // Per-message write deadline
}

// DefaultConfig targets a local server.
func DefaultConfig() Config {
	return Config{
		URL:              "ws://localhost:8181/ws/landmarks",
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// Client sends landmark frames and receives emotion classifications.
type Client struct {
	cfg  Config
	ws   *websocket.Conn
	wsMu sync.Mutex

	// OnEmotion is called for every classification the server sends back
	OnEmotion func(protocol.EmotionData)

	done chan struct{}
}

// Dial connects to the server.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	ws, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}
	c := &Client{cfg: cfg, ws: ws, done: make(chan struct{})}
	go c.readLoop(ws)
	return c, nil
}

// Send pushes one landmark frame.
func (c *Client) Send(f landmark.Frame) error {
	msg, err := protocol.NewLandmarksMessage(f)
	if err != nil {
		return err
	}
	return c.write(msg)
}

// SendJPEG pushes an encoded frame for server-side detection.
func (c *Client) SendJPEG(width, height int, jpeg []byte, frameID uint64) error {
	msg, err := protocol.NewFrameMessage(width, height, jpeg, frameID)
	if err != nil {
		return err
	}
	return c.write(msg)
}

func (c *Client) write(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws == nil {
		return ErrNotConnected
	}
	c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) readLoop(ws *websocket.Conn) {
	defer close(c.done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Debug("landmark stream closed", "error", err)
			}
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("bad message from server", "error", err)
			continue
		}
		switch msg.Type {
		case protocol.TypeEmotion:
			e, err := msg.GetEmotionData()
			if err == nil && c.OnEmotion != nil {
				c.OnEmotion(*e)
			}
		case protocol.TypeError:
			var e protocol.ErrorData
			if msg.ParseData(&e) == nil {
				log.Warn("server rejected frame", "message", e.Message)
			}
		}
	}
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close sends a close frame and shuts the connection.
func (c *Client) Close() error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws == nil {
		return nil
	}
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := c.ws.Close()
	c.ws = nil
	return err
}
