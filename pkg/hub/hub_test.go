package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

type fakeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 8),
		out:    make(chan []byte, 8),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.in:
		return websocket.TextMessage, data, nil
	case <-f.closed:
		return 0, nil, errors.New("closed")
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
		return nil
	}
	select {
	case f.out <- data:
		return nil
	case <-f.closed:
		return errors.New("closed")
	}
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) Close() error                      { f.once.Do(func() { close(f.closed) }); return nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func recv(t *testing.T, conn *fakeConn) string {
	t.Helper()
	select {
	case got := <-conn.out:
		return string(got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return ""
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := New("test")
	go h.Run(ctx)
	return h
}

func connect(h *Hub, handler Handler) *fakeConn {
	conn := newFakeConn()
	go NewClient(h, conn, handler).Run()
	return conn
}

func TestHubBroadcast(t *testing.T) {
	h := startHub(t)
	conn := connect(h, nil)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(NewText([]byte(`{"hello":"world"}`)))
	if got := recv(t, conn); got != `{"hello":"world"}` {
		t.Errorf("got %s", got)
	}

	conn.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestClientHandlerAndReply(t *testing.T) {
	h := startHub(t)
	conn := connect(h, func(c *Client, data []byte) {
		c.Reply(NewText(append([]byte("echo:"), data...)))
	})

	conn.in <- []byte("ping")
	if got := recv(t, conn); got != "echo:ping" {
		t.Errorf("got %s", got)
	}
	conn.Close()
}

func TestRetainedStates(t *testing.T) {
	h := startHub(t)
	first := connect(h, nil)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(NewState("a", []byte("a1")))
	h.Broadcast(NewState("b", []byte("b1")))
	h.Broadcast(NewState("a", []byte("a2")))
	h.Broadcast(NewForget("b", []byte("b gone")))
	h.Broadcast(NewText([]byte("note")))

	for _, want := range []string{"a1", "b1", "a2", "b gone", "note"} {
		if got := recv(t, first); got != want {
			t.Fatalf("first client got %q, want %q", got, want)
		}
	}
	if got := h.Stats().Retained; got != 1 {
		t.Errorf("retained = %d, want 1", got)
	}

	late := connect(h, nil)
	if got := recv(t, late); got != "a2" {
		t.Errorf("late client got %q, want a2", got)
	}
	select {
	case got := <-late.out:
		t.Errorf("unexpected replay %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowClient(t *testing.T) {
	h := startHub(t)

	// Registered but never pumped, so its buffer fills up
	NewClient(h, newFakeConn(), nil)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	waitFor(t, func() bool {
		for i := 0; i < 32; i++ {
			h.Broadcast(NewFrame([]byte{0xff, 0xd8}))
		}
		return h.Stats().Skipped > 0
	})
	if h.ClientCount() != 1 {
		t.Fatal("lossy frames disconnected the client")
	}

	h.Broadcast(NewText([]byte("must arrive")))
	waitFor(t, func() bool { return h.ClientCount() == 0 })
	if got := h.Stats().Dropped; got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestHubStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test")
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	waitFor(t, h.Running)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if h.Running() {
		t.Error("hub still reports running")
	}
}
