package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-mannequin/internal/log"
)

// Stats is a snapshot of a hub's state.
type Stats struct {
	Clients  int    `json:"clients"`
	Retained int    `json:"retained"`
	Skipped  uint64 `json:"skipped"` // lossy messages not delivered to slow clients
	Dropped  uint64 `json:"dropped"` // clients disconnected for falling behind
}

// Hub owns a set of clients. Only Run touches the client set and the
// retained states; everything else talks to it over channels.
type Hub struct {
	name   string
	logger *slog.Logger

	clients  map[*Client]struct{}
	retained map[string]Message
	order    []string // retained keys in first-seen order

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex // guards stats and running for readers
	stats   Stats
	running bool
}

// New creates a hub. name appears in its log lines.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		logger:     log.With("hub", name),
		clients:    make(map[*Client]struct{}),
		retained:   make(map[string]Message),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run delivers messages until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.replay(c)
			h.setClients()
			h.logger.Info("client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
				h.logger.Info("client disconnected", "clients", len(h.clients))
			}

		case msg := <-h.broadcast:
			h.retain(msg)
			h.deliver(msg)
		}
	}
}

// replay queues the retained states for a new client.
func (h *Hub) replay(c *Client) {
	for _, key := range h.order {
		select {
		case c.send <- h.retained[key]:
		default:
			return
		}
	}
}

func (h *Hub) retain(msg Message) {
	if msg.Key == "" {
		return
	}
	_, had := h.retained[msg.Key]
	switch {
	case msg.Forget && had:
		delete(h.retained, msg.Key)
		for i, k := range h.order {
			if k == msg.Key {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	case !msg.Forget:
		if !had {
			h.order = append(h.order, msg.Key)
		}
		h.retained[msg.Key] = msg
	}

	h.mu.Lock()
	h.stats.Retained = len(h.retained)
	h.mu.Unlock()
}

func (h *Hub) deliver(msg Message) {
	var skipped, dropped uint64
	for c := range h.clients {
		select {
		case c.send <- msg:
			continue
		default:
		}
		if msg.Lossy {
			skipped++
			continue
		}
		h.remove(c)
		dropped++
		h.logger.Warn("dropped slow client")
	}
	if skipped+dropped > 0 {
		h.mu.Lock()
		h.stats.Skipped += skipped
		h.stats.Dropped += dropped
		h.mu.Unlock()
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.setClients()
}

func (h *Hub) setClients() {
	h.mu.Lock()
	h.stats.Clients = len(h.clients)
	h.mu.Unlock()
}

// Broadcast queues msg for every client. It never blocks; when the queue
// is full the message is discarded.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping message")
	}
}

// Stats returns counters for the hub.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return h.Stats().Clients
}

// Running reports whether Run is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}
