// Package hub fans websocket messages out to viewers. A hub keeps the
// latest message per key and replays it to viewers that join later, so a
// new browser tab starts from the current scene.
package hub

// Kind is the websocket frame type a message is written as.
type Kind int

const (
	// Text frames carry JSON protocol messages
	Text Kind = iota
	// Binary frames carry raw data such as JPEG previews
	Binary
)

// Message is one outbound websocket payload.
type Message struct {
	Kind Kind
	Data []byte

	// Key names the state the message describes. The hub retains the
	// latest message per key.
	Key string

	// Forget drops the retained message for Key. Data is still delivered.
	Forget bool

	// Lossy messages are skipped for a client whose buffer is full instead
	// of disconnecting it.
	Lossy bool
}

// NewText creates a one-off text message.
func NewText(data []byte) Message {
	return Message{Kind: Text, Data: data}
}

// NewState creates a text message that replaces the retained state for key.
// Newer states supersede it, so slow clients may miss it.
func NewState(key string, data []byte) Message {
	return Message{Kind: Text, Data: data, Key: key, Lossy: true}
}

// NewForget creates a text message that clears the retained state for key.
func NewForget(key string, data []byte) Message {
	return Message{Kind: Text, Data: data, Key: key, Forget: true}
}

// NewFrame creates a lossy binary message, one frame of a live feed.
func NewFrame(data []byte) Message {
	return Message{Kind: Binary, Data: data, Lossy: true}
}
