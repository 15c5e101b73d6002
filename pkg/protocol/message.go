// Package protocol defines the WebSocket message types exchanged between
// the mannequin server, browser viewers and webcam clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client → Server messages
	TypeFrame     MessageType = "frame"     // Encoded video frame for server-side detection
	TypeLandmarks MessageType = "landmarks" // Detected landmark poses
	TypePointer   MessageType = "pointer"   // Pointer gesture on the viewport

	// Server → Client messages
	TypeRig     MessageType = "rig"     // Rig frame for rendering
	TypeRemoved MessageType = "removed" // Model left the scene
	TypeEmotion MessageType = "emotion" // Emotion classification
	TypeError   MessageType = "error"   // Rejected request

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Client → Server Message Types
// =============================================================================

// FrameData contains a video frame
type FrameData struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"` // "jpeg"
	Data    string `json:"data"`   // base64 encoded
	FrameID uint64 `json:"frame_id,omitempty"`
}

// LandmarksData is one frame of detected poses.
type LandmarksData = landmark.Frame

// Pointer gesture events
const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)

// PointerData is a pointer event in normalized device coordinates.
type PointerData struct {
	Event   string  `json:"event"`             // "down", "move", "up"
	X       float64 `json:"x"`                 // -1 (left) to 1 (right)
	Y       float64 `json:"y"`                 // -1 (bottom) to 1 (top)
	Buttons int     `json:"buttons,omitempty"` // Bitmask: 1 primary, 2 secondary, 4 middle
}

// =============================================================================
// Server → Client Message Types
// =============================================================================

// RigFrame is the renderable state of one mannequin.
type RigFrame struct {
	Model    string          `json:"model"`
	Kind     string          `json:"kind"`
	Selected string          `json:"selected,omitempty"`
	Joints   []JointFrame    `json:"joints"`
	Gauge    *GaugeData      `json:"gauge,omitempty"`
	Posture  posture.Posture `json:"posture"`
}

// JointFrame is one joint's placement. Matrices are column-major.
type JointFrame struct {
	Name   string      `json:"name"`
	Matrix [16]float64 `json:"matrix"`          // joint frame
	Image  [16]float64 `json:"image"`           // shape frame
	Shape  *ShapeData  `json:"shape,omitempty"` // nil for joints without a visual
}

// ShapeData is an ellipsoid in the joint's shape frame.
type ShapeData struct {
	Center [3]float64 `json:"center"`
	Radii  [3]float64 `json:"radii"`
}

// RemovedData names a model that left the scene.
type RemovedData struct {
	Model string `json:"model"`
}

// GaugeData places the rotation gauge shown while dragging.
type GaugeData struct {
	Joint    string     `json:"joint"`
	OffsetY  float64    `json:"offset_y"`
	Rotation [3]float64 `json:"rotation"` // Radians, XYZ
}

// EmotionData is an emotion classification for display.
type EmotionData struct {
	Label   string       `json:"label"` // Empty when nothing matched
	Variant int          `json:"variant,omitempty"`
	Color   string       `json:"color,omitempty"` // CSS rgb()
	Polygon [][2]float64 `json:"polygon,omitempty"`
	Hull    [][2]float64 `json:"hull,omitempty"`
}

// ErrorData reports a rejected request.
type ErrorData struct {
	Message string `json:"message"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
