package protocol

import (
	"encoding/base64"
	"fmt"

	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewFrameMessage creates a frame message from raw JPEG data
func NewFrameMessage(width, height int, jpegData []byte, frameID uint64) (*Message, error) {
	return NewMessage(TypeFrame, FrameData{
		Width:   width,
		Height:  height,
		Format:  "jpeg",
		Data:    base64.StdEncoding.EncodeToString(jpegData),
		FrameID: frameID,
	})
}

// NewLandmarksMessage creates a landmarks message
func NewLandmarksMessage(f landmark.Frame) (*Message, error) {
	return NewMessage(TypeLandmarks, f)
}

// NewPointerMessage creates a pointer event message
func NewPointerMessage(event string, x, y float64, buttons int) (*Message, error) {
	return NewMessage(TypePointer, PointerData{Event: event, X: x, Y: y, Buttons: buttons})
}

// NewRigMessage creates a rig frame message
func NewRigMessage(f RigFrame) (*Message, error) {
	return NewMessage(TypeRig, f)
}

// NewRemovedMessage announces that a model left the scene
func NewRemovedMessage(model string) (*Message, error) {
	return NewMessage(TypeRemoved, RemovedData{Model: model})
}

// NewEmotionMessage creates an emotion message from a classification
func NewEmotionMessage(res emotion.Result) (*Message, error) {
	data := EmotionData{
		Label:   res.Label,
		Variant: res.Variant,
		Polygon: points(res.Polygon),
		Hull:    points(res.Hull),
	}
	if res.Matched() {
		data.Color = res.Color.CSS()
	}
	return NewMessage(TypeEmotion, data)
}

func points(ps []emotion.Point) [][2]float64 {
	if len(ps) == 0 {
		return nil
	}
	out := make([][2]float64, len(ps))
	for i, p := range ps {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// NewErrorMessage creates an error message
func NewErrorMessage(err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Message: err.Error()})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) {
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DecodeFrameData decodes the base64 image data
func (f *FrameData) DecodeFrameData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(f.Data)
}

// GetLandmarksData extracts a landmark frame from a message
func (m *Message) GetLandmarksData() (*LandmarksData, error) {
	var data LandmarksData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	for i, p := range data.Poses {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("pose %d: %w", i, err)
		}
	}
	return &data, nil
}

// GetPointerData extracts a pointer event from a message
func (m *Message) GetPointerData() (*PointerData, error) {
	var data PointerData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	switch data.Event {
	case PointerDown, PointerMove, PointerUp:
	default:
		return nil, fmt.Errorf("unknown pointer event %q", data.Event)
	}
	return &data, nil
}

// GetRigFrame extracts a rig frame from a message
func (m *Message) GetRigFrame() (*RigFrame, error) {
	var data RigFrame
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetRemovedData extracts the removed model from a message
func (m *Message) GetRemovedData() (*RemovedData, error) {
	var data RemovedData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetEmotionData extracts emotion data from a message
func (m *Message) GetEmotionData() (*EmotionData, error) {
	var data EmotionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
