package protocol

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/posture"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "frame message",
			msgType: TypeFrame,
			data:    FrameData{Width: 640, Height: 480, Format: "jpeg"},
			wantErr: false,
		},
		{
			name:    "pointer message",
			msgType: TypePointer,
			data:    PointerData{Event: PointerDown, X: 0.1, Y: -0.2, Buttons: 1},
			wantErr: false,
		},
		{
			name:    "nil data",
			msgType: TypePing,
			data:    nil,
			wantErr: false,
		},
		{
			name:    "unmarshalable data",
			msgType: TypeRig,
			data:    func() {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
		})
	}
}

func TestFrameMessage(t *testing.T) {
	jpegData := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // Fake JPEG header

	msg, err := NewFrameMessage(640, 480, jpegData, 7)
	if err != nil {
		t.Fatalf("NewFrameMessage() error = %v", err)
	}

	bytes, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	parsed, err := ParseMessage(bytes)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}

	frameData, err := parsed.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData() error = %v", err)
	}
	if frameData.FrameID != 7 || frameData.Format != "jpeg" {
		t.Errorf("frame = %+v", frameData)
	}

	decoded, err := frameData.DecodeFrameData()
	if err != nil {
		t.Fatalf("DecodeFrameData() error = %v", err)
	}
	if string(decoded) != string(jpegData) {
		t.Errorf("decoded = %x, want %x", decoded, jpegData)
	}
	if frameData.Data != base64.StdEncoding.EncodeToString(jpegData) {
		t.Error("frame data should be standard base64")
	}
}

func TestLandmarksMessage(t *testing.T) {
	pose := make(landmark.Pose, landmark.Count)
	pose[landmark.Nose] = landmark.Point{X: 0.5, Y: 0.2, Z: -0.1, Visibility: 0.9}

	msg, err := NewLandmarksMessage(landmark.Frame{Timestamp: 42, Width: 1280, Height: 720, Poses: []landmark.Pose{pose}})
	if err != nil {
		t.Fatalf("NewLandmarksMessage() error = %v", err)
	}

	data, err := msg.GetLandmarksData()
	if err != nil {
		t.Fatalf("GetLandmarksData() error = %v", err)
	}
	if data.Timestamp != 42 || len(data.Poses) != 1 {
		t.Fatalf("frame = %+v", data)
	}
	if data.Poses[0][landmark.Nose] != pose[landmark.Nose] {
		t.Errorf("nose = %+v, want %+v", data.Poses[0][landmark.Nose], pose[landmark.Nose])
	}
}

func TestLandmarksMessageRejectsShortPose(t *testing.T) {
	msg, err := NewLandmarksMessage(landmark.Frame{Poses: []landmark.Pose{make(landmark.Pose, 5)}})
	if err != nil {
		t.Fatalf("NewLandmarksMessage() error = %v", err)
	}
	if _, err := msg.GetLandmarksData(); !errors.Is(err, landmark.ErrShortPose) {
		t.Errorf("GetLandmarksData() error = %v, want ErrShortPose", err)
	}
}

func TestPointerMessage(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		wantErr bool
	}{
		{"down", PointerDown, false},
		{"move", PointerMove, false},
		{"up", PointerUp, false},
		{"unknown", "click", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewPointerMessage(tt.event, 0.25, -0.5, 2)
			if err != nil {
				t.Fatalf("NewPointerMessage() error = %v", err)
			}
			data, err := msg.GetPointerData()
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetPointerData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if data.X != 0.25 || data.Y != -0.5 || data.Buttons != 2 {
				t.Errorf("pointer = %+v", data)
			}
		})
	}
}

func TestRigMessage(t *testing.T) {
	frame := RigFrame{
		Model:    "m1",
		Kind:     "male",
		Selected: "l_arm",
		Joints: []JointFrame{{
			Name:   "body",
			Matrix: [16]float64{0: 1, 5: 1, 10: 1, 15: 1},
			Shape:  &ShapeData{Radii: [3]float64{1, 2, 3}},
		}},
		Gauge:   &GaugeData{Joint: "l_arm", OffsetY: 1, Rotation: [3]float64{0, 1.57, 0}},
		Posture: posture.Posture{Version: posture.Version, Data: []posture.Entry{{0, 3.8, 0}}},
	}

	msg, err := NewRigMessage(frame)
	if err != nil {
		t.Fatalf("NewRigMessage() error = %v", err)
	}
	got, err := msg.GetRigFrame()
	if err != nil {
		t.Fatalf("GetRigFrame() error = %v", err)
	}
	if got.Selected != "l_arm" || len(got.Joints) != 1 || got.Joints[0].Matrix[15] != 1 {
		t.Errorf("rig frame = %+v", got)
	}
	if got.Gauge == nil || got.Gauge.Rotation[1] != 1.57 {
		t.Errorf("gauge = %+v", got.Gauge)
	}
	if s := got.Joints[0].Shape; s == nil || s.Radii[2] != 3 {
		t.Errorf("shape = %+v", s)
	}
	if got.Posture.Version != posture.Version || got.Posture.Data[0][1] != 3.8 {
		t.Errorf("posture = %+v", got.Posture)
	}
}

func TestRemovedMessage(t *testing.T) {
	msg, err := NewRemovedMessage("m1")
	if err != nil {
		t.Fatalf("NewRemovedMessage() error = %v", err)
	}
	if msg.Type != TypeRemoved {
		t.Errorf("type = %s", msg.Type)
	}
	got, err := msg.GetRemovedData()
	if err != nil || got.Model != "m1" {
		t.Errorf("removed = %+v, %v", got, err)
	}
}

func TestEmotionMessage(t *testing.T) {
	res := emotion.Result{
		Label:   "Joy",
		Variant: 3,
		Color:   emotion.Color{R: 255, G: 169, B: 0},
		Polygon: []emotion.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	}

	msg, err := NewEmotionMessage(res)
	if err != nil {
		t.Fatalf("NewEmotionMessage() error = %v", err)
	}
	data, err := msg.GetEmotionData()
	if err != nil {
		t.Fatalf("GetEmotionData() error = %v", err)
	}
	if data.Label != "Joy" || data.Color != "rgb(255,169,0)" {
		t.Errorf("emotion = %+v", data)
	}
	if len(data.Polygon) != 2 || data.Polygon[1] != [2]float64{3, 4} {
		t.Errorf("polygon = %v", data.Polygon)
	}
	if data.Hull != nil {
		t.Errorf("hull = %v, want nil", data.Hull)
	}

	empty, _ := NewEmotionMessage(emotion.Result{})
	data, _ = empty.GetEmotionData()
	if data.Label != "" || data.Color != "" {
		t.Errorf("unmatched emotion = %+v", data)
	}
}

func TestErrorMessage(t *testing.T) {
	msg, err := NewErrorMessage(errors.New("boom"))
	if err != nil {
		t.Fatalf("NewErrorMessage() error = %v", err)
	}
	var data ErrorData
	if err := msg.ParseData(&data); err != nil {
		t.Fatalf("ParseData() error = %v", err)
	}
	if data.Message != "boom" {
		t.Errorf("Message = %q", data.Message)
	}
}

func TestPingPongMessage(t *testing.T) {
	pingMsg, err := NewPingMessage("test-123")
	if err != nil {
		t.Fatalf("NewPingMessage() error = %v", err)
	}

	pingData, err := pingMsg.GetPingData()
	if err != nil {
		t.Fatalf("GetPingData() error = %v", err)
	}
	if pingData.ID != "test-123" {
		t.Errorf("ID = %v, want test-123", pingData.ID)
	}

	now := time.Now().UnixMilli()
	pongMsg, err := NewPongMessage("test-123", pingMsg.Timestamp, now)
	if err != nil {
		t.Fatalf("NewPongMessage() error = %v", err)
	}

	pongData, err := pongMsg.GetPongData()
	if err != nil {
		t.Fatalf("GetPongData() error = %v", err)
	}
	if pongData.LatencyMs < 0 {
		t.Errorf("LatencyMs = %v, should be >= 0", pongData.LatencyMs)
	}
}

func TestParseInvalidMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "invalid json",
			input:   "not json",
			wantErr: true,
		},
		{
			name:    "missing type",
			input:   "{}",
			wantErr: true,
		},
		{
			name:    "valid message",
			input:   `{"type":"ping","ts":1234567890}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessageJSON(t *testing.T) {
	msg, _ := NewPointerMessage(PointerMove, 0.1, 0.2, 1)
	bytes, _ := msg.Bytes()

	var parsed map[string]interface{}
	if err := json.Unmarshal(bytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal as map: %v", err)
	}

	if parsed["type"] != "pointer" {
		t.Errorf("type = %v, want pointer", parsed["type"])
	}
	if _, ok := parsed["ts"]; !ok {
		t.Error("ts field should be present")
	}
	if _, ok := parsed["data"]; !ok {
		t.Error("data field should be present")
	}
}

func BenchmarkParseLandmarks(b *testing.B) {
	msg, _ := NewLandmarksMessage(landmark.Frame{Poses: []landmark.Pose{make(landmark.Pose, landmark.Count)}})
	bytes, _ := msg.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, _ := ParseMessage(bytes)
		m.GetLandmarksData()
	}
}
