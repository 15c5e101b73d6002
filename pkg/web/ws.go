package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-mannequin/pkg/hub"
	"github.com/teslashibe/go-mannequin/pkg/ik"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
	"github.com/teslashibe/go-mannequin/pkg/protocol"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

// handleRigWS streams rig frames, starting with the latest frame of every
// model on stage.
func (s *Server) handleRigWS(c *websocket.Conn) {
	hub.NewClient(s.renderer.rigHub, c, nil).Run()
}

// handleEmotionWS streams emotion results, starting with the latest one.
func (s *Server) handleEmotionWS(c *websocket.Conn) {
	hub.NewClient(s.renderer.emotionHub, c, nil).Run()
}

// handlePointerWS receives pointer gestures.
func (s *Server) handlePointerWS(c *websocket.Conn) {
	hub.NewClient(s.pointerHub, c, s.onMessage).Run()
}

// handleLandmarksWS receives landmark or video frames from webcam clients
// and answers each classified frame with an emotion message.
func (s *Server) handleLandmarksWS(c *websocket.Conn) {
	hub.NewClient(s.landmarkHub, c, s.onMessage).Run()
}

// handlePreviewWS streams JPEG webcam frames.
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	hub.NewClient(s.previewHub, c, nil).Run()
}

func (s *Server) onMessage(c *hub.Client, data []byte) {
	if msg := s.dispatch(data); msg != nil {
		reply(c, msg)
	}
}

func reply(c *hub.Client, msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	c.Reply(hub.NewText(data))
}

// dispatch handles one inbound message and returns the reply, if any.
func (s *Server) dispatch(data []byte) *protocol.Message {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return errorMessage(err)
	}

	switch msg.Type {
	case protocol.TypePointer:
		p, err := msg.GetPointerData()
		if err != nil {
			return errorMessage(err)
		}
		return errorMessage(s.pointer(p))

	case protocol.TypeLandmarks:
		f, err := msg.GetLandmarksData()
		if err != nil {
			return errorMessage(err)
		}
		return s.landmarks(*f)

	case protocol.TypeFrame:
		f, err := s.detect(msg)
		if err != nil {
			return errorMessage(err)
		}
		return s.landmarks(f)

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return errorMessage(err)
		}
		pong, _ := protocol.NewPongMessage(ping.ID, ping.Timestamp, time.Now().UnixMilli())
		return pong
	}
	return errorMessage(fmt.Errorf("unexpected message type %q", msg.Type))
}

func (s *Server) pointer(p *protocol.PointerData) error {
	ptr := ik.Pointer{X: p.X, Y: p.Y, Buttons: p.Buttons}
	switch p.Event {
	case protocol.PointerDown:
		_, _, err := s.scene.PointerDown(ptr)
		return err
	case protocol.PointerMove:
		return s.scene.PointerMove(ptr)
	}
	return s.scene.PointerUp()
}

// landmarks classifies a frame and replies with the last pose's emotion.
// Stale and empty frames get no reply.
func (s *Server) landmarks(f landmark.Frame) *protocol.Message {
	results, err := s.scene.Landmarks(f)
	if errors.Is(err, scene.ErrStaleFrame) {
		return nil
	}
	if err != nil {
		return errorMessage(err)
	}
	if len(results) == 0 {
		return nil
	}
	msg, err := protocol.NewEmotionMessage(results[len(results)-1])
	if err != nil {
		return errorMessage(err)
	}
	return msg
}

// detect runs the server-side detector on a frame message.
func (s *Server) detect(msg *protocol.Message) (landmark.Frame, error) {
	if s.Detector == nil {
		return landmark.Frame{}, errors.New("server-side detection is not enabled")
	}
	fd, err := msg.GetFrameData()
	if err != nil {
		return landmark.Frame{}, err
	}
	jpeg, err := fd.DecodeFrameData()
	if err != nil {
		return landmark.Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	poses, err := s.Detector.Detect(jpeg)
	if err != nil {
		return landmark.Frame{}, err
	}

	ts := msg.Timestamp
	if fd.FrameID != 0 {
		ts = int64(fd.FrameID)
	}
	return landmark.Frame{Timestamp: ts, Width: fd.Width, Height: fd.Height, Poses: poses}, nil
}

// errorMessage wraps err for the client, nil when err is nil.
func errorMessage(err error) *protocol.Message {
	if err == nil {
		return nil
	}
	msg, _ := protocol.NewErrorMessage(err)
	return msg
}
