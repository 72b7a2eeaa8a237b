package tracking

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Reconnect backoff bounds for the tracking service connection.
const (
	initialBackoff = time.Second
	maxBackoff     = 5 * time.Second
)

// millimeter scales wire coordinates into the meters used throughout the
// model.
const millimeter = 1e-3

// LeapSource streams tracking frames from a Leap Motion service over its
// WebSocket JSON protocol. It reconnects automatically with capped backoff
// when the service restarts.
type LeapSource struct {
	config Config
	frames chan Frame
	done   chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	closeOnce sync.Once
}

// NewLeapSource creates a LeapSource and starts its connection loop.
func NewLeapSource(config Config) *LeapSource {
	if config.URL == "" {
		config.URL = DefaultConfig().URL
	}
	if config.FrameBuffer <= 0 {
		config.FrameBuffer = DefaultConfig().FrameBuffer
	}

	s := &LeapSource{
		config: config,
		frames: make(chan Frame, config.FrameBuffer),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Frames returns the channel of decoded tracking frames.
func (s *LeapSource) Frames() <-chan Frame {
	return s.frames
}

// Close stops the connection loop and closes the frame channel.
func (s *LeapSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()
	})
	return nil
}

// run dials the tracking service and reads frames until Close is called,
// reconnecting on failure.
func (s *LeapSource) run() {
	defer close(s.frames)

	backoff := initialBackoff
	for {
		select {
		case <-s.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(s.config.URL, nil)
		if err != nil {
			log.Printf("Tracking service unavailable at %s: %v (retrying in %s)", s.config.URL, err, backoff)
			select {
			case <-s.done:
				return
			case <-time.After(backoff):
			}
			if backoff < maxBackoff {
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		log.Printf("Connected to tracking service at %s", s.config.URL)
		backoff = initialBackoff

		if err := s.configure(conn); err != nil {
			log.Printf("Tracking service configuration failed: %v", err)
		}

		err = s.readLoop(conn)
		conn.Close()

		select {
		case <-s.done:
			return
		default:
			log.Printf("Tracking service connection lost: %v", err)
		}
	}
}

// configure requests focus and background frame delivery from the service.
func (s *LeapSource) configure(conn *websocket.Conn) error {
	if err := conn.WriteJSON(map[string]bool{"focused": true}); err != nil {
		return err
	}
	return conn.WriteJSON(map[string]bool{"background": true})
}

// readLoop decodes incoming messages into frames until the connection fails.
func (s *LeapSource) readLoop(conn *websocket.Conn) error {
	for {
		var msg leapMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		frame, ok := decodeLeapFrame(msg)
		if !ok {
			// Service handshake or event message, not a frame.
			continue
		}

		select {
		case s.frames <- frame:
		default:
			// Consumer is behind; drop the frame. Only current data matters.
		}
	}
}

// Wire structures for the Leap Motion JSON protocol (v6). Wire positions
// are [x, y, z] triples in millimeters; pointable type is the finger index.

type leapMessage struct {
	ServiceVersion string          `json:"serviceVersion"`
	ID             int64           `json:"id"`
	Timestamp      int64           `json:"timestamp"`
	Hands          []leapHand      `json:"hands"`
	Pointables     []leapPointable `json:"pointables"`
}

type leapHand struct {
	ID           int        `json:"id"`
	Type         string     `json:"type"`
	PalmPosition [3]float64 `json:"palmPosition"`
}

type leapPointable struct {
	ID           int        `json:"id"`
	HandID       int        `json:"handId"`
	Type         int        `json:"type"`
	CarpPosition [3]float64 `json:"carpPosition"`
	McpPosition  [3]float64 `json:"mcpPosition"`
	PipPosition  [3]float64 `json:"pipPosition"`
	DipPosition  [3]float64 `json:"dipPosition"`
	BtipPosition [3]float64 `json:"btipPosition"`
}

// decodeLeapFrame converts a wire message into a Frame. Returns false for
// non-frame messages such as the version handshake.
func decodeLeapFrame(msg leapMessage) (Frame, bool) {
	if msg.ID == 0 && msg.Timestamp == 0 {
		return Frame{}, false
	}

	frame := Frame{
		ID:        msg.ID,
		Timestamp: msg.Timestamp,
	}

	// Index hands by their service ID so pointables can be attached.
	handIdx := make(map[int]int, len(msg.Hands))
	for _, wh := range msg.Hands {
		side, ok := ParseSide(wh.Type)
		if !ok {
			log.Printf("Tracking frame %d: unknown hand type %q, skipping hand", msg.ID, wh.Type)
			continue
		}

		hand := Hand{
			Side:         side,
			PalmPosition: vec3(wh.PalmPosition),
		}
		for i := range hand.Fingers {
			hand.Fingers[i].Index = FingerIndex(i)
		}

		handIdx[wh.ID] = len(frame.Hands)
		frame.Hands = append(frame.Hands, hand)
	}

	for _, wp := range msg.Pointables {
		idx, ok := handIdx[wp.HandID]
		if !ok {
			continue
		}
		if wp.Type < 0 || wp.Type >= int(FingerCount) {
			log.Printf("Tracking frame %d: pointable %d has invalid finger type %d, skipping", msg.ID, wp.ID, wp.Type)
			continue
		}

		finger := &frame.Hands[idx].Fingers[wp.Type]
		finger.Bones = buildBones([5]Vector3{
			vec3(wp.CarpPosition),
			vec3(wp.McpPosition),
			vec3(wp.PipPosition),
			vec3(wp.DipPosition),
			vec3(wp.BtipPosition),
		})
	}

	return frame, true
}

// buildBones derives the four finger bones from the five joint positions.
// A zero-length bone (the thumb has no metacarpal) inherits the direction of
// the bone after it.
func buildBones(joints [5]Vector3) [BoneCount]Bone {
	var bones [BoneCount]Bone
	for i := 0; i < BoneCount; i++ {
		bones[i] = Bone{
			PrevJoint: joints[i],
			NextJoint: joints[i+1],
			Direction: joints[i+1].Sub(joints[i]).Normalized(),
		}
	}
	for i := BoneCount - 2; i >= 0; i-- {
		if bones[i].Direction.IsZero() {
			bones[i].Direction = bones[i+1].Direction
		}
	}
	return bones
}

// vec3 converts a wire millimeter triple into a Vector3 in meters.
func vec3(a [3]float64) Vector3 {
	return Vector3{X: a[0] * millimeter, Y: a[1] * millimeter, Z: a[2] * millimeter}
}
