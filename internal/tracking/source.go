package tracking

// Source delivers tracking frames from a hand tracking service.
//
// Implementations push frames onto the channel returned by Frames and close
// it when the source shuts down. Frames may be dropped when the consumer
// falls behind; sources never block on a slow consumer.
type Source interface {
	// Frames returns the channel of tracking frames. The channel is closed
	// when the source is closed.
	Frames() <-chan Frame

	// Close stops the source and releases its resources.
	Close() error
}

// Config holds tracking source configuration options.
type Config struct {
	// URL is the tracking service WebSocket endpoint.
	URL string

	// FrameBuffer is the capacity of the frame channel. Frames beyond this
	// are dropped when the consumer lags.
	FrameBuffer int
}

// DefaultConfig returns the default tracking source configuration, pointing
// at a locally running Leap Motion service.
func DefaultConfig() Config {
	return Config{
		URL:         "ws://127.0.0.1:6437/v6.json",
		FrameBuffer: 8,
	}
}
