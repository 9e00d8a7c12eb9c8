package location

import (
	"context"
	"sync"

	"campground-nav-service/internal/domain"
)

// ChannelSource is a PositionSource fed by an external producer, typically
// the websocket transport pushing device fixes into a session.
type ChannelSource struct {
	real bool
	ch   chan domain.Position
	once sync.Once
}

func NewChannelSource(real bool, buffer int) *ChannelSource {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelSource{real: real, ch: make(chan domain.Position, buffer)}
}

func (s *ChannelSource) Positions(ctx context.Context) (<-chan domain.Position, error) {
	return s.ch, nil
}

// Real reports the flag given at construction. The websocket transport
// sets it from the client's declared source kind.
func (s *ChannelSource) Real() bool { return s.real }

// Push delivers one fix. When the session is not keeping up the fix is
// dropped rather than blocking the transport read loop; the return value
// reports delivery. Push must not be called after Close.
func (s *ChannelSource) Push(pos domain.Position) bool {
	select {
	case s.ch <- pos:
		return true
	default:
		return false
	}
}

// Close ends the stream. The consuming session exits once it drains.
func (s *ChannelSource) Close() {
	s.once.Do(func() { close(s.ch) })
}
