package agent

import (
	"io"

	"github.com/plantworksco/foreman/pkg/sse"
)

// Stream composes the SSE frame reader with the event classifier, yielding
// typed protocol events one at a time from a streaming response body.
type Stream struct {
	frames *sse.Reader

	// done latches once a terminal event has been emitted. The stream stops
	// reading the transport at that point: a server emitting frames after
	// its terminal signal has undefined behavior, and those frames must not
	// reopen the turn.
	done bool
}

// NewStream returns a Stream decoding protocol events from src, typically a
// streaming HTTP response body.
func NewStream(src io.Reader) *Stream {
	return &Stream{frames: sse.NewReader(src)}
}

// Next returns the next classified event. It returns nil, nil when the
// stream is exhausted — either the transport closed cleanly (callers treat
// this as an implicit done) or a done event was already emitted. Transport
// read errors are propagated as-is.
func (s *Stream) Next() (*Event, error) {
	if s.done {
		return nil, nil
	}

	for {
		frame, err := s.frames.Next()
		if err != nil {
			return nil, err
		}
		if frame == nil {
			return nil, nil
		}

		ev, ok := Classify(frame.Data)
		if !ok {
			// Blank frame, nothing to classify.
			continue
		}

		if ev.Kind == KindDone {
			s.done = true
		}
		return &ev, nil
	}
}
