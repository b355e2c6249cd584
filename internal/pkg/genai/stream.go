package genai

import (
	"context"
	"sync"
)

// Stream is a cancellable producer of chunks.
// Consumers range over Chunks until it is closed, then check Err.
// Close stops the producer at its next chunk; it is safe to call more than once.
type Stream struct {
	chunks chan Chunk
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Producer emits chunks until done. emit returns false once the consumer has gone away.
type Producer func(ctx context.Context, emit func(Chunk) bool) error

// NewStream runs produce in its own goroutine
func NewStream(ctx context.Context, produce Producer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{chunks: make(chan Chunk), cancel: cancel}

	go func() {
		defer close(s.chunks)
		defer cancel()

		emit := func(c Chunk) bool {
			select {
			case s.chunks <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if err := produce(ctx, emit); err != nil && ctx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}()
	return s
}

// StreamOf returns a stream that yields chunks and ends
func StreamOf(ctx context.Context, chunks ...Chunk) *Stream {
	return NewStream(ctx, func(_ context.Context, emit func(Chunk) bool) error {
		for _, c := range chunks {
			if !emit(c) {
				return nil
			}
		}
		return nil
	})
}

// Chunks is closed when the producer finishes or the stream is closed
func (s *Stream) Chunks() <-chan Chunk {
	return s.chunks
}

// Err reports the producer failure, if any. Valid once Chunks is closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels the producer
func (s *Stream) Close() {
	s.cancel()
}

// Collect drains the stream into one text and the last sources seen
func (s *Stream) Collect() (string, []Source, error) {
	var text []byte
	var sources []Source
	for c := range s.Chunks() {
		text = append(text, c.TextDelta...)
		if len(c.Sources) > 0 {
			sources = c.Sources
		}
	}
	return string(text), sources, s.Err()
}
