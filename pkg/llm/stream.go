package llm

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Stream yields completion text incrementally. Recv returns io.EOF once the
// model has finished.
type Stream interface {
	Recv() (string, error)
	Close() error
}

type finishStream struct {
	Stream
	text   strings.Builder
	once   sync.Once
	finish func(text string)
}

// OnFinish attaches a completion continuation to s. fn receives the full
// delivered text when Recv first reports io.EOF, on the goroutine that is
// draining the stream. It runs at most once, and never when the stream fails
// or is closed before the end.
func OnFinish(s Stream, fn func(text string)) Stream {
	return &finishStream{Stream: s, finish: fn}
}

func (s *finishStream) Recv() (string, error) {
	chunk, err := s.Stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.once.Do(func() {
				s.finish(s.text.String())
			})
		}
		return chunk, err
	}
	s.text.WriteString(chunk)
	return chunk, nil
}

// Collect drains s and returns everything it delivered.
func Collect(s Stream) (string, error) {
	defer s.Close()

	var sb strings.Builder
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
}
