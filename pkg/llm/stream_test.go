package llm

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	chunks []string
	err    error
	pos    int
	closed bool
}

func (s *sliceStream) Recv() (string, error) {
	if s.pos < len(s.chunks) {
		s.pos++
		return s.chunks[s.pos-1], nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

func TestOnFinish(t *testing.T) {
	t.Run("fires once with full text", func(t *testing.T) {
		var calls int
		var got string
		s := OnFinish(&sliceStream{chunks: []string{"Hel", "lo", "!"}}, func(text string) {
			calls++
			got = text
		})

		text, err := Collect(s)
		require.NoError(t, err)
		assert.Equal(t, "Hello!", text)

		// Reading past the end must not fire again.
		_, err = s.Recv()
		assert.ErrorIs(t, err, io.EOF)

		assert.Equal(t, 1, calls)
		assert.Equal(t, "Hello!", got)
	})

	t.Run("does not fire on mid-stream error", func(t *testing.T) {
		fired := false
		boom := errors.New("connection reset")
		s := OnFinish(&sliceStream{chunks: []string{"partial"}, err: boom}, func(string) {
			fired = true
		})

		text, err := Collect(s)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, "partial", text)
		assert.False(t, fired)
	})

	t.Run("does not fire when closed early", func(t *testing.T) {
		fired := false
		inner := &sliceStream{chunks: []string{"a", "b"}}
		s := OnFinish(inner, func(string) {
			fired = true
		})

		_, err := s.Recv()
		require.NoError(t, err)
		require.NoError(t, s.Close())

		assert.True(t, inner.closed)
		assert.False(t, fired)
	})
}
