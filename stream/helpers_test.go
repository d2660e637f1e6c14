package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/streamskema/stream"
)

// feed pushes chunks one at a time, invoking step after each push and once
// more after Finish, until step produces a value or a terminal error.
func feed[T any](t *testing.T, chunks []string, step func(*stream.Stream) (T, error)) (T, error) {
	t.Helper()
	s := stream.New()
	for _, c := range chunks {
		require.NoError(t, s.Push(c))
		v, err := step(s)
		if !stream.IsNeedMoreData(err) {
			return v, err
		}
	}
	s.Finish()
	return step(s)
}

// splits returns every way of cutting text into two non-empty chunks, plus
// the one-byte-at-a-time split and the unsplit text.
func splits(text string) [][]string {
	out := [][]string{{text}}
	for i := 1; i < len(text); i++ {
		out = append(out, []string{text[:i], text[i:]})
	}
	bytewise := make([]string, 0, len(text))
	for i := 0; i < len(text); i++ {
		bytewise = append(bytewise, text[i:i+1])
	}
	return append(out, bytewise)
}

func finished(t *testing.T, text string) *stream.Stream {
	t.Helper()
	s := stream.New()
	require.NoError(t, s.Push(text))
	s.Finish()
	return s
}

func requireCode(t *testing.T, err error, code stream.Code) {
	t.Helper()
	e, ok := stream.AsError(err)
	require.Truef(t, ok, "expected *stream.Error, got %v", err)
	require.Equalf(t, code, e.Code, "unexpected error: %v", err)
}
