package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	streamskema "github.com/reoring/streamskema"
)

// decodeSplits decodes text whole, at every two-chunk split and one byte at
// a time, requiring the same value each time.
func decodeSplits[T any](t *testing.T, s streamskema.Schema[T], text string) T {
	t.Helper()
	want, err := streamskema.DecodeString(s, text)
	require.NoError(t, err)
	for i := 1; i < len(text); i++ {
		got, err := streamskema.DecodeChunks(s, []string{text[:i], text[i:]})
		require.NoError(t, err, "split at %d", i)
		require.Equal(t, want, got, "split at %d", i)
	}
	bytewise := make([]string, len(text))
	for i := range text {
		bytewise[i] = text[i : i+1]
	}
	got, err := streamskema.DecodeChunks(s, bytewise)
	require.NoError(t, err, "bytewise")
	require.Equal(t, want, got, "bytewise")
	return want
}

func firstIssue(t *testing.T, err error) streamskema.Issue {
	t.Helper()
	iss, ok := streamskema.AsIssues(err)
	require.Truef(t, ok, "expected Issues, got %v", err)
	require.NotEmpty(t, iss)
	return iss[0]
}

func requireIssue(t *testing.T, err error, code, path string) {
	t.Helper()
	it := firstIssue(t, err)
	require.Equal(t, code, it.Code, "issue: %+v", it)
	require.Equal(t, path, it.Path, "issue: %+v", it)
}

func defJSON[T any](t *testing.T, s streamskema.Schema[T]) string {
	t.Helper()
	b, err := streamskema.DefinitionJSON(s)
	require.NoError(t, err)
	return string(b)
}

func encodeJSON[T any](t *testing.T, s streamskema.Schema[T], v T) string {
	t.Helper()
	b, err := streamskema.Encode(s, v)
	require.NoError(t, err)
	return string(b)
}
