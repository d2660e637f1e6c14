package streamskema_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	streamskema "github.com/reoring/streamskema"
	g "github.com/reoring/streamskema/dsl"
	"github.com/reoring/streamskema/source"
	"github.com/reoring/streamskema/stream"
)

func requireCode(t *testing.T, err error, code string) streamskema.Issue {
	t.Helper()
	iss, ok := streamskema.AsIssues(err)
	require.Truef(t, ok, "expected Issues, got %v", err)
	require.Equal(t, code, iss[0].Code, "issue: %+v", iss[0])
	return iss[0]
}

func TestDecoder_PushResume(t *testing.T) {
	d := streamskema.NewDecoder(g.Array(g.String()))

	require.NoError(t, d.Push(`["ab`))
	_, err := d.Decode()
	require.ErrorIs(t, err, streamskema.ErrNeedMoreData)

	require.NoError(t, d.Push(`c", "d"]`))
	_, err = d.Decode()
	require.ErrorIs(t, err, streamskema.ErrNeedMoreData, "the closing bracket is held back until more input or Finish")

	d.Finish()
	v, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, []string{"abc", "d"}, v)
	require.Equal(t, 12, d.Offset())

	again, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, v, again)

	require.ErrorIs(t, d.Push(`x`), stream.ErrFinished)
}

func TestDecoder_TrailingData(t *testing.T) {
	_, err := streamskema.DecodeString(g.Array(g.Int[int]()), `[1] x`)
	it := requireCode(t, err, streamskema.CodeTrailingData)
	require.EqualValues(t, 4, it.Offset)

	v, err := streamskema.DecodeString(g.Array(g.Int[int]()), " [1]\n\t ")
	require.NoError(t, err)
	require.Equal(t, []int{1}, v)
}

func TestDecoder_TrailingDataBeforeFinish(t *testing.T) {
	d := streamskema.NewDecoder(g.Array(g.Int[int]()))
	require.NoError(t, d.Push(`[1] [2`))
	_, err := d.Decode()
	requireCode(t, err, streamskema.CodeTrailingData)

	// The failure sticks.
	_, again := d.Decode()
	require.Equal(t, err, again)
}

func TestDecoder_UnexpectedEnd(t *testing.T) {
	_, err := streamskema.DecodeString(g.Array(g.Int[int]()), `[1,`)
	requireCode(t, err, streamskema.CodeParseError)

	_, err = streamskema.DecodeString(g.String(), ``)
	requireCode(t, err, streamskema.CodeParseError)
}

func TestDecoder_MaxBytes(t *testing.T) {
	opt := streamskema.DecodeOpt{MaxBytes: 4}
	_, err := streamskema.DecodeChunks(g.Array(g.Int[int]()), []string{`[1,`, `2,3]`}, opt)
	requireCode(t, err, streamskema.CodeTruncated)

	v, err := streamskema.DecodeString(g.Array(g.Int[int]()), `[12]`, opt)
	require.NoError(t, err)
	require.Equal(t, []int{12}, v)
}

func TestDecoder_MaxDepth(t *testing.T) {
	opt := streamskema.DecodeOpt{MaxDepth: 2}
	_, err := streamskema.DecodeString(g.Any(), `[[[1]]]`, opt)
	requireCode(t, err, streamskema.CodeMaxDepth)

	_, err = streamskema.DecodeString(g.Any(), `[[1]]`, opt)
	require.NoError(t, err)
}

func TestDecodeChunks_SplitMultibyte(t *testing.T) {
	text := `"日本"`
	chunks := make([]string, 0, len(text))
	for i := range len(text) {
		chunks = append(chunks, text[i:i+1])
	}
	v, err := streamskema.DecodeChunks(g.String(), chunks)
	require.NoError(t, err)
	require.Equal(t, "日本", v)
}

func TestDecodeFrom_Source(t *testing.T) {
	v, err := streamskema.DecodeFrom(context.Background(), g.Array(g.Bool()), source.Strings(`[tr`, `ue, fa`, `lse]`))
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, v)
}

func TestDecodeFrom_ContextCanceledBetweenFragments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	src := source.Func(func() (string, error) {
		calls++
		cancel()
		return `[1,`, nil
	})
	_, err := streamskema.DecodeFrom(ctx, g.Array(g.Int[int]()), src)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDecodeFrom_SourceError(t *testing.T) {
	boom := errors.New("boom")
	src := source.Func(func() (string, error) { return "", boom })
	_, err := streamskema.DecodeFrom(context.Background(), g.Int[int](), src)
	require.ErrorIs(t, err, boom)
	requireCode(t, err, streamskema.CodeParseError)
}

func TestStreamDecode_Reader(t *testing.T) {
	r := iotest.OneByteReader(strings.NewReader(`{"k":[1,2,{"n":null}]}`))
	v, err := streamskema.StreamDecode(context.Background(), g.Map(g.Any()), r)
	require.NoError(t, err)
	require.Contains(t, v, "k")
	require.Equal(t, stream.KindArray, v["k"].Kind)
}

func TestStreamDecode_ReaderError(t *testing.T) {
	r := iotest.TimeoutReader(strings.NewReader(`[1,2,3]`))
	_, err := streamskema.StreamDecode(context.Background(), g.Array(g.Int[int]()), r, streamskema.DecodeOpt{ChunkSize: 2})
	require.ErrorIs(t, err, iotest.ErrTimeout)
}

func TestStreamDecode_EmptyReader(t *testing.T) {
	_, err := streamskema.StreamDecode(context.Background(), g.Bool(), io.LimitReader(strings.NewReader("true"), 0))
	requireCode(t, err, streamskema.CodeParseError)
}

func TestDecoder_LogsSuspensions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := streamskema.DecodeChunks(g.Bool(), []string{"tr", "ue"}, streamskema.DecodeOpt{Logger: logger})
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "decode suspended")
	require.Contains(t, out, "decode complete")

	buf.Reset()
	_, err = streamskema.DecodeString(g.Bool(), "nope", streamskema.DecodeOpt{Logger: logger})
	require.Error(t, err)
	require.Contains(t, buf.String(), "decode failed")
}
