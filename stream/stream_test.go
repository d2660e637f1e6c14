package stream_test

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/reoring/streamskema/stream"
)

func TestStream_HoldsBackLastRuneUntilFinished(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push("ab"))

	r, err := s.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'a', r)

	_, err = s.ReadRune()
	require.ErrorIs(t, err, stream.ErrNeedMoreData)

	s.Finish()
	r, err = s.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'b', r)
	require.True(t, s.AtEnd())

	_, err = s.ReadRune()
	require.True(t, stream.IsUnexpectedEnd(err))
}

func TestStream_IncompleteUTF8TailIsUnreadable(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push("a\xc3"))
	r, err := s.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'a', r)
	_, err = s.PeekRune()
	require.ErrorIs(t, err, stream.ErrNeedMoreData)

	require.NoError(t, s.Push("\xa9"))
	s.Finish()
	r, err = s.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'é', r)
}

func TestStream_ReadLiteral(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push("tr"))
	require.ErrorIs(t, s.ReadLiteral("true"), stream.ErrNeedMoreData)
	require.Equal(t, 0, s.Offset(), "a suspended read must not commit")

	require.NoError(t, s.Push("ue,"))
	require.NoError(t, s.ReadLiteral("true"))
	require.Equal(t, 4, s.Offset())

	s2 := finished(t, "tree")
	requireCode(t, s2.ReadLiteral("true"), stream.CodeSyntax)

	s3 := finished(t, "tru")
	require.True(t, stream.IsUnexpectedEnd(s3.ReadLiteral("true")))
}

func TestStream_ReadWhile(t *testing.T) {
	isDigit := func(r rune) bool { return unicode.IsDigit(r) }

	s := stream.New()
	require.NoError(t, s.Push("123"))
	_, err := s.ReadWhile(isDigit, 1, 0)
	require.ErrorIs(t, err, stream.ErrNeedMoreData, "more digits could follow")

	_, err = s.ReadWhile(isDigit, 1, 2)
	require.NoError(t, err, "max reached before the readable end")

	s2 := finished(t, "12345x")
	got, err := s2.ReadWhile(isDigit, 1, 4)
	require.NoError(t, err)
	require.Equal(t, "1234", got)
	got, err = s2.ReadWhile(isDigit, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "5", got)
	_, err = s2.ReadWhile(isDigit, 1, 0)
	requireCode(t, err, stream.CodeSyntax)
	require.Equal(t, 5, s2.Offset())
}

func TestStream_ReadAvailableNeverSuspends(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push("abc"))
	got := s.ReadAvailable(func(r rune) bool { return r != '"' })
	require.Equal(t, "ab", got)
	require.Equal(t, "", s.ReadAvailable(func(rune) bool { return true }))
}

func TestStream_CheckpointRestoreSince(t *testing.T) {
	s := finished(t, "  hello world")
	s.SkipWhitespace()
	cp := s.Checkpoint()
	require.NoError(t, s.ReadLiteral("hello"))
	require.Equal(t, "hello", s.Since(cp))
	s.Restore(cp)
	require.Equal(t, 2, s.Offset())
}

func TestStream_CompactKeepsAbsoluteOffsets(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push("abcdef"))
	require.NoError(t, s.ReadLiteral("abc"))
	s.Compact()
	require.Equal(t, 3, s.Offset())
	require.Equal(t, 3, s.Buffered())

	cp := s.Checkpoint()
	require.NoError(t, s.ReadLiteral("de"))
	require.Equal(t, "de", s.Since(cp))
	s.Restore(cp)
	require.Equal(t, 3, s.Offset())
}

func TestStream_PushLimits(t *testing.T) {
	s := stream.New(stream.Limits{MaxBytes: 4})
	require.NoError(t, s.Push("abc"))
	requireCode(t, s.Push("de"), stream.CodeTruncated)

	s.Finish()
	require.ErrorIs(t, s.Push("x"), stream.ErrFinished)
}

func TestStream_PeekKind(t *testing.T) {
	cases := map[string]stream.Kind{
		`{}`:    stream.KindObject,
		`[]`:    stream.KindArray,
		`"x"`:   stream.KindString,
		`-1`:    stream.KindNumber,
		`7`:     stream.KindNumber,
		`true`:  stream.KindBool,
		`false`: stream.KindBool,
		`null`:  stream.KindNull,
	}
	for text, want := range cases {
		s := finished(t, " \n\t"+text)
		got, err := s.PeekKind()
		require.NoError(t, err, text)
		require.Equal(t, want, got, text)
		require.Equal(t, 3, s.Offset(), "peek consumes whitespace only")
	}

	_, err := finished(t, "?").PeekKind()
	requireCode(t, err, stream.CodeSyntax)
}
