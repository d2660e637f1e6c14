package stream

import (
	"fmt"
	"unicode/utf8"
)

// Limits bounds the resources a single Stream may consume. Zero values
// disable the corresponding check.
type Limits struct {
	// MaxBytes caps the total number of bytes accepted by Push.
	MaxBytes int
	// MaxDepth caps array/object nesting for the generic Value decoder.
	MaxDepth int
}

// Stream is an append-only text buffer with a read cursor.
//
// The zero value is an empty, unfinished stream ready for use.
type Stream struct {
	buf      []byte
	base     int // absolute offset of buf[0]; grows on Compact
	pos      int // cursor, index into buf
	end      int // readable end, index into buf
	total    int // bytes pushed so far
	finished bool
	limits   Limits
}

// New returns an empty stream. The last Limits argument, if any, applies.
func New(limits ...Limits) *Stream {
	s := &Stream{}
	if len(limits) > 0 {
		s.limits = limits[len(limits)-1]
	}
	return s
}

// Limits returns the limits configured for this stream.
func (s *Stream) Limits() Limits { return s.limits }

// Push appends a fragment of text.
func (s *Stream) Push(text string) error {
	if s.finished {
		return ErrFinished
	}
	if s.limits.MaxBytes > 0 && s.total+len(text) > s.limits.MaxBytes {
		return &Error{Code: CodeTruncated, Offset: s.total, Msg: fmt.Sprintf("input exceeds %d bytes", s.limits.MaxBytes)}
	}
	s.buf = append(s.buf, text...)
	s.total += len(text)
	s.updateEnd()
	return nil
}

// Finish marks the end of input. It is irreversible and idempotent.
func (s *Stream) Finish() {
	s.finished = true
	s.updateEnd()
}

// Finished reports whether Finish has been called.
func (s *Stream) Finished() bool { return s.finished }

// Offset returns the absolute byte offset of the cursor.
func (s *Stream) Offset() int { return s.base + s.pos }

// Buffered returns the number of pushed bytes not yet consumed, including the
// held back tail.
func (s *Stream) Buffered() int { return len(s.buf) - s.pos }

// AtEnd reports whether the stream is finished and fully consumed.
func (s *Stream) AtEnd() bool { return s.finished && s.pos >= len(s.buf) }

// updateEnd recomputes the readable end. While unfinished, the last rune and
// any incomplete UTF-8 tail stay unreadable.
func (s *Stream) updateEnd() {
	n := len(s.buf)
	if s.finished || n == 0 {
		s.end = n
		return
	}
	i := n - 1
	for i > 0 && n-i < utf8.UTFMax && !utf8.RuneStart(s.buf[i]) {
		i--
	}
	s.end = i
}

// Compact drops the consumed prefix of the buffer. Checkpoints taken before
// Compact become invalid; call it only between top-level decode steps.
func (s *Stream) Compact() {
	if s.pos == 0 {
		return
	}
	n := copy(s.buf, s.buf[s.pos:])
	s.buf = s.buf[:n]
	s.base += s.pos
	s.end -= s.pos
	s.pos = 0
}

// Checkpoint is a saved cursor position.
type Checkpoint struct{ off int }

// Checkpoint saves the current cursor position.
func (s *Stream) Checkpoint() Checkpoint { return Checkpoint{off: s.base + s.pos} }

// Restore moves the cursor back to cp.
func (s *Stream) Restore(cp Checkpoint) {
	p := cp.off - s.base
	if p < 0 || p > len(s.buf) {
		panic("stream: checkpoint restored after Compact")
	}
	s.pos = p
}

// Since returns the text consumed since cp.
func (s *Stream) Since(cp Checkpoint) string {
	p := cp.off - s.base
	if p < 0 || p > s.pos {
		panic("stream: checkpoint is not behind the cursor")
	}
	return string(s.buf[p:s.pos])
}

func (s *Stream) errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Offset: s.Offset(), Msg: fmt.Sprintf(format, args...)}
}

// endErr is returned when a read reaches the readable end.
func (s *Stream) endErr() error {
	if s.finished {
		return s.errorf(CodeUnexpectedEnd, "unexpected end of input")
	}
	return ErrNeedMoreData
}

// IsUnexpectedEnd reports whether err signals that a finished stream ran out
// of input.
func IsUnexpectedEnd(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == CodeUnexpectedEnd
}

// PeekRune returns the next rune without consuming it.
func (s *Stream) PeekRune() (rune, error) {
	if s.pos >= s.end {
		return 0, s.endErr()
	}
	if c := s.buf[s.pos]; c < utf8.RuneSelf {
		return rune(c), nil
	}
	r, _ := utf8.DecodeRune(s.buf[s.pos:s.end])
	return r, nil
}

// ReadRune consumes and returns the next rune.
func (s *Stream) ReadRune() (rune, error) {
	if s.pos >= s.end {
		return 0, s.endErr()
	}
	if c := s.buf[s.pos]; c < utf8.RuneSelf {
		s.pos++
		return rune(c), nil
	}
	r, n := utf8.DecodeRune(s.buf[s.pos:s.end])
	s.pos += n
	return r, nil
}

// advance skips n bytes already inspected through PeekRune.
func (s *Stream) advance(n int) { s.pos += n }

// ReadLiteral consumes lit. It returns ErrNeedMoreData without consuming
// anything while the readable text is a proper prefix of lit.
func (s *Stream) ReadLiteral(lit string) error {
	avail := s.buf[s.pos:s.end]
	n := len(lit)
	if len(avail) < n {
		n = len(avail)
	}
	if string(avail[:n]) != lit[:n] {
		return s.errorf(CodeSyntax, "expected %q", lit)
	}
	if n < len(lit) {
		return s.endErr()
	}
	s.pos += len(lit)
	return nil
}

// ReadWhile consumes the longest run of runes matching pred, bounded by max
// (max <= 0 means unbounded). When the run touches the readable end of an
// unfinished stream before reaching max, nothing is consumed and
// ErrNeedMoreData is returned, since more matching runes could follow. Fewer
// than min matches is a syntax error.
func (s *Stream) ReadWhile(pred func(rune) bool, min, max int) (string, error) {
	i, count := s.pos, 0
	for i < s.end && (max <= 0 || count < max) {
		r, n := rune(s.buf[i]), 1
		if r >= utf8.RuneSelf {
			r, n = utf8.DecodeRune(s.buf[i:s.end])
		}
		if !pred(r) {
			break
		}
		i += n
		count++
	}
	if i >= s.end && (max <= 0 || count < max) && !s.finished {
		return "", ErrNeedMoreData
	}
	if count < min {
		if i >= s.end {
			return "", s.endErr()
		}
		return "", &Error{Code: CodeSyntax, Offset: s.base + i, Msg: fmt.Sprintf("expected at least %d matching characters, found %d", min, count)}
	}
	out := string(s.buf[s.pos:i])
	s.pos = i
	return out, nil
}

// ReadAvailable consumes the run of runes matching pred that is readable now
// and returns it, possibly empty. It never suspends.
func (s *Stream) ReadAvailable(pred func(rune) bool) string {
	i := s.pos
	for i < s.end {
		r, n := rune(s.buf[i]), 1
		if r >= utf8.RuneSelf {
			r, n = utf8.DecodeRune(s.buf[i:s.end])
		}
		if !pred(r) {
			break
		}
		i += n
	}
	out := string(s.buf[s.pos:i])
	s.pos = i
	return out
}

// SkipWhitespace consumes JSON insignificant whitespace.
func (s *Stream) SkipWhitespace() {
	for s.pos < s.end {
		switch s.buf[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// Kind classifies a JSON value by its first character.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// PeekKind skips whitespace and classifies the next value without consuming
// its first character.
func (s *Stream) PeekKind() (Kind, error) {
	s.SkipWhitespace()
	r, err := s.PeekRune()
	if err != nil {
		return 0, err
	}
	switch {
	case r == '{':
		return KindObject, nil
	case r == '[':
		return KindArray, nil
	case r == '"':
		return KindString, nil
	case r == '-' || (r >= '0' && r <= '9'):
		return KindNumber, nil
	case r == 't' || r == 'f':
		return KindBool, nil
	case r == 'n':
		return KindNull, nil
	default:
		return 0, s.errorf(CodeSyntax, "unexpected character %q", r)
	}
}

// expectKind is the shared prologue of typed primitives: it fails with a type
// error when the next value is not of kind want.
func (s *Stream) expectKind(want Kind) error {
	got, err := s.PeekKind()
	if err != nil {
		return err
	}
	if got != want {
		return s.errorf(CodeType, "expected %s, found %s", want, got)
	}
	return nil
}
