package stream

import (
	"strings"
	"unicode/utf8"
)

// StringDecoder is the resumable state of a JSON string being decoded.
//
// Plain runs are committed as soon as they are readable; escape sequences are
// consumed atomically (restored and retried when truncated). Malformed escapes
// degrade to U+FFFD instead of failing the decode.
//
// The zero value is ready to decode; the decoder resets itself after each
// completed string so it can be reused.
type StringDecoder struct {
	open bool
	buf  strings.Builder
}

// DecodeString decodes a complete string in one call. It is meant for
// callers that do not keep state across suspensions; on ErrNeedMoreData the
// cursor is restored to the opening quote.
func DecodeString(s *Stream) (string, error) {
	cp := s.Checkpoint()
	var d StringDecoder
	v, err := d.Decode(s)
	if IsNeedMoreData(err) {
		s.Restore(cp)
	}
	return v, err
}

// Decode continues decoding the string at the cursor.
func (d *StringDecoder) Decode(s *Stream) (string, error) {
	if !d.open {
		if err := s.expectKind(KindString); err != nil {
			return "", err
		}
		s.advance(1)
		d.open = true
	}
	for {
		d.buf.WriteString(s.ReadAvailable(isPlainStringRune))
		r, err := s.PeekRune()
		if err != nil {
			if IsUnexpectedEnd(err) {
				return "", s.errorf(CodeSyntax, "unterminated string")
			}
			return "", err
		}
		if r == '"' {
			s.advance(1)
			out := d.buf.String()
			d.Reset()
			return out, nil
		}
		if err := d.readEscape(s); err != nil {
			return "", err
		}
	}
}

// Reset discards any partially decoded string.
func (d *StringDecoder) Reset() {
	d.open = false
	d.buf.Reset()
}

// readEscape consumes one escape sequence starting at a backslash.
func (d *StringDecoder) readEscape(s *Stream) error {
	start := s.Checkpoint()
	s.advance(1)
	r, err := s.ReadRune()
	if err != nil {
		s.Restore(start)
		if IsUnexpectedEnd(err) {
			return s.errorf(CodeSyntax, "unterminated string")
		}
		return err
	}
	switch r {
	case '"', '\\', '/':
		d.buf.WriteRune(r)
	case 'n':
		d.buf.WriteByte('\n')
	case 't':
		d.buf.WriteByte('\t')
	case 'r':
		d.buf.WriteByte('\r')
	case 'u':
		return d.readUnicode(s, start)
	default:
		// \b, \f and unknown escapes degrade.
		d.buf.WriteRune(utf8.RuneError)
	}
	return nil
}

// readUnicode consumes the hex digits of a \u escape, pairing surrogates.
func (d *StringDecoder) readUnicode(s *Stream, start Checkpoint) error {
	hi, err := s.ReadWhile(isHexDigit, 4, 4)
	if err != nil {
		if IsNeedMoreData(err) {
			s.Restore(start)
			return err
		}
		d.buf.WriteRune(utf8.RuneError)
		return nil
	}
	unit := parseHex4(hi)
	switch {
	case isLowSurrogate(unit):
		d.buf.WriteRune(utf8.RuneError)
		return nil
	case !isHighSurrogate(unit):
		d.buf.WriteRune(unit)
		return nil
	}

	// A high surrogate must be followed immediately by another \u escape.
	next := s.Checkpoint()
	if err := s.ReadLiteral(`\u`); err != nil {
		if IsNeedMoreData(err) {
			s.Restore(start)
			return err
		}
		d.buf.WriteRune(utf8.RuneError)
		return nil
	}
	lo, err := s.ReadWhile(isHexDigit, 4, 4)
	if err != nil {
		if IsNeedMoreData(err) {
			s.Restore(start)
			return err
		}
		// Let the malformed second escape degrade on its own.
		s.Restore(next)
		d.buf.WriteRune(utf8.RuneError)
		return nil
	}
	low := parseHex4(lo)
	if !isLowSurrogate(low) {
		d.buf.WriteRune(utf8.RuneError)
		d.buf.WriteRune(utf8.RuneError)
		return nil
	}
	d.buf.WriteRune(0x10000 + (unit-0xD800)<<10 + (low - 0xDC00))
	return nil
}

func isPlainStringRune(r rune) bool { return r != '"' && r != '\\' }

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }

func isLowSurrogate(r rune) bool { return r >= 0xDC00 && r <= 0xDFFF }

func parseHex4(s string) rune {
	var v rune
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c -= 'a' - 10
		default:
			c -= 'A' - 10
		}
		v = v<<4 | c
	}
	return v
}
