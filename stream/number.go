package stream

import (
	"strings"
)

// Number is a decoded numeric literal kept as its constituent substrings, so
// it can be projected later into any native numeric type with
// type-appropriate representability checks.
type Number struct {
	// Integer is the optional minus sign followed by the integer digits.
	Integer string
	// Fraction holds the digits after the decimal point, empty when absent.
	Fraction string
	// Exponent holds the optional sign and digits after e/E, empty when absent.
	Exponent string
}

// String renders the literal in canonical JSON form.
func (n Number) String() string {
	var b strings.Builder
	b.Grow(len(n.Integer) + len(n.Fraction) + len(n.Exponent) + 2)
	b.WriteString(n.Integer)
	if n.Fraction != "" {
		b.WriteByte('.')
		b.WriteString(n.Fraction)
	}
	if n.Exponent != "" {
		b.WriteByte('e')
		b.WriteString(n.Exponent)
	}
	return b.String()
}

// IsInteger reports whether the literal has neither a fraction nor an
// exponent part.
func (n Number) IsInteger() bool { return n.Fraction == "" && n.Exponent == "" }

// Negative reports whether the literal carries a minus sign.
func (n Number) Negative() bool { return strings.HasPrefix(n.Integer, "-") }

// ParseNumber parses a complete JSON number literal.
func ParseNumber(text string) (Number, error) {
	s := New()
	if err := s.Push(text); err != nil {
		return Number{}, err
	}
	s.Finish()
	n, err := DecodeNumber(s)
	if err != nil {
		return Number{}, err
	}
	if !s.AtEnd() {
		return Number{}, s.errorf(CodeNumber, "trailing characters after number %q", text)
	}
	return n, nil
}

// DecodeNumber consumes a JSON number. While more digits could still arrive,
// it restores the cursor to the start of the literal and returns
// ErrNeedMoreData; the literal is re-scanned on resume.
func DecodeNumber(s *Stream) (Number, error) {
	if err := s.expectKind(KindNumber); err != nil {
		return Number{}, err
	}
	start := s.Checkpoint()
	n, err := scanNumber(s, start)
	if err != nil {
		s.Restore(start)
		return Number{}, err
	}
	return n, nil
}

func scanNumber(s *Stream, start Checkpoint) (Number, error) {
	var n Number
	if r, _ := s.PeekRune(); r == '-' {
		s.advance(1)
	}
	digits, err := readDigits(s, "integer")
	if err != nil {
		return n, err
	}
	if len(digits) > 1 && digits[0] == '0' {
		return n, s.errorf(CodeNumber, "leading zero in number")
	}
	n.Integer = s.Since(start)

	r, ok, err := peekOptional(s)
	if err != nil || !ok {
		return n, err
	}
	if r == '.' {
		s.advance(1)
		if n.Fraction, err = readDigits(s, "fraction"); err != nil {
			return n, err
		}
		if r, ok, err = peekOptional(s); err != nil || !ok {
			return n, err
		}
	}
	if r == 'e' || r == 'E' {
		s.advance(1)
		expStart := s.Checkpoint()
		sign, err := s.PeekRune()
		if err != nil {
			return n, numberEnd(s, err)
		}
		if sign == '+' || sign == '-' {
			s.advance(1)
		}
		if _, err := readDigits(s, "exponent"); err != nil {
			return n, err
		}
		n.Exponent = s.Since(expStart)
	}
	return n, nil
}

// peekOptional peeks at the character following a complete number part.
// ok is false when a finished stream has no more input.
func peekOptional(s *Stream) (rune, bool, error) {
	r, err := s.PeekRune()
	if err != nil {
		if IsUnexpectedEnd(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return r, true, nil
}

func readDigits(s *Stream, part string) (string, error) {
	digits, err := s.ReadWhile(isDigit, 1, 0)
	if err != nil {
		if IsNeedMoreData(err) {
			return "", err
		}
		return "", s.errorf(CodeNumber, "expected %s digits", part)
	}
	return digits, nil
}

func numberEnd(s *Stream, err error) error {
	if IsNeedMoreData(err) {
		return err
	}
	return s.errorf(CodeNumber, "unterminated number")
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
