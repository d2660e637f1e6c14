package stream

// ArrayEvent is the outcome of one ArrayComponent step.
type ArrayEvent uint8

const (
	// ElementStart means the caller must now decode one element.
	ElementStart ArrayEvent = iota
	// End means the closing bracket was consumed.
	End
)

type arrayPhase uint8

const (
	arrayOpen arrayPhase = iota
	arrayFirst
	arrayNext
	arrayClosed
)

// ArrayComponent is the caller-owned cursor over a JSON array. Each call to
// Next consumes whitespace and at most one structural character. On
// ErrNeedMoreData the caller re-invokes Next; no rewind is needed.
//
// The zero value expects the opening bracket.
type ArrayComponent struct {
	phase arrayPhase
	count int
}

// Count returns the number of ElementStart events produced so far.
func (a *ArrayComponent) Count() int { return a.count }

// Next advances to the next element or the end of the array. After an
// ElementStart the caller must decode exactly one element before calling
// Next again.
func (a *ArrayComponent) Next(s *Stream) (ArrayEvent, error) {
	switch a.phase {
	case arrayOpen:
		if err := s.expectKind(KindArray); err != nil {
			return 0, err
		}
		s.advance(1)
		a.phase = arrayFirst
		fallthrough
	case arrayFirst:
		s.SkipWhitespace()
		r, err := s.PeekRune()
		if err != nil {
			return 0, err
		}
		if r == ']' {
			s.advance(1)
			a.phase = arrayClosed
			return End, nil
		}
		a.phase = arrayNext
		a.count++
		return ElementStart, nil
	case arrayNext:
		s.SkipWhitespace()
		r, err := s.PeekRune()
		if err != nil {
			return 0, err
		}
		switch r {
		case ',':
			s.advance(1)
			a.count++
			return ElementStart, nil
		case ']':
			s.advance(1)
			a.phase = arrayClosed
			return End, nil
		default:
			return 0, s.errorf(CodeSyntax, "expected ',' or ']' in array, found %q", r)
		}
	default:
		return 0, s.errorf(CodeSyntax, "array already closed")
	}
}
