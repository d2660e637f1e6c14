package stream

type objectPhase uint8

const (
	objectOpen objectPhase = iota
	objectFirst
	objectName
	objectColon
	objectNext
	objectClosed
)

// ObjectComponent is the caller-owned cursor over a JSON object. Next yields
// one property name at a time, positioned at the start of its value.
// Property names are decoded with the string decoder, escapes included.
//
// The zero value expects the opening brace.
type ObjectComponent struct {
	phase   objectPhase
	name    StringDecoder
	pending string
}

// Next advances to the next property value or the end of the object. When end
// is false the caller must decode exactly one value for name before calling
// Next again.
func (o *ObjectComponent) Next(s *Stream) (name string, end bool, err error) {
	for {
		switch o.phase {
		case objectOpen:
			if err := s.expectKind(KindObject); err != nil {
				return "", false, err
			}
			s.advance(1)
			o.phase = objectFirst
		case objectFirst:
			s.SkipWhitespace()
			r, err := s.PeekRune()
			if err != nil {
				return "", false, err
			}
			if r == '}' {
				s.advance(1)
				o.phase = objectClosed
				return "", true, nil
			}
			o.phase = objectName
		case objectName:
			n, err := o.name.Decode(s)
			if err != nil {
				if e, ok := AsError(err); ok && e.Code == CodeType {
					return "", false, s.errorf(CodeSyntax, "expected property name")
				}
				return "", false, err
			}
			o.pending = n
			o.phase = objectColon
		case objectColon:
			s.SkipWhitespace()
			r, err := s.PeekRune()
			if err != nil {
				return "", false, err
			}
			if r != ':' {
				return "", false, s.errorf(CodeSyntax, "expected ':' after property name, found %q", r)
			}
			s.advance(1)
			o.phase = objectNext
			return o.pending, false, nil
		case objectNext:
			s.SkipWhitespace()
			r, err := s.PeekRune()
			if err != nil {
				return "", false, err
			}
			switch r {
			case ',':
				s.advance(1)
				o.phase = objectName
			case '}':
				s.advance(1)
				o.phase = objectClosed
				return "", true, nil
			default:
				return "", false, s.errorf(CodeSyntax, "expected ',' or '}' in object, found %q", r)
			}
		default:
			return "", false, s.errorf(CodeSyntax, "object already closed")
		}
	}
}
