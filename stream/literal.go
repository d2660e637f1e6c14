package stream

// DecodeNull consumes a JSON null.
func DecodeNull(s *Stream) error {
	if err := s.expectKind(KindNull); err != nil {
		return err
	}
	return s.ReadLiteral("null")
}

// DecodeBool consumes a JSON boolean.
func DecodeBool(s *Stream) (bool, error) {
	if err := s.expectKind(KindBool); err != nil {
		return false, err
	}
	r, _ := s.PeekRune()
	if r == 't' {
		if err := s.ReadLiteral("true"); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.ReadLiteral("false"); err != nil {
		return false, err
	}
	return false, nil
}
