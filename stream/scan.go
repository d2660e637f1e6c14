package stream

// PeekProperty looks ahead into the object at the cursor for the top-level
// property name and returns its string value without consuming anything.
// found is false when the object closes without the property.
//
// The scan restarts from the opening brace on every call, so a property that
// appears early is found before the rest of the object has arrived.
func PeekProperty(s *Stream, name string) (value string, found bool, err error) {
	cp := s.Checkpoint()
	defer s.Restore(cp)

	var obj ObjectComponent
	for {
		key, end, err := obj.Next(s)
		if err != nil {
			return "", false, err
		}
		if end {
			return "", false, nil
		}
		if key == name {
			var sd StringDecoder
			v, err := sd.Decode(s)
			if err != nil {
				return "", true, err
			}
			return v, true, nil
		}
		if _, err := NewSkipper().Decode(s); err != nil {
			return "", false, err
		}
	}
}
