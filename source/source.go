// Package source provides fragment sources for DecodeFrom. A source hands out
// the input one fragment at a time, the way text arrives from a network
// stream or a model's token output.
package source

import (
	"errors"
	"io"
)

// Source yields consecutive fragments of one document. Next returns io.EOF
// after the last fragment. Fragment boundaries are arbitrary and may split
// tokens or multi-byte characters.
type Source interface {
	Next() (string, error)
}

// Func adapts a function to Source.
type Func func() (string, error)

// Next calls f.
func (f Func) Next() (string, error) { return f() }

type chunkList struct {
	chunks []string
	i      int
}

// Strings returns a source yielding chunks in order.
func Strings(chunks ...string) Source { return &chunkList{chunks: chunks} }

func (s *chunkList) Next() (string, error) {
	if s.i >= len(s.chunks) {
		return "", io.EOF
	}
	c := s.chunks[s.i]
	s.i++
	return c, nil
}

// Bytes returns a source cutting b into fragments of at most size bytes.
func Bytes(b []byte, size int) Source {
	if size <= 0 {
		size = len(b)
	}
	var chunks []string
	for len(b) > 0 {
		n := min(size, len(b))
		chunks = append(chunks, string(b[:n]))
		b = b[n:]
	}
	return Strings(chunks...)
}

type reader struct {
	r   io.Reader
	buf []byte
	err error
}

// Reader returns a source reading fragments of at most size bytes from r.
func Reader(r io.Reader, size int) Source {
	if size <= 0 {
		size = 4096
	}
	return &reader{r: r, buf: make([]byte, size)}
}

func (s *reader) Next() (string, error) {
	for s.err == nil {
		n, err := s.r.Read(s.buf)
		s.err = err
		if n > 0 {
			return string(s.buf[:n]), nil
		}
	}
	if errors.Is(s.err, io.EOF) {
		return "", io.EOF
	}
	return "", s.err
}
