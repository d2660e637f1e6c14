// Package codec adapts schemas between a wire representation and a domain
// type.
package codec

import (
	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// TransformSchema decodes through a wire schema A and converts the result to
// the domain type B. Encoding converts back and writes through A.
type TransformSchema[A, B any] struct {
	in     streamskema.Schema[A]
	decode func(A) (B, error)
	encode func(B) (A, error)
	format string
	desc   string
}

// Transform builds a schema for B on top of the wire schema in. A decode
// conversion error is reported as invalid_format; an encode conversion error
// is recorded on the encoder.
func Transform[A, B any](in streamskema.Schema[A], decode func(A) (B, error), encode func(B) (A, error)) *TransformSchema[A, B] {
	return &TransformSchema[A, B]{in: in, decode: decode, encode: encode}
}

// Format sets the definition's format keyword.
func (t *TransformSchema[A, B]) Format(name string) *TransformSchema[A, B] { t.format = name; return t }

// Describe sets the definition's description.
func (t *TransformSchema[A, B]) Describe(text string) *TransformSchema[A, B] { t.desc = text; return t }

func (t *TransformSchema[A, B]) Definition() *js.Schema {
	d := t.in.Definition()
	if t.format != "" {
		d.Format = t.format
	}
	if t.desc != "" {
		d.Description = t.desc
	}
	return d
}

// AcceptsNull reports whether the wire schema can encode null.
func (t *TransformSchema[A, B]) AcceptsNull() bool {
	n, ok := t.in.(interface{ AcceptsNull() bool })
	return ok && n.AcceptsNull()
}

// IsAbsent reports whether v converts to a wire value that stands for an
// absent record property.
func (t *TransformSchema[A, B]) IsAbsent(v B) bool {
	a, ok := t.in.(interface{ IsAbsent(v A) bool })
	if !ok {
		return false
	}
	w, err := t.encode(v)
	return err == nil && a.IsAbsent(w)
}

func (t *TransformSchema[A, B]) Encode(e *encode.Encoder, v B) {
	a, err := t.encode(v)
	if err != nil {
		e.Fail(err)
		return
	}
	t.in.Encode(e, a)
}

func (t *TransformSchema[A, B]) NewDecoder() streamskema.ValueDecoder[B] {
	return &transformDecoder[A, B]{t: t, inner: t.in.NewDecoder(), start: -1}
}

type transformDecoder[A, B any] struct {
	t     *TransformSchema[A, B]
	inner streamskema.ValueDecoder[A]
	start int
}

func (d *transformDecoder[A, B]) Decode(s *stream.Stream) (B, error) {
	var zero B
	if d.start < 0 {
		s.SkipWhitespace()
		d.start = s.Offset()
	}
	a, err := d.inner.Decode(s)
	if err != nil {
		return zero, err
	}
	b, err := d.t.decode(a)
	if err != nil {
		format := d.t.format
		if format == "" {
			format = "value"
		}
		return zero, streamskema.Issues{{
			Code:    streamskema.CodeInvalidFormat,
			Message: err.Error(),
			Hint:    format,
			Cause:   err,
			Offset:  int64(d.start),
			Params:  map[string]string{"format": format},
		}}
	}
	return b, nil
}
