package dsl

import (
	"strconv"
	"unsafe"

	"github.com/shopspring/decimal"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// String returns the string schema.
func String() streamskema.Schema[string] { return stringSchema[string]{} }

// StringOf returns a string schema projected to a domain type with an
// underlying string.
func StringOf[T ~string]() streamskema.Schema[T] { return stringSchema[T]{} }

type stringSchema[T ~string] struct{}

func (stringSchema[T]) Definition() *js.Schema { return js.Type("string") }

func (stringSchema[T]) Encode(e *encode.Encoder, v T) { e.Str(string(v)) }

func (stringSchema[T]) NewDecoder() streamskema.ValueDecoder[T] { return &stringDecoder[T]{} }

// stringDecoder keeps the committed prefix of a long string across
// suspensions instead of rescanning it.
type stringDecoder[T ~string] struct{ d stream.StringDecoder }

func (d *stringDecoder[T]) Decode(s *stream.Stream) (T, error) {
	v, err := d.d.Decode(s)
	return T(v), err
}

// Bool returns the boolean schema.
func Bool() streamskema.Schema[bool] { return boolSchema{} }

type boolSchema struct{}

func (boolSchema) Definition() *js.Schema { return js.Type("boolean") }

func (boolSchema) Encode(e *encode.Encoder, v bool) { e.Bool(v) }

func (boolSchema) NewDecoder() streamskema.ValueDecoder[bool] {
	return streamskema.DecoderFunc[bool](stream.DecodeBool)
}

// Int returns the schema of a fixed-width integer type. Literals that do not
// fit T, or that carry a fraction or exponent, fail with not_representable.
func Int[T stream.Integer]() streamskema.Schema[T] { return intSchema[T]{} }

type intSchema[T stream.Integer] struct{}

func (intSchema[T]) Definition() *js.Schema { return js.Type("integer") }

func (intSchema[T]) Encode(e *encode.Encoder, v T) {
	var zero T
	if ^zero < 0 {
		e.Int(int64(v))
		return
	}
	e.Uint(uint64(v))
}

func (intSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	return streamskema.DecoderFunc[T](func(s *stream.Stream) (T, error) {
		return projectNumber(s, stream.AsInt[T])
	})
}

// Float returns the schema of a binary floating point type.
func Float[T stream.Float]() streamskema.Schema[T] { return floatSchema[T]{} }

type floatSchema[T stream.Float] struct{}

func (floatSchema[T]) Definition() *js.Schema { return js.Type("number") }

func (floatSchema[T]) Encode(e *encode.Encoder, v T) {
	var zero T
	e.Float(float64(v), int(unsafe.Sizeof(zero))*8)
}

func (floatSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	return streamskema.DecoderFunc[T](func(s *stream.Stream) (T, error) {
		return projectNumber(s, stream.AsFloat[T])
	})
}

// Decimal returns an exact decimal number schema.
func Decimal() streamskema.Schema[decimal.Decimal] { return decimalSchema{} }

type decimalSchema struct{}

func (decimalSchema) Definition() *js.Schema { return js.Type("number") }

func (decimalSchema) Encode(e *encode.Encoder, v decimal.Decimal) { e.Decimal(v) }

func (decimalSchema) NewDecoder() streamskema.ValueDecoder[decimal.Decimal] {
	return streamskema.DecoderFunc[decimal.Decimal](func(s *stream.Stream) (decimal.Decimal, error) {
		return projectNumber(s, stream.Number.Decimal)
	})
}

// Number returns a schema keeping the number literal as decoded, for callers
// that pick the projection later.
func Number() streamskema.Schema[stream.Number] { return numberSchema{} }

type numberSchema struct{}

func (numberSchema) Definition() *js.Schema { return js.Type("number") }

func (numberSchema) Encode(e *encode.Encoder, v stream.Number) { e.Number(v) }

func (numberSchema) NewDecoder() streamskema.ValueDecoder[stream.Number] {
	return streamskema.DecoderFunc[stream.Number](stream.DecodeNumber)
}

// Any returns the schema accepting every JSON value. Its definition is the
// empty schema.
func Any() streamskema.Schema[stream.Value] { return anySchema{} }

type anySchema struct{}

func (anySchema) Definition() *js.Schema { return &js.Schema{} }

func (anySchema) Encode(e *encode.Encoder, v stream.Value) { e.Value(v) }

func (anySchema) NewDecoder() streamskema.ValueDecoder[stream.Value] {
	return &stream.ValueDecoder{}
}

func (anySchema) AcceptsNull() bool { return true }

// Const returns a schema accepting exactly the string value.
func Const(value string) streamskema.Schema[string] { return constSchema{value: value} }

type constSchema struct{ value string }

func (c constSchema) Definition() *js.Schema { return &js.Schema{Const: c.value, HasConst: true} }

func (c constSchema) Encode(e *encode.Encoder, _ string) { e.Str(c.value) }

func (c constSchema) NewDecoder() streamskema.ValueDecoder[string] {
	var d stream.StringDecoder
	return streamskema.DecoderFunc[string](func(s *stream.Stream) (string, error) {
		v, err := d.Decode(s)
		if err != nil {
			return "", err
		}
		if v != c.value {
			return "", streamskema.NewIssue(s, streamskema.CodeInvalidEnum, map[string]string{
				"value":    strconv.Quote(v),
				"expected": strconv.Quote(c.value),
			})
		}
		return v, nil
	})
}

// projectNumber decodes a number literal and projects it. Projection errors
// are reported at the literal's start.
func projectNumber[V any](s *stream.Stream, project func(stream.Number) (V, error)) (V, error) {
	var zero V
	s.SkipWhitespace()
	start := s.Offset()
	n, err := stream.DecodeNumber(s)
	if err != nil {
		return zero, err
	}
	v, err := project(n)
	if err != nil {
		if se, ok := stream.AsError(err); ok {
			se.Offset = start
		}
		return zero, err
	}
	return v, nil
}
