package dsl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// EnumSchema accepts one of a fixed set of primitive values.
type EnumSchema[T comparable] struct {
	cases  []T
	desc   string
	encode func(e *encode.Encoder, v T)
	decode func() streamskema.ValueDecoder[T]
	quote  func(v T) string
}

// StringEnum builds an enum over string cases. Duplicate cases panic.
func StringEnum[T ~string](cases ...T) *EnumSchema[T] {
	en := &EnumSchema[T]{
		cases:  checkCases(cases),
		encode: func(e *encode.Encoder, v T) { e.Str(string(v)) },
		quote:  func(v T) string { return strconv.Quote(string(v)) },
	}
	en.decode = func() streamskema.ValueDecoder[T] { return &stringDecoder[T]{} }
	return en
}

// IntEnum builds an enum over integer cases. Duplicate cases panic.
func IntEnum[T stream.Integer](cases ...T) *EnumSchema[T] {
	ints := intSchema[T]{}
	return &EnumSchema[T]{
		cases:  checkCases(cases),
		encode: ints.Encode,
		decode: ints.NewDecoder,
		quote:  func(v T) string { return fmt.Sprint(v) },
	}
}

func checkCases[T comparable](cases []T) []T {
	seen := make(map[T]struct{}, len(cases))
	for _, c := range cases {
		if _, dup := seen[c]; dup {
			panic(fmt.Sprintf("dsl: duplicate enum case %v", c))
		}
		seen[c] = struct{}{}
	}
	return cases
}

// Describe sets the definition's description.
func (en *EnumSchema[T]) Describe(text string) *EnumSchema[T] { en.desc = text; return en }

// Cases returns the accepted values in declaration order.
func (en *EnumSchema[T]) Cases() []T { return slices.Clone(en.cases) }

// Definition is the enum array alone; the type is implied by the literals.
func (en *EnumSchema[T]) Definition() *js.Schema {
	out := &js.Schema{Description: en.desc, Enum: make([]any, len(en.cases))}
	for i, c := range en.cases {
		out.Enum[i] = c
	}
	return out
}

// Encode writes v. Values outside the case set are recorded as an error.
func (en *EnumSchema[T]) Encode(e *encode.Encoder, v T) {
	if !slices.Contains(en.cases, v) {
		e.Failf("dsl: %s is not an enum case", en.quote(v))
		return
	}
	en.encode(e, v)
}

func (en *EnumSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	return &enumDecoder[T]{en: en, inner: en.decode()}
}

type enumDecoder[T comparable] struct {
	en    *EnumSchema[T]
	inner streamskema.ValueDecoder[T]
}

func (d *enumDecoder[T]) Decode(s *stream.Stream) (T, error) {
	v, err := d.inner.Decode(s)
	if err != nil {
		return v, err
	}
	if !slices.Contains(d.en.cases, v) {
		var zero T
		return zero, streamskema.NewIssue(s, streamskema.CodeInvalidEnum, map[string]string{
			"value":    d.en.quote(v),
			"expected": d.en.expected(),
		})
	}
	return v, nil
}

func (en *EnumSchema[T]) expected() string {
	parts := make([]string, len(en.cases))
	for i, c := range en.cases {
		parts[i] = en.quote(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
