package dsl

import (
	"strconv"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	"github.com/reoring/streamskema/internal/registry"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// TupleElement binds one array position to a slot of T.
type TupleElement[T any] struct {
	def     func() *js.Schema
	encode  func(e *encode.Encoder, v *T)
	newStep func() registry.Step[T]
}

// Element binds the next tuple position to the value at get(t).
func Element[T, F any](s streamskema.Schema[F], get func(*T) *F) TupleElement[T] {
	return TupleElement[T]{
		def:     s.Definition,
		encode:  func(e *encode.Encoder, v *T) { s.Encode(e, *get(v)) },
		newStep: slotStep(s, get),
	}
}

// slotStep returns a step constructor that decodes one F through s and
// stores it at get(target).
func slotStep[T, F any](s streamskema.Schema[F], get func(*T) *F) func() registry.Step[T] {
	return func() registry.Step[T] {
		dec := s.NewDecoder()
		return func(st *stream.Stream, target *T) error {
			v, err := dec.Decode(st)
			if err != nil {
				return err
			}
			*get(target) = v
			return nil
		}
	}
}

// TupleSchema decodes a fixed-length JSON array whose positions have their
// own schemas.
type TupleSchema[T any] struct {
	elems []TupleElement[T]
	table *registry.Table[T]
	desc  string
}

// Tuple builds a tuple schema from positional elements.
func Tuple[T any](elems ...TupleElement[T]) *TupleSchema[T] {
	t := &TupleSchema[T]{elems: elems, table: registry.New[T]()}
	for i, e := range elems {
		t.table.MustAdd(strconv.Itoa(i), e.newStep)
	}
	return t
}

// Describe sets the definition's description.
func (t *TupleSchema[T]) Describe(text string) *TupleSchema[T] { t.desc = text; return t }

// Definition lists the positions in prefixItems and forbids extra items.
func (t *TupleSchema[T]) Definition() *js.Schema {
	out := &js.Schema{Description: t.desc, PrefixItems: make([]*js.Schema, len(t.elems)), Items: js.False()}
	for i, e := range t.elems {
		out.PrefixItems[i] = e.def()
	}
	return out
}

func (t *TupleSchema[T]) Encode(e *encode.Encoder, v T) {
	e.BeginArray()
	for _, el := range t.elems {
		el.encode(e, &v)
	}
	e.EndArray()
}

func (t *TupleSchema[T]) NewDecoder() streamskema.ValueDecoder[T] { return &tupleDecoder[T]{t: t} }

type tupleDecoder[T any] struct {
	t    *TupleSchema[T]
	arr  stream.ArrayComponent
	pos  int
	step registry.Step[T]
	out  T
}

func (d *tupleDecoder[T]) Decode(s *stream.Stream) (T, error) {
	var zero T
	n := d.t.table.Len()
	for {
		if d.step != nil {
			if err := d.step(s, &d.out); err != nil {
				return zero, streamskema.RebaseIndex(err, d.pos)
			}
			d.step = nil
			d.pos++
		}
		ev, err := d.arr.Next(s)
		if err != nil {
			return zero, err
		}
		if ev == stream.End {
			if d.pos < n {
				return zero, arityIssue(s, streamskema.CodeTooShort, n)
			}
			return d.out, nil
		}
		if d.pos >= n {
			return zero, arityIssue(s, streamskema.CodeTooLong, n)
		}
		d.step = d.t.table.At(d.pos).NewStep()
	}
}

func arityIssue(s *stream.Stream, code string, n int) error {
	return streamskema.NewIssue(s, code, map[string]string{"expected": strconv.Itoa(n)})
}

// T2 is a generic pair.
type T2[A, B any] struct {
	A A
	B B
}

// T3 is a generic triple.
type T3[A, B, C any] struct {
	A A
	B B
	C C
}

// Tuple2 builds a two-element tuple schema.
func Tuple2[A, B any](a streamskema.Schema[A], b streamskema.Schema[B]) *TupleSchema[T2[A, B]] {
	return Tuple(
		Element(a, func(t *T2[A, B]) *A { return &t.A }),
		Element(b, func(t *T2[A, B]) *B { return &t.B }),
	)
}

// Tuple3 builds a three-element tuple schema.
func Tuple3[A, B, C any](a streamskema.Schema[A], b streamskema.Schema[B], c streamskema.Schema[C]) *TupleSchema[T3[A, B, C]] {
	return Tuple(
		Element(a, func(t *T3[A, B, C]) *A { return &t.A }),
		Element(b, func(t *T3[A, B, C]) *B { return &t.B }),
		Element(c, func(t *T3[A, B, C]) *C { return &t.C }),
	)
}
