package dsl

import (
	"fmt"
	"reflect"
	"strconv"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	"github.com/reoring/streamskema/internal/registry"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// TaggedCase is one case of a Tagged enum: either a Variant carrying a
// payload or a payload-free Unit.
type TaggedCase[T any] struct {
	name    string
	unit    bool
	payload reflect.Type // nil for units
	def     func() *js.Schema
	match   func(v T) bool
	encode  func(e *encode.Encoder, v T)
	newStep func() registry.Step[T]
	value   func() T // units only
}

// Variant declares a case whose payload decodes through s. Values of type C
// must be assignable to T; this is checked at construction and panics
// otherwise.
func Variant[T, C any](name string, s streamskema.Schema[C]) TaggedCase[T] {
	var zero C
	if _, ok := any(zero).(T); !ok {
		panic(fmt.Sprintf("dsl: variant %q: %T does not implement %s", name, zero, typeName[T]()))
	}
	return TaggedCase[T]{
		name:    name,
		payload: typeOf[C](),
		def:     s.Definition,
		match: func(v T) bool {
			_, ok := any(v).(C)
			return ok
		},
		encode: func(e *encode.Encoder, v T) { s.Encode(e, any(v).(C)) },
		newStep: func() registry.Step[T] {
			dec := s.NewDecoder()
			return func(st *stream.Stream, target *T) error {
				c, err := dec.Decode(st)
				if err != nil {
					return err
				}
				*target = any(c).(T)
				return nil
			}
		},
	}
}

// Unit declares a case without payload that always decodes to value.
func Unit[T any](name string, value T) TaggedCase[T] {
	unitType := reflect.TypeOf(any(value))
	empty := Object[struct{}]()
	return TaggedCase[T]{
		name:  name,
		unit:  true,
		value: func() T { return value },
		def:   empty.Definition,
		match: func(v T) bool {
			if reflect.TypeOf(any(v)) != unitType {
				return false
			}
			return unitType == nil || !unitType.Comparable() || any(v) == any(value)
		},
		encode: func(e *encode.Encoder, _ T) { empty.Encode(e, struct{}{}) },
		newStep: func() registry.Step[T] {
			dec := empty.NewDecoder()
			return func(st *stream.Stream, target *T) error {
				if _, err := dec.Decode(st); err != nil {
					return err
				}
				*target = value
				return nil
			}
		},
	}
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func typeName[T any]() string { return typeOf[T]().String() }

// payloadTypes panics when two cases carry the same payload type, since
// encoding could not tell them apart.
type payloadTypes map[reflect.Type]string

func (p payloadTypes) add(name string, t reflect.Type) {
	if t == nil {
		return
	}
	if prev, dup := p[t]; dup {
		panic(fmt.Sprintf("dsl: cases %q and %q share payload type %s", prev, name, t))
	}
	p[t] = name
}

type taggedStyle uint8

const (
	styleSingle taggedStyle = iota // the only case's own schema
	styleNames                     // every case is a unit: a string enum of names
	styleKeyed                     // {"<case>": payload} with exactly one key
)

// TaggedSchema is a sum type whose JSON shape depends on its cases: a single
// case collapses to that case's schema, all-unit cases become a string enum
// of case names, and anything else is an object with exactly one key naming
// the case and holding its payload.
type TaggedSchema[T any] struct {
	cases []TaggedCase[T]
	table *registry.Table[T]
	style taggedStyle
	desc  string
}

// Tagged builds a tagged enum. It panics on duplicate or missing cases and
// on variants sharing a payload type.
func Tagged[T any](cases ...TaggedCase[T]) *TaggedSchema[T] {
	if len(cases) == 0 {
		panic("dsl: tagged enum without cases")
	}
	t := &TaggedSchema[T]{cases: cases, table: registry.New[T](), style: styleNames}
	payloads := payloadTypes{}
	for _, c := range cases {
		t.table.MustAdd(c.name, c.newStep)
		payloads.add(c.name, c.payload)
		if !c.unit {
			t.style = styleKeyed
		}
	}
	if len(cases) == 1 && !cases[0].unit {
		t.style = styleSingle
	}
	return t
}

// Describe sets the definition's description.
func (t *TaggedSchema[T]) Describe(text string) *TaggedSchema[T] { t.desc = text; return t }

func (t *TaggedSchema[T]) Definition() *js.Schema {
	var out *js.Schema
	switch t.style {
	case styleSingle:
		out = t.cases[0].def()
	case styleNames:
		out = &js.Schema{Enum: make([]any, len(t.cases))}
		for i, c := range t.cases {
			out.Enum[i] = c.name
		}
	default:
		out = &js.Schema{
			Types:                []string{"object"},
			AdditionalProperties: js.False(),
			MinProperties:        js.Int(1),
			MaxProperties:        js.Int(1),
		}
		for _, c := range t.cases {
			out.AddProperty(c.name, c.def())
		}
	}
	if t.desc != "" {
		out.Description = t.desc
	}
	return out
}

func (t *TaggedSchema[T]) caseOf(v T) (TaggedCase[T], bool) {
	for _, c := range t.cases {
		if c.match(v) {
			return c, true
		}
	}
	return TaggedCase[T]{}, false
}

func (t *TaggedSchema[T]) Encode(e *encode.Encoder, v T) {
	c, ok := t.caseOf(v)
	if !ok {
		e.Failf("dsl: %T matches no case of %s", v, typeName[T]())
		return
	}
	switch t.style {
	case styleSingle:
		c.encode(e, v)
	case styleNames:
		e.Str(c.name)
	default:
		e.BeginObject()
		e.Key(c.name)
		c.encode(e, v)
		e.EndObject()
	}
}

func (t *TaggedSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	switch t.style {
	case styleSingle:
		step := t.table.At(0).NewStep()
		return streamskema.DecoderFunc[T](func(s *stream.Stream) (T, error) {
			var out T
			err := step(s, &out)
			return out, err
		})
	case styleNames:
		return &namedCaseDecoder[T]{t: t}
	default:
		return &keyedCaseDecoder[T]{t: t}
	}
}

type namedCaseDecoder[T any] struct {
	t    *TaggedSchema[T]
	name stream.StringDecoder
}

func (d *namedCaseDecoder[T]) Decode(s *stream.Stream) (T, error) {
	var out T
	name, err := d.name.Decode(s)
	if err != nil {
		return out, err
	}
	e, ok := d.t.table.Lookup(name)
	if !ok {
		return out, streamskema.NewIssue(s, streamskema.CodeInvalidEnum, map[string]string{
			"value":    strconv.Quote(name),
			"expected": fmt.Sprintf("%q", d.t.table.Names()),
		})
	}
	return d.t.cases[e.Index].value(), nil
}

type keyedCaseDecoder[T any] struct {
	t    *TaggedSchema[T]
	obj  stream.ObjectComponent
	name string
	step registry.Step[T]
	done bool
	out  T
}

func (d *keyedCaseDecoder[T]) Decode(s *stream.Stream) (T, error) {
	var zero T
	for {
		if d.step != nil {
			if err := d.step(s, &d.out); err != nil {
				return zero, streamskema.Rebase(err, d.name)
			}
			d.step, d.done = nil, true
		}
		name, end, err := d.obj.Next(s)
		if err != nil {
			return zero, err
		}
		if end {
			if !d.done {
				return zero, streamskema.NewIssue(s, streamskema.CodeDiscriminatorMissing, map[string]string{"key": "case"})
			}
			return d.out, nil
		}
		if d.done {
			return zero, keyIssue(s, name, streamskema.CodeUnionAmbiguous)
		}
		e, ok := d.t.table.Lookup(name)
		if !ok {
			return zero, streamskema.Rebase(streamskema.NewIssue(s, streamskema.CodeDiscriminatorUnknown, map[string]string{
				"key":   "case",
				"value": strconv.Quote(name),
			}), name)
		}
		d.name = name
		d.step = e.NewStep()
	}
}
