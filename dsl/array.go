package dsl

import (
	"strconv"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// ArraySchema decodes a JSON array into a slice, one element at a time.
type ArraySchema[E any] struct {
	elem     streamskema.Schema[E]
	min, max int // -1 when unset
	desc     string
}

// Array builds an array schema from an element schema.
func Array[E any](elem streamskema.Schema[E]) *ArraySchema[E] {
	return &ArraySchema[E]{elem: elem, min: -1, max: -1}
}

// Min requires at least n elements.
func (a *ArraySchema[E]) Min(n int) *ArraySchema[E] { a.min = n; return a }

// Max allows at most n elements. Decoding fails as soon as element n+1
// starts.
func (a *ArraySchema[E]) Max(n int) *ArraySchema[E] { a.max = n; return a }

// Describe sets the definition's description.
func (a *ArraySchema[E]) Describe(text string) *ArraySchema[E] { a.desc = text; return a }

func (a *ArraySchema[E]) Definition() *js.Schema {
	out := &js.Schema{Description: a.desc, Items: a.elem.Definition()}
	if a.min >= 0 {
		out.MinItems = js.Int(a.min)
	}
	if a.max >= 0 {
		out.MaxItems = js.Int(a.max)
	}
	return out
}

func (a *ArraySchema[E]) Encode(e *encode.Encoder, v []E) {
	e.BeginArray()
	for _, x := range v {
		a.elem.Encode(e, x)
	}
	e.EndArray()
}

func (a *ArraySchema[E]) NewDecoder() streamskema.ValueDecoder[[]E] {
	return &arrayDecoder[E]{a: a}
}

type arrayDecoder[E any] struct {
	a    *ArraySchema[E]
	arr  stream.ArrayComponent
	out  []E
	elem streamskema.ValueDecoder[E] // non-nil while an element is in progress
}

func (d *arrayDecoder[E]) Decode(s *stream.Stream) ([]E, error) {
	for {
		if d.elem != nil {
			v, err := d.elem.Decode(s)
			if err != nil {
				return nil, streamskema.RebaseIndex(err, len(d.out))
			}
			d.out = append(d.out, v)
			d.elem = nil
		}
		ev, err := d.arr.Next(s)
		if err != nil {
			return nil, err
		}
		if ev == stream.End {
			if d.a.min >= 0 && len(d.out) < d.a.min {
				return nil, streamskema.NewIssue(s, streamskema.CodeTooShort, map[string]string{"expected": ">= " + strconv.Itoa(d.a.min)})
			}
			if d.out == nil {
				d.out = []E{}
			}
			return d.out, nil
		}
		if d.a.max >= 0 && len(d.out) >= d.a.max {
			return nil, streamskema.NewIssue(s, streamskema.CodeTooLong, map[string]string{"expected": "<= " + strconv.Itoa(d.a.max)})
		}
		d.elem = d.a.elem.NewDecoder()
	}
}

// MapSchema decodes a JSON object with arbitrary keys into a map.
type MapSchema[V any] struct {
	value streamskema.Schema[V]
	desc  string
}

// Map builds a string-keyed map schema from a value schema.
func Map[V any](value streamskema.Schema[V]) *MapSchema[V] { return &MapSchema[V]{value: value} }

// Describe sets the definition's description.
func (m *MapSchema[V]) Describe(text string) *MapSchema[V] { m.desc = text; return m }

func (m *MapSchema[V]) Definition() *js.Schema {
	return &js.Schema{Types: []string{"object"}, Description: m.desc, AdditionalProperties: m.value.Definition()}
}

// Encode writes the entries in key order.
func (m *MapSchema[V]) Encode(e *encode.Encoder, v map[string]V) {
	e.BeginObject()
	for _, k := range sortedKeys(v) {
		e.Key(k)
		m.value.Encode(e, v[k])
	}
	e.EndObject()
}

func (m *MapSchema[V]) NewDecoder() streamskema.ValueDecoder[map[string]V] {
	return &mapDecoder[V]{m: m, out: map[string]V{}}
}

type mapDecoder[V any] struct {
	m     *MapSchema[V]
	obj   stream.ObjectComponent
	out   map[string]V
	key   string
	value streamskema.ValueDecoder[V]
}

func (d *mapDecoder[V]) Decode(s *stream.Stream) (map[string]V, error) {
	for {
		if d.value != nil {
			v, err := d.value.Decode(s)
			if err != nil {
				return nil, streamskema.Rebase(err, d.key)
			}
			d.out[d.key] = v
			d.value = nil
		}
		name, end, err := d.obj.Next(s)
		if err != nil {
			return nil, err
		}
		if end {
			return d.out, nil
		}
		if _, dup := d.out[name]; dup {
			return nil, keyIssue(s, name, streamskema.CodeDuplicateKey)
		}
		d.key = name
		d.value = d.m.value.NewDecoder()
	}
}
