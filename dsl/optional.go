package dsl

import (
	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

const wrapperKey = "value"

// OptionalSchema represents a possibly absent W as *W.
//
// Inside a record the property is simply omitted when nil. Free-standing it
// encodes as null or the wrapped value; when the wrapped schema can itself
// produce null, the value is boxed as {"value": ...} and the outer nil is
// the empty object {}. A record property never boxes: a present null there
// is a value of the wrapped schema.
type OptionalSchema[W any] struct {
	wrapped streamskema.Schema[W]
	boxed   bool
}

// Optional wraps a schema.
func Optional[W any](s streamskema.Schema[W]) *OptionalSchema[W] {
	return &OptionalSchema[W]{wrapped: s, boxed: acceptsNull(s)}
}

// AcceptsNull reports whether some value encodes as JSON null, which holds
// unless the value is boxed.
func (o *OptionalSchema[W]) AcceptsNull() bool { return !o.boxed }

// IsAbsent reports whether v is the missing value.
func (o *OptionalSchema[W]) IsAbsent(v *W) bool { return v == nil }

func (o *OptionalSchema[W]) fieldSchema() streamskema.Schema[*W] {
	if !o.boxed {
		return o
	}
	return presentField[W]{wrapped: o.wrapped}
}

// Definition uses the ["null", type] shortcut for leaf types and oneOf
// otherwise.
func (o *OptionalSchema[W]) Definition() *js.Schema {
	inner := o.wrapped.Definition()
	if o.boxed {
		box := &js.Schema{Types: []string{"object"}, AdditionalProperties: js.False()}
		box.AddProperty(wrapperKey, inner)
		return box
	}
	if isLeaf(inner) {
		inner.Types = []string{"null", inner.Types[0]}
		return inner
	}
	return &js.Schema{OneOf: []*js.Schema{js.Type("null"), inner}}
}

func isLeaf(d *js.Schema) bool {
	if d.Bool != nil || len(d.Types) != 1 {
		return false
	}
	switch d.Types[0] {
	case "string", "integer", "number", "boolean":
		return d.Enum == nil && !d.HasConst && d.OneOf == nil
	}
	return false
}

func (o *OptionalSchema[W]) Encode(e *encode.Encoder, v *W) {
	if o.boxed {
		e.BeginObject()
		if v != nil {
			e.Key(wrapperKey)
			o.wrapped.Encode(e, *v)
		}
		e.EndObject()
		return
	}
	if v == nil {
		e.Null()
		return
	}
	o.wrapped.Encode(e, *v)
}

func (o *OptionalSchema[W]) NewDecoder() streamskema.ValueDecoder[*W] {
	if o.boxed {
		return &boxedDecoder[W]{o: o}
	}
	return &optionalDecoder[W]{o: o}
}

type optionalDecoder[W any] struct {
	o     *OptionalSchema[W]
	inner streamskema.ValueDecoder[W]
}

func (d *optionalDecoder[W]) Decode(s *stream.Stream) (*W, error) {
	if d.inner == nil {
		k, err := s.PeekKind()
		if err != nil {
			return nil, err
		}
		if k == stream.KindNull {
			return nil, stream.DecodeNull(s)
		}
		d.inner = d.o.wrapped.NewDecoder()
	}
	v, err := d.inner.Decode(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type boxedDecoder[W any] struct {
	o     *OptionalSchema[W]
	obj   stream.ObjectComponent
	inner streamskema.ValueDecoder[W]
	got   *W
}

func (d *boxedDecoder[W]) Decode(s *stream.Stream) (*W, error) {
	for {
		if d.inner != nil {
			v, err := d.inner.Decode(s)
			if err != nil {
				return nil, streamskema.Rebase(err, wrapperKey)
			}
			d.got, d.inner = &v, nil
		}
		name, end, err := d.obj.Next(s)
		if err != nil {
			return nil, err
		}
		if end {
			return d.got, nil
		}
		if name != wrapperKey {
			return nil, keyIssue(s, name, streamskema.CodeUnknownKey)
		}
		if d.got != nil {
			return nil, keyIssue(s, name, streamskema.CodeDuplicateKey)
		}
		d.inner = d.o.wrapped.NewDecoder()
	}
}

// presentField is the record property form of a boxed Optional: absence is
// the missing key, and anything present decodes through the wrapped schema.
type presentField[W any] struct {
	wrapped streamskema.Schema[W]
}

func (f presentField[W]) IsAbsent(v *W) bool { return v == nil }

func (f presentField[W]) Definition() *js.Schema { return f.wrapped.Definition() }

func (f presentField[W]) Encode(e *encode.Encoder, v *W) {
	if v == nil {
		e.Failf("dsl: absent value encoded as a present property")
		return
	}
	f.wrapped.Encode(e, *v)
}

func (f presentField[W]) NewDecoder() streamskema.ValueDecoder[*W] {
	dec := f.wrapped.NewDecoder()
	return streamskema.DecoderFunc[*W](func(s *stream.Stream) (*W, error) {
		v, err := dec.Decode(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}
