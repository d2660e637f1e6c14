package dsl

import (
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	"github.com/reoring/streamskema/internal/registry"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// FieldDef is the binding of one property to a slot of T. Build one with
// Field.
type FieldDef[T any] struct {
	name       string
	desc       string
	def        func() *js.Schema
	encode     func(e *encode.Encoder, v *T) // writes key and value, nothing when absent
	newStep    func() registry.Step[T]
	optional   bool
	setDefault func(v *T)
	defaultRaw gojson.RawMessage
}

func (f *FieldDef[T]) required() bool { return !f.optional && f.setDefault == nil }

// Describe sets the property's description.
func (f *FieldDef[T]) Describe(text string) *FieldDef[T] { f.desc = text; return f }

// FieldOption configures a field holding an F.
type FieldOption[F any] func(*fieldOptions[F])

type fieldOptions[F any] struct {
	value *F
}

// Default makes the property optional: when absent, v is stored instead.
// The value is shared between decodes.
func Default[F any](v F) FieldOption[F] {
	return func(o *fieldOptions[F]) { o.value = &v }
}

// Field binds property name to the value at get(t). A field whose schema is
// Optional may be absent: it is left nil on decode and omitted on encode.
// It panics when a default value cannot be encoded.
func Field[T, F any](name string, s streamskema.Schema[F], get func(*T) *F, opts ...FieldOption[F]) *FieldDef[T] {
	var o fieldOptions[F]
	for _, opt := range opts {
		opt(&o)
	}
	if ff, ok := any(s).(fieldForm[F]); ok {
		s = ff.fieldSchema()
	}
	f := &FieldDef[T]{name: name, def: s.Definition, newStep: slotStep(s, get)}
	var absent func(*T) bool
	if a, ok := any(s).(absentable[F]); ok {
		f.optional = true
		absent = func(v *T) bool { return a.IsAbsent(*get(v)) }
	}
	f.encode = func(e *encode.Encoder, v *T) {
		if absent != nil && absent(v) {
			return
		}
		e.Key(name)
		s.Encode(e, *get(v))
	}
	if o.value != nil {
		dv := *o.value
		raw, err := streamskema.Encode(s, dv)
		if err != nil {
			panic(fmt.Sprintf("dsl: default for %q: %v", name, err))
		}
		f.defaultRaw = gojson.RawMessage(raw)
		f.setDefault = func(t *T) { *get(t) = dv }
	}
	return f
}

type injectedTag struct{ name, value string }

// ObjectSchema decodes a JSON object into the struct T. Unknown and
// duplicate properties are errors.
type ObjectSchema[T any] struct {
	fields []*FieldDef[T]
	table  *registry.Table[T]
	desc   string
	tag    *injectedTag
}

// Object builds a record schema. Duplicate property names panic.
func Object[T any](fields ...*FieldDef[T]) *ObjectSchema[T] {
	o := &ObjectSchema[T]{table: registry.New[T]()}
	for _, f := range fields {
		o.table.MustAdd(f.name, f.newStep)
		o.fields = append(o.fields, f)
	}
	return o
}

// Describe sets the definition's description.
func (o *ObjectSchema[T]) Describe(text string) *ObjectSchema[T] { o.desc = text; return o }

// withTag returns a copy that also requires property name with the constant
// string value. The tag is consumed on sight and is not a field.
func (o *ObjectSchema[T]) withTag(name, value string) *ObjectSchema[T] {
	if _, clash := o.table.Lookup(name); clash {
		panic(fmt.Sprintf("dsl: discriminator %q collides with a field", name))
	}
	c := *o
	c.tag = &injectedTag{name: name, value: value}
	return &c
}

// Definition emits type, properties in declaration order, required (only
// when non-empty) and additionalProperties false.
func (o *ObjectSchema[T]) Definition() *js.Schema {
	out := &js.Schema{Types: []string{"object"}, Description: o.desc, AdditionalProperties: js.False()}
	if o.tag != nil {
		out.AddProperty(o.tag.name, &js.Schema{Const: o.tag.value, HasConst: true})
		out.Required = append(out.Required, o.tag.name)
	}
	for _, f := range o.fields {
		p := f.def()
		if f.desc != "" {
			p.Description = f.desc
		}
		if f.setDefault != nil {
			p.Default, p.HasDefault = f.defaultRaw, true
		}
		out.AddProperty(f.name, p)
		if f.required() {
			out.Required = append(out.Required, f.name)
		}
	}
	return out
}

func (o *ObjectSchema[T]) Encode(e *encode.Encoder, v T) {
	e.BeginObject()
	if o.tag != nil {
		e.Key(o.tag.name)
		e.Str(o.tag.value)
	}
	for _, f := range o.fields {
		f.encode(e, &v)
	}
	e.EndObject()
}

func (o *ObjectSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	return &objectDecoder[T]{o: o}
}

type objectDecoder[T any] struct {
	o       *ObjectSchema[T]
	obj     stream.ObjectComponent
	out     T
	seen    registry.Seen
	name    string
	step    registry.Step[T]
	tag     *stream.StringDecoder // non-nil while the tag value is in progress
	tagSeen bool
}

func (d *objectDecoder[T]) Decode(s *stream.Stream) (T, error) {
	var zero T
	for {
		if d.step != nil {
			if err := d.step(s, &d.out); err != nil {
				return zero, streamskema.Rebase(err, d.name)
			}
			d.step = nil
		}
		if d.tag != nil {
			v, err := d.tag.Decode(s)
			if err != nil {
				return zero, streamskema.Rebase(err, d.name)
			}
			d.tag = nil
			if v != d.o.tag.value {
				return zero, tagIssue(s, streamskema.CodeDiscriminatorUnknown, d.o.tag.name, v)
			}
		}
		name, end, err := d.obj.Next(s)
		if err != nil {
			return zero, err
		}
		if end {
			return d.finish(s)
		}
		d.name = name
		if d.o.tag != nil && name == d.o.tag.name {
			if d.tagSeen {
				return zero, keyIssue(s, name, streamskema.CodeDuplicateKey)
			}
			d.tagSeen = true
			d.tag = &stream.StringDecoder{}
			continue
		}
		e, ok := d.o.table.Lookup(name)
		if !ok {
			return zero, keyIssue(s, name, streamskema.CodeUnknownKey)
		}
		if !d.seen.Mark(e.Index) {
			return zero, keyIssue(s, name, streamskema.CodeDuplicateKey)
		}
		d.step = e.NewStep()
	}
}

// finish resolves absent properties once the object has closed.
func (d *objectDecoder[T]) finish(s *stream.Stream) (T, error) {
	var iss streamskema.Issues
	if d.o.tag != nil && !d.tagSeen {
		iss = append(iss, tagIssue(s, streamskema.CodeDiscriminatorMissing, d.o.tag.name, "")...)
	}
	for i, f := range d.o.fields {
		if d.seen.Has(i) {
			continue
		}
		switch {
		case f.setDefault != nil:
			f.setDefault(&d.out)
		case f.optional:
		default:
			missing, _ := streamskema.AsIssues(keyIssue(s, f.name, streamskema.CodeRequired))
			iss = append(iss, missing...)
		}
	}
	if len(iss) > 0 {
		var zero T
		return zero, iss
	}
	return d.out, nil
}

func tagIssue(s *stream.Stream, code, name, value string) streamskema.Issues {
	err := streamskema.Rebase(streamskema.NewIssue(s, code, map[string]string{
		"key":   strconv.Quote(name),
		"value": strconv.Quote(value),
	}), name)
	iss, _ := streamskema.AsIssues(err)
	return iss
}
