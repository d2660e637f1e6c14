package dsl

import (
	"fmt"
	"reflect"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/encode"
	"github.com/reoring/streamskema/internal/registry"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// InternalCase is one case of an internally tagged enum.
type InternalCase[T any] struct {
	name    string
	payload reflect.Type
	build   func(discriminator string) internalBranch[T]
}

type internalBranch[T any] struct {
	def     func() *js.Schema
	match   func(v T) bool
	encode  func(e *encode.Encoder, v T)
	newStep func() registry.Step[T]
}

// InternalVariant declares a case whose fields decode through obj, with the
// discriminator property injected as a required constant equal to name.
// Values of type C must be assignable to T.
func InternalVariant[T, C any](name string, obj *ObjectSchema[C]) InternalCase[T] {
	var zero C
	if _, ok := any(zero).(T); !ok {
		panic(fmt.Sprintf("dsl: variant %q: %T does not implement %s", name, zero, typeName[T]()))
	}
	return InternalCase[T]{
		name:    name,
		payload: typeOf[C](),
		build: func(discriminator string) internalBranch[T] {
			tagged := obj.withTag(discriminator, name)
			return internalBranch[T]{
				def: tagged.Definition,
				match: func(v T) bool {
					_, ok := any(v).(C)
					return ok
				},
				encode: func(e *encode.Encoder, v T) { tagged.Encode(e, any(v).(C)) },
				newStep: func() registry.Step[T] {
					dec := tagged.NewDecoder()
					return func(s *stream.Stream, target *T) error {
						c, err := dec.Decode(s)
						if err != nil {
							return err
						}
						*target = any(c).(T)
						return nil
					}
				},
			}
		},
	}
}

// InternalSchema is a sum type encoded as an object whose discriminator
// property names the case; the other properties belong to that case.
type InternalSchema[T any] struct {
	discriminator string
	branches      []internalBranch[T]
	table         *registry.Table[T]
	desc          string
}

// Internal builds an internally tagged enum. The discriminator is read ahead
// before the rest of the object, so its position among the properties does
// not matter. It panics on duplicate case names and on cases sharing a
// payload type.
func Internal[T any](discriminator string, cases ...InternalCase[T]) *InternalSchema[T] {
	in := &InternalSchema[T]{discriminator: discriminator, table: registry.New[T]()}
	payloads := payloadTypes{}
	for _, c := range cases {
		b := c.build(discriminator)
		in.table.MustAdd(c.name, b.newStep)
		payloads.add(c.name, c.payload)
		in.branches = append(in.branches, b)
	}
	return in
}

// Describe sets the definition's description.
func (in *InternalSchema[T]) Describe(text string) *InternalSchema[T] { in.desc = text; return in }

// Definition is a oneOf whose branches pin the discriminator with const.
func (in *InternalSchema[T]) Definition() *js.Schema {
	out := &js.Schema{Description: in.desc, OneOf: make([]*js.Schema, len(in.branches))}
	for i, b := range in.branches {
		out.OneOf[i] = b.def()
	}
	return out
}

func (in *InternalSchema[T]) Encode(e *encode.Encoder, v T) {
	for _, b := range in.branches {
		if b.match(v) {
			b.encode(e, v)
			return
		}
	}
	e.Failf("dsl: %T matches no case of %s", v, typeName[T]())
}

func (in *InternalSchema[T]) NewDecoder() streamskema.ValueDecoder[T] {
	return &internalDecoder[T]{in: in}
}

type internalDecoder[T any] struct {
	in   *InternalSchema[T]
	step registry.Step[T]
	out  T
}

func (d *internalDecoder[T]) Decode(s *stream.Stream) (T, error) {
	var zero T
	if d.step == nil {
		k, err := s.PeekKind()
		if err != nil {
			return zero, err
		}
		if k != stream.KindObject {
			return zero, streamskema.NewIssue(s, streamskema.CodeInvalidType, map[string]string{"expected": "object"})
		}
		disc := d.in.discriminator
		tag, found, err := stream.PeekProperty(s, disc)
		if err != nil {
			if found {
				return zero, streamskema.Rebase(err, disc)
			}
			return zero, err
		}
		if !found {
			return zero, tagIssue(s, streamskema.CodeDiscriminatorMissing, disc, "")
		}
		e, ok := d.in.table.Lookup(tag)
		if !ok {
			return zero, tagIssue(s, streamskema.CodeDiscriminatorUnknown, disc, tag)
		}
		d.step = e.NewStep()
	}
	if err := d.step(s, &d.out); err != nil {
		return zero, err
	}
	return d.out, nil
}

// Cases returns the case names in declaration order.
func (in *InternalSchema[T]) Cases() []string { return in.table.Names() }
