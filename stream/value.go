package stream

import (
	"encoding/json"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Member is one property of an object Value, in input order.
type Member struct {
	Name  string
	Value Value
}

// Value is an untyped JSON tree. Object members keep their input order and
// numbers keep their literal form.
type Value struct {
	Kind   Kind
	Bool   bool
	Number Number
	Text   string
	Array  []Value
	Object []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps n.
func NumberValue(n Number) Value { return Value{Kind: KindNumber, Number: n} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

// ArrayValue builds an array.
func ArrayValue(items ...Value) Value { return Value{Kind: KindArray, Array: items} }

// ObjectValue builds an object.
func ObjectValue(members ...Member) Value { return Value{Kind: KindObject, Object: members} }

// Get returns the last member named name of an object value.
func (v Value) Get(name string) (Value, bool) {
	for i := len(v.Object) - 1; i >= 0; i-- {
		if v.Object[i].Name == name {
			return v.Object[i].Value, true
		}
	}
	return Value{}, false
}

// Interface converts the tree into plain Go values: map[string]any, []any,
// string, bool, json.Number and nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return json.Number(v.Number.String())
	case KindString:
		return v.Text
	case KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for _, m := range v.Object {
			out[m.Name] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders the tree as compact JSON, preserving member order.
func (v Value) MarshalJSON() ([]byte, error) { return v.AppendJSON(nil) }

// AppendJSON appends the compact JSON form of v to dst.
func (v Value) AppendJSON(dst []byte) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		return strconv.AppendBool(dst, v.Bool), nil
	case KindNumber:
		return append(dst, v.Number.String()...), nil
	case KindString:
		b, err := gojson.Marshal(v.Text)
		if err != nil {
			return nil, err
		}
		return append(dst, b...), nil
	case KindArray:
		dst = append(dst, '[')
		for i, e := range v.Array {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = e.AppendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	default:
		dst = append(dst, '{')
		for i, m := range v.Object {
			if i > 0 {
				dst = append(dst, ',')
			}
			b, err := gojson.Marshal(m.Name)
			if err != nil {
				return nil, err
			}
			dst = append(append(dst, b...), ':')
			if dst, err = m.Value.AppendJSON(dst); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
}

type frame struct {
	kind    Kind
	arr     ArrayComponent
	obj     ObjectComponent
	name    string
	items   []Value
	members []Member
}

// ValueDecoder decodes an arbitrary JSON value. Nesting is tracked on an
// explicit stack rather than native recursion, so a suspension at any depth
// resumes from the saved stack.
//
// The zero value is ready to use. A ValueDecoder resets after producing a
// value and can be reused for the next one.
type ValueDecoder struct {
	stack   []frame
	pending bool
	started bool
	str     StringDecoder
	discard bool
}

// NewSkipper returns a ValueDecoder that validates and consumes a value
// without building it. The returned Value is always null.
func NewSkipper() *ValueDecoder { return &ValueDecoder{discard: true} }

// Depth returns the current nesting depth.
func (d *ValueDecoder) Depth() int { return len(d.stack) }

// Decode continues decoding the value at the cursor.
func (d *ValueDecoder) Decode(s *Stream) (Value, error) {
	if !d.started {
		d.started = true
		d.pending = true
	}
	for {
		if d.pending {
			v, opened, err := d.begin(s)
			if err != nil {
				return Value{}, err
			}
			if opened {
				continue
			}
			d.pending = false
			if out, done := d.deliver(v); done {
				return out, nil
			}
			continue
		}

		top := &d.stack[len(d.stack)-1]
		if top.kind == KindArray {
			ev, err := top.arr.Next(s)
			if err != nil {
				return Value{}, err
			}
			if ev == ElementStart {
				d.pending = true
				continue
			}
			v := ArrayValue(top.items...)
			d.stack = d.stack[:len(d.stack)-1]
			if out, done := d.deliver(v); done {
				return out, nil
			}
			continue
		}

		name, end, err := top.obj.Next(s)
		if err != nil {
			return Value{}, err
		}
		if !end {
			top.name = name
			d.pending = true
			continue
		}
		v := ObjectValue(top.members...)
		d.stack = d.stack[:len(d.stack)-1]
		if out, done := d.deliver(v); done {
			return out, nil
		}
	}
}

// begin starts the value at the cursor. Containers push a frame and report
// opened; scalars are decoded in full.
func (d *ValueDecoder) begin(s *Stream) (Value, bool, error) {
	if d.str.open {
		t, err := d.str.Decode(s)
		return StringValue(t), false, err
	}
	k, err := s.PeekKind()
	if err != nil {
		return Value{}, false, err
	}
	switch k {
	case KindArray, KindObject:
		if max := s.limits.MaxDepth; max > 0 && len(d.stack) >= max {
			return Value{}, false, s.errorf(CodeDepth, "nesting exceeds max depth %d", max)
		}
		d.stack = append(d.stack, frame{kind: k})
		d.pending = false
		return Value{}, true, nil
	case KindString:
		t, err := d.str.Decode(s)
		return StringValue(t), false, err
	case KindNumber:
		n, err := DecodeNumber(s)
		return NumberValue(n), false, err
	case KindBool:
		b, err := DecodeBool(s)
		return BoolValue(b), false, err
	default:
		return Null(), false, DecodeNull(s)
	}
}

// deliver hands a completed value to the enclosing frame. done reports that
// the root value is complete.
func (d *ValueDecoder) deliver(v Value) (Value, bool) {
	if len(d.stack) == 0 {
		d.started = false
		if d.discard {
			return Null(), true
		}
		return v, true
	}
	if d.discard {
		return Value{}, false
	}
	top := &d.stack[len(d.stack)-1]
	if top.kind == KindArray {
		top.items = append(top.items, v)
	} else {
		top.members = append(top.members, Member{Name: top.name, Value: v})
	}
	return Value{}, false
}
