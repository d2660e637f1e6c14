package jsonschema

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/streamskema/encode"
)

// Schema is the JSON Schema subset produced by schema definitions.
// Keywords are emitted in a fixed order and properties keep their
// declaration order, so the rendered document is stable.
type Schema struct {
	// Boolean schema (true accepts anything, false nothing). When set, every
	// other keyword is ignored.
	Bool *bool

	// Core
	Types       []string // one entry renders as a string, several as a list
	Description string
	Format      string
	Enum        []any
	Const       any
	HasConst    bool // Const is meaningful even when nil
	Default     any
	HasDefault  bool

	// Object
	Properties           []Property
	Required             []string
	AdditionalProperties *Schema
	MinProperties        *int
	MaxProperties        *int

	// Array
	PrefixItems []*Schema
	Items       *Schema
	MinItems    *int
	MaxItems    *int

	// Union
	OneOf []*Schema
}

// Property is one named entry of an object's properties.
type Property struct {
	Name   string
	Schema *Schema
}

// True returns the schema accepting any value.
func True() *Schema { b := true; return &Schema{Bool: &b} }

// False returns the schema rejecting every value.
func False() *Schema { b := false; return &Schema{Bool: &b} }

// Type returns a schema constraining the JSON type only.
func Type(types ...string) *Schema { return &Schema{Types: types} }

// Int returns a pointer to v, for the Min/Max keywords.
func Int(v int) *int { return &v }

// Property returns the schema of the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// AddProperty appends a property, replacing an existing one with that name.
func (s *Schema) AddProperty(name string, ps *Schema) {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			s.Properties[i].Schema = ps
			return
		}
	}
	s.Properties = append(s.Properties, Property{Name: name, Schema: ps})
}

// Clone returns a deep copy. Enum, Const and Default values are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Bool != nil {
		b := *s.Bool
		c.Bool = &b
	}
	c.Types = append([]string(nil), s.Types...)
	c.Enum = append([]any(nil), s.Enum...)
	c.Required = append([]string(nil), s.Required...)
	if s.Properties != nil {
		c.Properties = make([]Property, len(s.Properties))
		for i, p := range s.Properties {
			c.Properties[i] = Property{Name: p.Name, Schema: p.Schema.Clone()}
		}
	}
	c.AdditionalProperties = s.AdditionalProperties.Clone()
	c.Items = s.Items.Clone()
	c.PrefixItems = cloneList(s.PrefixItems)
	c.OneOf = cloneList(s.OneOf)
	c.MinItems, c.MaxItems = cloneInt(s.MinItems), cloneInt(s.MaxItems)
	c.MinProperties, c.MaxProperties = cloneInt(s.MinProperties), cloneInt(s.MaxProperties)
	return &c
}

func cloneList(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MarshalJSON renders the schema as compact JSON.
func (s *Schema) MarshalJSON() ([]byte, error) {
	e := encode.New()
	s.encode(e)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func (s *Schema) encode(e *encode.Encoder) {
	if s == nil {
		e.Bool(true)
		return
	}
	if s.Bool != nil {
		e.Bool(*s.Bool)
		return
	}
	e.BeginObject()
	switch len(s.Types) {
	case 0:
	case 1:
		e.Key("type")
		e.Str(s.Types[0])
	default:
		e.Key("type")
		e.BeginArray()
		for _, t := range s.Types {
			e.Str(t)
		}
		e.EndArray()
	}
	if s.Description != "" {
		e.Key("description")
		e.Str(s.Description)
	}
	if s.Format != "" {
		e.Key("format")
		e.Str(s.Format)
	}
	if s.Enum != nil {
		e.Key("enum")
		e.BeginArray()
		for _, v := range s.Enum {
			rawValue(e, v)
		}
		e.EndArray()
	}
	if s.HasConst {
		e.Key("const")
		rawValue(e, s.Const)
	}
	if s.HasDefault {
		e.Key("default")
		rawValue(e, s.Default)
	}
	if s.Properties != nil {
		e.Key("properties")
		e.BeginObject()
		for _, p := range s.Properties {
			e.Key(p.Name)
			p.Schema.encode(e)
		}
		e.EndObject()
	}
	if len(s.Required) > 0 {
		e.Key("required")
		e.BeginArray()
		for _, r := range s.Required {
			e.Str(r)
		}
		e.EndArray()
	}
	if s.AdditionalProperties != nil {
		e.Key("additionalProperties")
		s.AdditionalProperties.encode(e)
	}
	intKey(e, "minProperties", s.MinProperties)
	intKey(e, "maxProperties", s.MaxProperties)
	if s.PrefixItems != nil {
		e.Key("prefixItems")
		listValue(e, s.PrefixItems)
	}
	if s.Items != nil {
		e.Key("items")
		s.Items.encode(e)
	}
	intKey(e, "minItems", s.MinItems)
	intKey(e, "maxItems", s.MaxItems)
	if s.OneOf != nil {
		e.Key("oneOf")
		listValue(e, s.OneOf)
	}
	e.EndObject()
}

func listValue(e *encode.Encoder, list []*Schema) {
	e.BeginArray()
	for _, s := range list {
		s.encode(e)
	}
	e.EndArray()
}

func intKey(e *encode.Encoder, key string, v *int) {
	if v != nil {
		e.Key(key)
		e.Int(int64(*v))
	}
}

func rawValue(e *encode.Encoder, v any) {
	b, err := gojson.Marshal(v)
	if err != nil {
		e.Fail(fmt.Errorf("jsonschema: %w", err))
		return
	}
	e.Raw(b)
}

// MarshalYAML renders the schema as an ordered YAML mapping.
func (s *Schema) MarshalYAML() (any, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("jsonschema: empty YAML document")
	}
	clearStyle(doc.Content[0])
	return doc.Content[0], nil
}

// clearStyle switches flow collections parsed from JSON to block style.
func clearStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	if n.Kind == yaml.ScalarNode && n.Style&yaml.DoubleQuotedStyle != 0 && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// Fingerprint returns a stable hash of the rendered schema, as 16 hex digits.
func (s *Schema) Fingerprint() (string, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}
