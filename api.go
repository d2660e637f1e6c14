package streamskema

import (
	gojson "github.com/goccy/go-json"

	"github.com/reoring/streamskema/encode"
	js "github.com/reoring/streamskema/jsonschema"
	"github.com/reoring/streamskema/stream"
)

// Schema ties together the three faces of one native type: its JSON Schema
// definition, its encoder and a factory for resumable decoders.
type Schema[T any] interface {
	// Definition projects the schema into a JSON Schema document. Each call
	// returns a fresh tree the caller may modify.
	Definition() *js.Schema
	// Encode writes v. Encoding cannot fail for well-formed values; problems
	// such as non-finite floats are recorded on the encoder.
	Encode(e *encode.Encoder, v T)
	// NewDecoder returns fresh decoding state for one value.
	NewDecoder() ValueDecoder[T]
}

// ValueDecoder is the resumable decoding state of one value. Decode returns
// the value, ErrNeedMoreData (call again after pushing more input) or a
// terminal error. After a terminal error the state must be discarded.
type ValueDecoder[T any] interface {
	Decode(s *stream.Stream) (T, error)
}

// DecoderFunc adapts a stateless decode function to ValueDecoder. The function
// must leave the cursor where it can retry when it returns ErrNeedMoreData.
type DecoderFunc[T any] func(s *stream.Stream) (T, error)

// Decode calls f.
func (f DecoderFunc[T]) Decode(s *stream.Stream) (T, error) { return f(s) }

// Encode renders v as compact JSON.
func Encode[T any](s Schema[T], v T) ([]byte, error) {
	e := encode.New()
	s.Encode(e, v)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// DefinitionJSON renders the schema definition as compact JSON.
func DefinitionJSON[T any](s Schema[T]) ([]byte, error) {
	return s.Definition().MarshalJSON()
}

// Tool is a tool declaration for an LLM tool-calling API: a named function
// whose arguments are described by a JSON Schema.
type Tool struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	InputSchema *js.Schema `json:"input_schema" yaml:"input_schema"`
	// Fingerprint identifies the input schema; it changes whenever the
	// rendered definition changes.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// MarshalJSON renders the declaration with goccy/go-json.
func (t Tool) MarshalJSON() ([]byte, error) {
	type plain Tool
	return gojson.Marshal(plain(t))
}

// ToolDeclaration builds the declaration of a tool whose arguments decode
// through s.
func ToolDeclaration[T any](name, description string, s Schema[T]) (Tool, error) {
	def := s.Definition()
	fp, err := def.Fingerprint()
	if err != nil {
		return Tool{}, err
	}
	return Tool{Name: name, Description: description, InputSchema: def, Fingerprint: fp}, nil
}

// SafeDecode decodes a complete document, returning (zero, false) on error.
func SafeDecode[T any](s Schema[T], text string, opts ...DecodeOpt) (T, bool) {
	v, err := DecodeString(s, text, opts...)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Is reports whether text is a complete document that decodes through s.
func Is[T any](s Schema[T], text string, opts ...DecodeOpt) bool {
	_, ok := SafeDecode(s, text, opts...)
	return ok
}
