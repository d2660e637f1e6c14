// Package encode provides the append-only JSON writer that schemas encode
// into. Separators are inserted automatically from the container stack, so a
// schema only states what it writes, never where commas go.
//
// Encoding is total from the caller's point of view: the first failure (for
// example a NaN float) is recorded and every later write becomes a no-op.
// Check Err once at the end.
package encode

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/reoring/streamskema/stream"
)

type container struct {
	object bool
	count  int
	keyed  bool // object only: a key was written and awaits its value
}

// Encoder accumulates compact JSON text.
type Encoder struct {
	buf   []byte
	stack []container
	err   error
}

// New returns an empty encoder.
func New() *Encoder { return &Encoder{} }

// Err returns the first error recorded, if any.
func (e *Encoder) Err() error { return e.err }

// Fail records err unless an earlier error is already recorded.
func (e *Encoder) Fail(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Failf records a formatted error.
func (e *Encoder) Failf(format string, args ...any) { e.Fail(fmt.Errorf(format, args...)) }

// Bytes returns the encoded text. The slice aliases the encoder's buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

// String returns the encoded text.
func (e *Encoder) String() string { return string(e.buf) }

// Reset clears the buffer, the container stack and the recorded error.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.stack = e.stack[:0]
	e.err = nil
}

// Depth returns the number of open containers.
func (e *Encoder) Depth() int { return len(e.stack) }

// value writes the separator owed before a value and reports whether writing
// may proceed.
func (e *Encoder) value() bool {
	if e.err != nil {
		return false
	}
	if len(e.stack) == 0 {
		return true
	}
	top := &e.stack[len(e.stack)-1]
	if top.object {
		if !top.keyed {
			e.err = errors.New("encode: object value written without a key")
			return false
		}
		top.keyed = false
		return true
	}
	if top.count > 0 {
		e.buf = append(e.buf, ',')
	}
	top.count++
	return true
}

// Key writes a property name inside an object.
func (e *Encoder) Key(name string) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].object {
		e.err = errors.New("encode: key written outside an object")
		return
	}
	top := &e.stack[len(e.stack)-1]
	if top.keyed {
		e.err = fmt.Errorf("encode: key %q follows a key without a value", name)
		return
	}
	if top.count > 0 {
		e.buf = append(e.buf, ',')
	}
	top.count++
	top.keyed = true
	e.appendString(name)
	e.buf = append(e.buf, ':')
}

// BeginObject opens an object.
func (e *Encoder) BeginObject() {
	if !e.value() {
		return
	}
	e.buf = append(e.buf, '{')
	e.stack = append(e.stack, container{object: true})
}

// EndObject closes the innermost object.
func (e *Encoder) EndObject() { e.end(true, '}') }

// BeginArray opens an array.
func (e *Encoder) BeginArray() {
	if !e.value() {
		return
	}
	e.buf = append(e.buf, '[')
	e.stack = append(e.stack, container{})
}

// EndArray closes the innermost array.
func (e *Encoder) EndArray() { e.end(false, ']') }

func (e *Encoder) end(object bool, c byte) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].object != object {
		e.err = fmt.Errorf("encode: unbalanced %q", c)
		return
	}
	if e.stack[len(e.stack)-1].keyed {
		e.err = errors.New("encode: object closed after a key without a value")
		return
	}
	e.stack = e.stack[:len(e.stack)-1]
	e.buf = append(e.buf, c)
}

// Null writes null.
func (e *Encoder) Null() {
	if e.value() {
		e.buf = append(e.buf, "null"...)
	}
}

// Bool writes a boolean.
func (e *Encoder) Bool(v bool) {
	if e.value() {
		e.buf = strconv.AppendBool(e.buf, v)
	}
}

// Str writes a string with JSON escaping.
func (e *Encoder) Str(v string) {
	if e.value() {
		e.appendString(v)
	}
}

// Int writes a signed integer.
func (e *Encoder) Int(v int64) {
	if e.value() {
		e.buf = strconv.AppendInt(e.buf, v, 10)
	}
}

// Uint writes an unsigned integer.
func (e *Encoder) Uint(v uint64) {
	if e.value() {
		e.buf = strconv.AppendUint(e.buf, v, 10)
	}
}

// Float writes a float using the shortest representation that round-trips at
// the given bit size (32 or 64). NaN and infinities cannot be represented.
func (e *Encoder) Float(v float64, bits int) {
	if e.err != nil {
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.err = fmt.Errorf("encode: unsupported float value %v", v)
		return
	}
	var (
		b   []byte
		err error
	)
	if bits == 32 {
		b, err = gojson.Marshal(float32(v))
	} else {
		b, err = gojson.Marshal(v)
	}
	if err != nil {
		e.err = err
		return
	}
	if e.value() {
		e.buf = append(e.buf, b...)
	}
}

// Number writes a decoded number literal verbatim.
func (e *Encoder) Number(n stream.Number) {
	if e.value() {
		e.buf = append(e.buf, n.String()...)
	}
}

// Decimal writes an exact decimal.
func (e *Encoder) Decimal(d decimal.Decimal) {
	if e.value() {
		e.buf = append(e.buf, d.String()...)
	}
}

// Value writes a generic JSON tree.
func (e *Encoder) Value(v stream.Value) {
	if !e.value() {
		return
	}
	out, err := v.AppendJSON(e.buf)
	if err != nil {
		e.err = err
		return
	}
	e.buf = out
}

// Raw writes pre-encoded JSON text after validating it.
func (e *Encoder) Raw(text []byte) {
	if e.err != nil {
		return
	}
	if !gojson.Valid(text) {
		e.err = fmt.Errorf("encode: invalid raw JSON %q", text)
		return
	}
	if e.value() {
		e.buf = append(e.buf, text...)
	}
}

func (e *Encoder) appendString(v string) {
	b, err := gojson.MarshalNoEscape(v)
	if err != nil {
		e.err = err
		return
	}
	e.buf = append(e.buf, b...)
}
