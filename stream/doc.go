// Package stream implements a resumable JSON decoding stream.
//
// A Stream is an append-only text buffer with a read cursor. Callers push
// fragments as they arrive (for example from a network read loop) and call
// Finish once no more data will come. Every decoding primitive in this package
// either:
//
//   - commits progress and returns a value,
//   - returns ErrNeedMoreData without losing committed progress, or
//   - fails with an *Error, after which the stream must not be reused.
//
// Retrying after ErrNeedMoreData resumes instead of restarting: primitives that
// cannot commit partially (numbers, literals, escape sequences) restore their
// checkpoint before suspending, and stateful decoders (StringDecoder,
// ArrayComponent, ObjectComponent, ValueDecoder) keep their position in
// caller-owned state.
//
// While the stream is not finished the last rune of the buffer is unreadable,
// since a later push could still change its meaning (an unfinished number,
// a truncated escape, an incomplete UTF-8 sequence).
//
// Nothing here is safe for concurrent use: a Stream and any in-progress
// decoder state must be owned by one call site at a time.
package stream
