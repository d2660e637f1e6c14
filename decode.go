package streamskema

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/reoring/streamskema/source"
	"github.com/reoring/streamskema/stream"
)

// Decoder drives one schema over one stream of fragments. It owns the stream
// and the decoding state; feed it with Push, close it with Finish and call
// Decode whenever a result may be ready.
//
// A Decoder is not safe for concurrent use.
type Decoder[T any] struct {
	s      *stream.Stream
	state  ValueDecoder[T]
	log    *slog.Logger
	value  T
	have   bool // value decoded, trailing input not yet checked
	done   bool
	err    error
	resume int
}

// NewDecoder returns a Decoder for one document.
func NewDecoder[T any](s Schema[T], opts ...DecodeOpt) *Decoder[T] {
	opt := lastOpt(opts)
	return &Decoder[T]{
		s:     stream.New(stream.Limits{MaxBytes: opt.MaxBytes, MaxDepth: opt.MaxDepth}),
		state: s.NewDecoder(),
		log:   opt.Logger,
	}
}

// Push appends a fragment of input.
func (d *Decoder[T]) Push(text string) error {
	if err := d.s.Push(text); err != nil {
		if errors.Is(err, stream.ErrFinished) {
			return err
		}
		d.fail(ToIssues(err))
		return d.err
	}
	return nil
}

// Finish marks the end of input.
func (d *Decoder[T]) Finish() { d.s.Finish() }

// Offset returns the number of bytes consumed so far.
func (d *Decoder[T]) Offset() int { return d.s.Offset() }

// Decode continues decoding. It returns ErrNeedMoreData until the document is
// complete and the input is finished; trailing non-whitespace is an error.
// Once a result or a terminal error is produced, later calls repeat it.
func (d *Decoder[T]) Decode() (T, error) {
	if d.done {
		return d.value, d.err
	}
	if !d.have {
		v, err := d.state.Decode(d.s)
		if stream.IsNeedMoreData(err) {
			d.suspend()
			return d.value, err
		}
		if err != nil {
			d.fail(ToIssues(err))
			return d.value, d.err
		}
		d.value, d.have = v, true
	}
	d.s.SkipWhitespace()
	if _, err := d.s.PeekRune(); err == nil {
		d.fail(NewIssue(d.s, CodeTrailingData, nil))
		return d.value, d.err
	} else if stream.IsNeedMoreData(err) {
		d.suspend()
		return d.value, err
	}
	d.done = true
	d.log.Debug("decode complete", "bytes", d.s.Offset(), "suspensions", d.resume)
	return d.value, nil
}

func (d *Decoder[T]) suspend() {
	d.resume++
	d.s.Compact()
	d.log.Debug("decode suspended", "offset", d.s.Offset(), "buffered", d.s.Buffered())
}

func (d *Decoder[T]) fail(err error) {
	var zero T
	d.value, d.done, d.err = zero, true, err
	d.log.Debug("decode failed", "offset", d.s.Offset(), "error", err)
}

// DecodeString decodes a complete document.
func DecodeString[T any](s Schema[T], text string, opts ...DecodeOpt) (T, error) {
	return DecodeChunks(s, []string{text}, opts...)
}

// DecodeChunks decodes a document delivered as consecutive fragments,
// resuming after each one.
func DecodeChunks[T any](s Schema[T], chunks []string, opts ...DecodeOpt) (T, error) {
	d := NewDecoder(s, opts...)
	for _, c := range chunks {
		if err := d.Push(c); err != nil {
			return d.value, err
		}
		if v, err := d.Decode(); !stream.IsNeedMoreData(err) {
			return v, err
		}
	}
	d.Finish()
	return d.Decode()
}

// DecodeFrom pulls fragments from src until the document is complete. The
// context is checked between fragments.
func DecodeFrom[T any](ctx context.Context, s Schema[T], src source.Source, opts ...DecodeOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, Issues{{Code: CodeParseError, Message: "nil schema", Offset: -1}}
	}
	d := NewDecoder(s, opts...)
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		frag, err := src.Next()
		if errors.Is(err, io.EOF) {
			d.Finish()
			return d.Decode()
		}
		if err != nil {
			return zero, ToIssues(err)
		}
		if err := d.Push(frag); err != nil {
			return zero, err
		}
		if v, err := d.Decode(); !stream.IsNeedMoreData(err) {
			return v, err
		}
	}
}

// StreamDecode decodes a document read from r in DecodeOpt.ChunkSize
// fragments.
func StreamDecode[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...DecodeOpt) (T, error) {
	return DecodeFrom(ctx, s, source.Reader(r, lastOpt(opts).ChunkSize), opts...)
}
