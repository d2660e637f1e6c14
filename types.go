package streamskema

import "log/slog"

// DefaultChunkSize is the fragment size used when reading from an io.Reader
// and DecodeOpt.ChunkSize is zero.
const DefaultChunkSize = 4096

// DecodeOpt bundles decoding options. Functions taking options use the last
// one passed.
type DecodeOpt struct {
	MaxDepth  int // nesting limit for generic values; 0 disables
	MaxBytes  int // total input limit; 0 disables
	ChunkSize int // fragment size for reader-driven decoding
	// Logger receives debug events (suspensions, completion). Nil discards.
	Logger *slog.Logger
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.ChunkSize <= 0 {
		opt.ChunkSize = DefaultChunkSize
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	return opt
}
