// Package middleware holds the framework-neutral parts of the HTTP adapters:
// request-scoped storage of decoded values and the error payload shape.
package middleware

import (
	"context"
	"errors"
	"net/http"

	streamskema "github.com/reoring/streamskema"
)

// ctxKeyDecoded is a typed context key for storing a decoded T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded value to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves a decoded value from context.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// DefaultDecodeOpt returns a recommended default for HTTP JSON boundaries:
// request bodies are capped at 1 MiB and generic values at 64 levels.
func DefaultDecodeOpt() streamskema.DecodeOpt {
	return streamskema.DecodeOpt{MaxBytes: 1 << 20, MaxDepth: 64}
}

// DecodeRequest streams the request body through s.
func DecodeRequest[T any](r *http.Request, s streamskema.Schema[T], opt streamskema.DecodeOpt) (T, error) {
	if opt == (streamskema.DecodeOpt{}) {
		opt = DefaultDecodeOpt()
	}
	return streamskema.StreamDecode(r.Context(), s, r.Body, opt)
}

// ErrorStatus maps a decode error to an HTTP status: 413 for oversized
// bodies, 400 for other Issues and 500 otherwise.
func ErrorStatus(err error) int {
	if iss, ok := streamskema.AsIssues(err); ok {
		for _, it := range iss {
			if it.Code == streamskema.CodeTruncated {
				return http.StatusRequestEntityTooLarge
			}
		}
		return http.StatusBadRequest
	}
	if errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// ErrorPayload shapes a decode error for JSON responses.
func ErrorPayload(err error) map[string]any {
	if iss, ok := streamskema.AsIssues(err); ok {
		return map[string]any{"issues": iss}
	}
	return map[string]any{"error": err.Error()}
}
