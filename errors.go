package streamskema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/streamskema/i18n"
	"github.com/reoring/streamskema/stream"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError           = "parse_error"
	CodeInvalidType          = "invalid_type"
	CodeInvalidNumber        = "invalid_number"
	CodeNotRepresentable     = "not_representable"
	CodeUnknownKey           = "unknown_key"
	CodeDuplicateKey         = "duplicate_key"
	CodeRequired             = "required"
	CodeInvalidEnum          = "invalid_enum"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnionAmbiguous       = "union_ambiguous"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodeInvalidFormat        = "invalid_format"
	CodeTruncated            = "truncated"
	CodeMaxDepth             = "max_depth"
	CodeTrailingData         = "trailing_data"
)

// ErrNeedMoreData is returned by decoders that consumed every readable byte
// without completing a value. It is never wrapped into Issues.
var ErrNeedMoreData = stream.ErrNeedMoreData

// Issue represents a single decode error.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected names, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input (-1 when unknown).
	// Params carries structured parameters (e.g., {"key":"b"}) for i18n and
	// observability.
	Params map[string]string
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = "/"
		}
		// e.g. unknown_key at /b: unknown key
		fmt.Fprintf(b, "%s at %s", it.Code, path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes, so errors.Is/As see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds a single-issue error at the stream's cursor. The message is
// looked up through the i18n translator with params as template data.
func NewIssue(s *stream.Stream, code string, params map[string]string) Issues {
	off := int64(-1)
	if s != nil {
		off = int64(s.Offset())
	}
	return Issues{{Code: code, Message: i18n.T(code, params), Offset: off, Params: params}}
}

// streamCode maps low-level stream error codes onto Issue codes.
func streamCode(c stream.Code) string {
	switch c {
	case stream.CodeType:
		return CodeInvalidType
	case stream.CodeNumber:
		return CodeInvalidNumber
	case stream.CodeRepresentability:
		return CodeNotRepresentable
	case stream.CodeDepth:
		return CodeMaxDepth
	case stream.CodeTruncated:
		return CodeTruncated
	default:
		return CodeParseError
	}
}

// ToIssues normalizes a decode error. Suspensions pass through unchanged,
// Issues are returned as is, stream errors become a single Issue and anything
// else becomes a parse_error carrying the original as Cause.
func ToIssues(err error) error {
	if err == nil || stream.IsNeedMoreData(err) {
		return err
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	if se, ok := stream.AsError(err); ok {
		return Issues{{Code: streamCode(se.Code), Message: se.Msg, Offset: int64(se.Offset), Cause: se}}
	}
	return Issues{{Code: CodeParseError, Message: err.Error(), Offset: -1, Cause: err}}
}

// Rebase prefixes the path of every issue in err with the JSON Pointer token
// for seg, so errors raised by a child decoder point at the child.
func Rebase(err error, seg string) error {
	if err == nil || stream.IsNeedMoreData(err) {
		return err
	}
	iss, _ := AsIssues(ToIssues(err))
	out := make(Issues, len(iss))
	tok := "/" + PointerToken(seg)
	for i, it := range iss {
		it.Path = tok + it.Path
		out[i] = it
	}
	return out
}

// RebaseIndex is Rebase for an array position.
func RebaseIndex(err error, i int) error { return Rebase(err, strconv.Itoa(i)) }

// PointerToken escapes seg for use as one JSON Pointer reference token.
func PointerToken(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(seg)
}
