package streamskema_test

import (
	"errors"
	"strings"
	"testing"

	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/i18n"
	"github.com/reoring/streamskema/stream"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := streamskema.Issues{
		{Path: "/a", Code: streamskema.CodeInvalidType, Message: "invalid type"},
		{Path: "/b", Code: streamskema.CodeUnknownKey},
		{Path: "", Code: streamskema.CodeTooShort},
		{Path: "/d", Code: streamskema.CodeTooLong},
	}
	got := iss.Error()
	want := "invalid_type at /a: invalid type; unknown_key at /b; too_short at /; ... (total 4)"
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestRebase_BuildsPointerPaths(t *testing.T) {
	var err error = streamskema.Issues{{Path: "", Code: streamskema.CodeRequired}}
	err = streamskema.Rebase(err, "qty")
	err = streamskema.RebaseIndex(err, 3)
	err = streamskema.Rebase(err, "a/b~c")
	iss, ok := streamskema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "/a~1b~0c/3/qty" {
		t.Fatalf("path = %q", iss[0].Path)
	}
}

func TestRebase_PassesSuspension(t *testing.T) {
	if err := streamskema.Rebase(stream.ErrNeedMoreData, "x"); !errors.Is(err, streamskema.ErrNeedMoreData) {
		t.Fatalf("suspension must pass through, got %v", err)
	}
	if streamskema.Rebase(nil, "x") != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestToIssues_MapsStreamCodes(t *testing.T) {
	cases := map[stream.Code]string{
		stream.CodeType:             streamskema.CodeInvalidType,
		stream.CodeNumber:           streamskema.CodeInvalidNumber,
		stream.CodeRepresentability: streamskema.CodeNotRepresentable,
		stream.CodeDepth:            streamskema.CodeMaxDepth,
		stream.CodeTruncated:        streamskema.CodeTruncated,
		stream.CodeSyntax:           streamskema.CodeParseError,
		stream.CodeUnexpectedEnd:    streamskema.CodeParseError,
	}
	for code, want := range cases {
		src := &stream.Error{Code: code, Offset: 7, Msg: "m"}
		iss, ok := streamskema.AsIssues(streamskema.ToIssues(src))
		if !ok || len(iss) != 1 {
			t.Fatalf("%v: expected one issue", code)
		}
		if iss[0].Code != want || iss[0].Offset != 7 {
			t.Fatalf("%v: got %+v", code, iss[0])
		}
		var se *stream.Error
		if !errors.As(iss, &se) || se != src {
			t.Fatalf("%v: cause not reachable through errors.As", code)
		}
	}
}

func TestToIssues_ForeignError(t *testing.T) {
	boom := errors.New("boom")
	err := streamskema.ToIssues(boom)
	iss, ok := streamskema.AsIssues(err)
	if !ok || iss[0].Code != streamskema.CodeParseError || iss[0].Offset != -1 {
		t.Fatalf("unexpected %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause lost")
	}
}

func TestNewIssue_TranslatesMessage(t *testing.T) {
	iss := streamskema.NewIssue(nil, streamskema.CodeUnknownKey, map[string]string{"key": `"b"`})
	if iss[0].Message != `unknown key "b"` || iss[0].Offset != -1 {
		t.Fatalf("unexpected %+v", iss[0])
	}

	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	iss = streamskema.NewIssue(nil, streamskema.CodeUnknownKey, map[string]string{"key": `"b"`})
	if !strings.Contains(iss[0].Message, `"b"`) || strings.HasPrefix(iss[0].Message, "unknown") {
		t.Fatalf("expected japanese message, got %q", iss[0].Message)
	}
}
