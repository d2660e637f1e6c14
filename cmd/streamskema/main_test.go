package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	streamskema "github.com/reoring/streamskema"
	g "github.com/reoring/streamskema/dsl"
)

func TestDecodeCmd_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("{ \"b\": [1, 2.50], \"a\": null }\n")
	err := decodeCmd(context.Background(), []string{"--chunk", "3"}, in, &out, &errOut)
	require.NoError(t, err)
	require.Equal(t, "{\"b\":[1,2.50],\"a\":null}\n", out.String())
}

func TestDecodeCmd_YAML(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader(`{"name":"x","tags":["a","true"],"n":3,"ok":false}`)
	err := decodeCmd(context.Background(), []string{"--format", "yaml"}, in, &out, &errOut)
	require.NoError(t, err)
	require.Equal(t, "name: x\ntags:\n  - a\n  - \"true\"\nn: 3\nok: false\n", out.String())
}

func TestDecodeCmd_Verbose(t *testing.T) {
	var out, errOut bytes.Buffer
	err := decodeCmd(context.Background(), []string{"-v", "--chunk=1"}, strings.NewReader(`[true]`), &out, &errOut)
	require.NoError(t, err)
	require.Contains(t, errOut.String(), "decode suspended")
}

func TestDecodeCmd_Errors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := decodeCmd(context.Background(), []string{"--max-depth", "1"}, strings.NewReader(`[[1]]`), &out, &errOut)
	iss, ok := streamskema.AsIssues(err)
	require.True(t, ok)
	require.Equal(t, streamskema.CodeMaxDepth, iss[0].Code)

	err = decodeCmd(context.Background(), []string{"--format", "toml"}, strings.NewReader(`1`), &out, &errOut)
	require.ErrorContains(t, err, "unknown format")

	err = decodeCmd(context.Background(), []string{"a", "b"}, strings.NewReader(`1`), &out, &errOut)
	require.Error(t, err)
}

func TestFingerprintCmd_MatchesToolDeclaration(t *testing.T) {
	s := g.Array(g.Int[int]()).Min(1)
	tool, err := streamskema.ToolDeclaration[[]int]("t", "", s)
	require.NoError(t, err)
	def, err := streamskema.DefinitionJSON[[]int](s)
	require.NoError(t, err)

	var out bytes.Buffer
	// Whitespace does not change the fingerprint.
	in := strings.NewReader(" " + string(def) + "\n")
	require.NoError(t, fingerprintCmd(context.Background(), nil, in, &out))
	require.Equal(t, tool.Fingerprint+"\n", out.String())
}
