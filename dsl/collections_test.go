package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	streamskema "github.com/reoring/streamskema"
	g "github.com/reoring/streamskema/dsl"
)

func TestArray_DecodeAcrossSplits(t *testing.T) {
	s := g.Array(g.Int[int]())
	require.Equal(t, []int{1, 22, 333}, decodeSplits[[]int](t, s, `[1, 22 ,333]`))
	require.Equal(t, []int{}, decodeSplits[[]int](t, s, `[ ]`))
	require.Equal(t, `[1,2]`, encodeJSON[[]int](t, s, []int{1, 2}))
	require.Equal(t, `[]`, encodeJSON[[]int](t, s, nil))
}

func TestArray_ElementErrorPath(t *testing.T) {
	_, err := streamskema.DecodeString[[]string](g.Array(g.String()), `["a","b",3]`)
	requireIssue(t, err, streamskema.CodeInvalidType, "/2")
}

func TestArray_Bounds(t *testing.T) {
	s := g.Array(g.Bool()).Min(1).Max(2)
	require.Equal(t, `{"items":{"type":"boolean"},"minItems":1,"maxItems":2}`, defJSON[[]bool](t, s))

	_, err := streamskema.DecodeString[[]bool](s, `[]`)
	require.Equal(t, streamskema.CodeTooShort, firstIssue(t, err).Code)

	// The third element is rejected as soon as it starts.
	d := streamskema.NewDecoder[[]bool](s)
	require.NoError(t, d.Push(`[true,false,tr`))
	_, err = d.Decode()
	require.Equal(t, streamskema.CodeTooLong, firstIssue(t, err).Code)
}

func TestArray_NotAnArray(t *testing.T) {
	_, err := streamskema.DecodeString[[]int](g.Array(g.Int[int]()), `{"0":1}`)
	requireIssue(t, err, streamskema.CodeInvalidType, "")
}

func TestMap(t *testing.T) {
	s := g.Map(g.Float[float64]()).Describe("prices")
	v := decodeSplits[map[string]float64](t, s, `{"b":1.5,"a/x":2}`)
	require.Equal(t, map[string]float64{"b": 1.5, "a/x": 2}, v)
	require.Equal(t, `{"a/x":2,"b":1.5}`, encodeJSON[map[string]float64](t, s, v))
	require.Equal(t, `{"type":"object","description":"prices","additionalProperties":{"type":"number"}}`, defJSON[map[string]float64](t, s))

	_, err := streamskema.DecodeString[map[string]float64](s, `{"a/x":"no"}`)
	requireIssue(t, err, streamskema.CodeInvalidType, "/a~1x")

	_, err = streamskema.DecodeString[map[string]float64](s, `{"k":1,"k":2}`)
	requireIssue(t, err, streamskema.CodeDuplicateKey, "/k")
}

type triple = g.T3[string, int, bool]

func TestTuple3(t *testing.T) {
	s := g.Tuple3(g.String(), g.Int[int](), g.Bool())
	v := decodeSplits[triple](t, s, `["a", 1, true]`)
	require.Equal(t, triple{A: "a", B: 1, C: true}, v)
	require.Equal(t, `["a",1,true]`, encodeJSON[triple](t, s, v))
	require.Equal(t,
		`{"prefixItems":[{"type":"string"},{"type":"integer"},{"type":"boolean"}],"items":false}`,
		defJSON[triple](t, s))
}

func TestTuple3_Arity(t *testing.T) {
	s := g.Tuple3(g.String(), g.Int[int](), g.Bool())

	_, err := streamskema.DecodeString[triple](s, `["a",1]`)
	it := firstIssue(t, err)
	require.Equal(t, streamskema.CodeTooShort, it.Code)
	require.Equal(t, "3", it.Params["expected"])

	_, err = streamskema.DecodeString[triple](s, `["a",1,true,4]`)
	it = firstIssue(t, err)
	require.Equal(t, streamskema.CodeTooLong, it.Code)
	require.Equal(t, "3", it.Params["expected"])

	_, err = streamskema.DecodeString[triple](s, `["a","1",true]`)
	requireIssue(t, err, streamskema.CodeInvalidType, "/1")
}

type point struct{ X, Y float64 }

func TestTuple_CustomStruct(t *testing.T) {
	s := g.Tuple(
		g.Element(g.Float[float64](), func(p *point) *float64 { return &p.X }),
		g.Element(g.Float[float64](), func(p *point) *float64 { return &p.Y }),
	).Describe("x, y")
	require.Equal(t, point{X: 1.5, Y: -2}, decodeSplits[point](t, s, `[1.5,-2]`))
	require.Equal(t, `[1.5,-2]`, encodeJSON[point](t, s, point{X: 1.5, Y: -2}))
}

func TestTuple2_InArray(t *testing.T) {
	s := g.Array(g.Tuple2(g.String(), g.Int[int]()))
	v := decodeSplits[[]g.T2[string, int]](t, s, `[["a",1],["b",2]]`)
	require.Equal(t, []g.T2[string, int]{{A: "a", B: 1}, {A: "b", B: 2}}, v)
}
