package stream_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/streamskema/stream"
)

var valueCorpus = []string{
	`null`,
	`true`,
	`-1.25e3`,
	`"sé"`,
	`[]`,
	`{}`,
	`[1,[2,[3,[]]],{"a":{"b":[null,false]}}]`,
	`{"name":"tool","args":{"x":1,"y":[true,"😀"]},"n":null}`,
	" \n{ \"k\" : [ 1 , 2 ] , \"e\" : { } }\t",
}

func TestValueDecoder_ChunkSplitEquivalence(t *testing.T) {
	for _, text := range valueCorpus {
		whole, err := feed(t, []string{text}, (&stream.ValueDecoder{}).Decode)
		require.NoError(t, err, text)
		for _, chunks := range splits(text) {
			got, err := feed(t, chunks, (&stream.ValueDecoder{}).Decode)
			require.NoError(t, err, "%q", chunks)
			require.Equal(t, whole, got, "%q", chunks)
		}
	}
}

func TestValueDecoder_Tree(t *testing.T) {
	v, err := (&stream.ValueDecoder{}).Decode(finished(t, `{"a":[1,"x"],"b":{"c":true},"a":null}`))
	require.NoError(t, err)
	require.Equal(t, stream.KindObject, v.Kind)
	require.Len(t, v.Object, 3)

	a, ok := v.Get("a")
	require.True(t, ok)
	require.Equal(t, stream.KindNull, a.Kind, "Get returns the last duplicate")

	first := v.Object[0].Value
	require.Equal(t, stream.ArrayValue(
		stream.NumberValue(stream.Number{Integer: "1"}),
		stream.StringValue("x"),
	), first)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `{"a":[1,"x"],"b":{"c":true},"a":null}`, string(out))
}

func TestValue_Interface(t *testing.T) {
	v, err := (&stream.ValueDecoder{}).Decode(finished(t, `{"n":1.50,"l":[true,null,"s"]}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"n": json.Number("1.50"),
		"l": []any{true, nil, "s"},
	}, v.Interface())
}

func TestValueDecoder_MaxDepth(t *testing.T) {
	s := stream.New(stream.Limits{MaxDepth: 2})
	require.NoError(t, s.Push(`[[1]]`))
	s.Finish()
	_, err := (&stream.ValueDecoder{}).Decode(s)
	require.NoError(t, err)

	s = stream.New(stream.Limits{MaxDepth: 2})
	require.NoError(t, s.Push(`[[[1]]]`))
	s.Finish()
	_, err = (&stream.ValueDecoder{}).Decode(s)
	requireCode(t, err, stream.CodeDepth)
}

func TestValueDecoder_Reuse(t *testing.T) {
	s := finished(t, `[1] {"a":2}`)
	var d stream.ValueDecoder
	first, err := d.Decode(s)
	require.NoError(t, err)
	require.Equal(t, stream.KindArray, first.Kind)
	second, err := d.Decode(s)
	require.NoError(t, err)
	require.Equal(t, stream.KindObject, second.Kind)
}

func TestSkipper(t *testing.T) {
	s := finished(t, `{"deep":[[{"x":"y"}]]} 7`)
	v, err := stream.NewSkipper().Decode(s)
	require.NoError(t, err)
	require.Equal(t, stream.KindNull, v.Kind)
	n, err := stream.DecodeNumber(s)
	require.NoError(t, err)
	require.Equal(t, "7", n.String())

	_, err = stream.NewSkipper().Decode(finished(t, `[1,}`))
	requireCode(t, err, stream.CodeSyntax)
}

func TestPeekProperty(t *testing.T) {
	text := `{"radius":2.5,"meta":{"type":"nested"},"type":"circle","tail":[1,2,3]}`

	s := finished(t, text)
	v, found, err := stream.PeekProperty(s, "type")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "circle", v)
	require.Zero(t, s.Offset(), "look-ahead must not consume")

	_, found, err = stream.PeekProperty(s, "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPeekProperty_AvailableBeforeObjectCompletes(t *testing.T) {
	s := stream.New()
	require.NoError(t, s.Push(`{"type":"square","side":`))
	v, found, err := stream.PeekProperty(s, "type")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "square", v)

	_, _, err = stream.PeekProperty(s, "other")
	require.ErrorIs(t, err, stream.ErrNeedMoreData)
	require.Zero(t, s.Offset())
}

func TestPeekProperty_NonStringDiscriminator(t *testing.T) {
	_, found, err := stream.PeekProperty(finished(t, `{"type":3}`), "type")
	require.True(t, found)
	requireCode(t, err, stream.CodeType)
}
