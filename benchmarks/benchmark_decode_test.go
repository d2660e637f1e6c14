package benchmarks_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	streamskema "github.com/reoring/streamskema"
	g "github.com/reoring/streamskema/dsl"
)

type item struct {
	ID     string
	Name   string
	Age    int
	Active bool
	Tags   []string
}

func itemsSchema() *g.ArraySchema[item] {
	return g.Array[item](g.Object(
		g.Field("id", g.String(), func(v *item) *string { return &v.ID }),
		g.Field("name", g.String(), func(v *item) *string { return &v.Name }),
		g.Field("age", g.Int[int](), func(v *item) *int { return &v.Age }),
		g.Field("active", g.Bool(), func(v *item) *bool { return &v.Active }),
		g.Field("tags", g.Array(g.String()), func(v *item) *[]string { return &v.Tags }),
	))
}

func generateItems(n int) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"id":"obj_`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","name":"né `)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","age":`)
		buf.WriteString(strconv.Itoa(i % 100))
		buf.WriteString(`,"active":`)
		buf.WriteString(strconv.FormatBool(i%2 == 0))
		buf.WriteString(`,"tags":["a","b"]}`)
	}
	buf.WriteByte(']')
	return buf.String()
}

func split(text string, size int) []string {
	var out []string
	for len(text) > 0 {
		n := min(size, len(text))
		out = append(out, text[:n])
		text = text[n:]
	}
	return out
}

const hugeN = 10000

func benchmarkChunked(b *testing.B, size int) {
	s := itemsSchema()
	data := generateItems(hugeN)
	frags := split(data, size)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := streamskema.DecodeChunks[[]item](s, frags)
		if err != nil {
			b.Fatal(err)
		}
		if len(v) != hugeN {
			b.Fatalf("got %d items", len(v))
		}
	}
}

func Benchmark_Decode_HugeArray_Whole(b *testing.B)     { benchmarkChunked(b, 1<<30) }
func Benchmark_Decode_HugeArray_Chunk4096(b *testing.B) { benchmarkChunked(b, 4096) }
func Benchmark_Decode_HugeArray_Chunk64(b *testing.B)   { benchmarkChunked(b, 64) }

// Token-sized fragments, the typical delivery of model output.
func Benchmark_Decode_HugeArray_Chunk4(b *testing.B) { benchmarkChunked(b, 4) }

func Benchmark_StreamDecode_HugeArray_Reader(b *testing.B) {
	s := itemsSchema()
	data := generateItems(hugeN)
	ctx := context.Background()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := streamskema.StreamDecode[[]item](ctx, s, strings.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Encode_HugeArray(b *testing.B) {
	s := itemsSchema()
	v, err := streamskema.DecodeString[[]item](s, generateItems(hugeN))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := streamskema.Encode[[]item](s, v); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGeneratedItemsDecode(t *testing.T) {
	v, err := streamskema.DecodeChunks[[]item](itemsSchema(), split(generateItems(3), 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 3 || v[2].Name != "né 2" || v[1].Active || v[0].Tags[1] != "b" {
		t.Fatalf("unexpected %+v", v)
	}
}
