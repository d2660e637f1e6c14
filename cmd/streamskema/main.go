package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	streamskema "github.com/reoring/streamskema"
	g "github.com/reoring/streamskema/dsl"
	"github.com/reoring/streamskema/encode"
	"github.com/reoring/streamskema/stream"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "decode":
		err = decodeCmd(ctx, os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
	case "fingerprint":
		err = fingerprintCmd(ctx, os.Args[2:], os.Stdin, os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "streamskema CLI\n\nUsage:\n  streamskema decode [--chunk N] [--format json|yaml] [--max-depth N] [--max-bytes N] [-v] [file]\n  streamskema fingerprint [file]\n\nWithout a file, input is read from stdin.")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

// decodeCmd streams a JSON document through the generic value schema and
// prints it back in canonical form.
func decodeCmd(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		chunk    int
		format   string
		maxDepth int
		maxBytes int
		verbose  bool
	)
	fs.IntVar(&chunk, "chunk", streamskema.DefaultChunkSize, "read fragment size in bytes")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	fs.IntVar(&maxDepth, "max-depth", 0, "nesting limit (0 disables)")
	fs.IntVar(&maxBytes, "max-bytes", 0, "input size limit (0 disables)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log decoder events to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	opt := streamskema.DecodeOpt{ChunkSize: chunk, MaxDepth: maxDepth, MaxBytes: maxBytes}
	if verbose {
		opt.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	in, closeIn, err := openInput(fs.Args(), stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	v, err := streamskema.StreamDecode(ctx, g.Any(), in, opt)
	if err != nil {
		return err
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(valueNode(v)); err != nil {
			return err
		}
		return enc.Close()
	}
	e := encode.New()
	e.Value(v)
	if err := e.Err(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, e.String())
	return err
}

// fingerprintCmd prints the xxhash fingerprint of a document's canonical
// form. For a JSON Schema file rendered by this module it matches the
// Fingerprint of the corresponding tool declaration.
func fingerprintCmd(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("fingerprint", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, closeIn, err := openInput(fs.Args(), stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	v, err := streamskema.StreamDecode(ctx, g.Any(), in)
	if err != nil {
		return err
	}
	e := encode.New()
	e.Value(v)
	if err := e.Err(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%016x\n", xxhash.Sum64(e.Bytes()))
	return err
}

func openInput(args []string, stdin io.Reader) (io.Reader, func(), error) {
	switch len(args) {
	case 0:
		return stdin, func() {}, nil
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("expected at most one file, got %d", len(args))
	}
}

// valueNode converts a decoded value into a YAML node, keeping member order
// and number literals.
func valueNode(v stream.Value) *yaml.Node {
	switch v.Kind {
	case stream.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case stream.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v.Bool)}
	case stream.KindNumber:
		tag := "!!float"
		if v.Number.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Number.String()}
	case stream.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text}
	case stream.KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Array {
			n.Content = append(n.Content, valueNode(e))
		}
		return n
	default:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Object {
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Name}, valueNode(m.Value))
		}
		return n
	}
}
