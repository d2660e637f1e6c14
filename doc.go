// Package streamskema decodes JSON into native Go values incrementally, as
// the text arrives, and projects the same schemas to JSON Schema.
//
// It provides:
//
//   - Schema[T]: one definition per type covering JSON Schema export, encoding
//     and resumable decoding
//   - Decoder[T], DecodeString, DecodeChunks and DecodeFrom: drivers that feed
//     fragments into a schema's decoder and resume after every suspension
//   - A stable error model via Issues (JSON Pointer, code, message)
//   - ToolDeclaration for publishing a schema as LLM tool arguments
//
// Design policy:
//   - The low-level stream and its primitives live in stream/; concrete
//     schemas in dsl/, codecs in codec/, fragment sources in source/ and
//     the CLI under cmd/streamskema.
//   - Decoding never blocks: a decoder that runs out of input returns
//     ErrNeedMoreData and is called again after more input is pushed.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	d := streamskema.NewDecoder(argsSchema)
//	for chunk := range chunks {
//		_ = d.Push(chunk)
//		if v, err := d.Decode(); !errors.Is(err, streamskema.ErrNeedMoreData) {
//			return v, err
//		}
//	}
//	d.Finish()
//	return d.Decode()
package streamskema
