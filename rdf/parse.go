package rdf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// Handler receives each decoded triple. Returning an error stops decoding.
type Handler func(Triple) error

// Option adjusts DecodeOptions for a single call.
type Option func(*DecodeOptions)

// OptMaxInputBytes limits the document size. Negative disables the limit.
func OptMaxInputBytes(n int64) Option {
	return func(o *DecodeOptions) { o.MaxInputBytes = n }
}

// OptMaxDepth limits structural nesting. Negative disables the limit.
func OptMaxDepth(n int) Option {
	return func(o *DecodeOptions) { o.MaxDepth = n }
}

// OptBaseIRI sets the base used for relative IRIs.
func OptBaseIRI(base string) Option {
	return func(o *DecodeOptions) { o.BaseIRI = base }
}

// OptDecodeOptions replaces all options at once, keeping the call's context.
func OptDecodeOptions(opts DecodeOptions) Option {
	return func(o *DecodeOptions) {
		ctx := o.Context
		*o = opts
		o.Context = ctx
	}
}

// sink is what decoders push into: triples and, for formats that declare
// them, prefix bindings.
type sink interface {
	triple(Triple) error
	prefix(prefix, namespace string)
}

type handlerSink struct{ handler Handler }

func (s handlerSink) triple(t Triple) error { return s.handler(t) }

func (handlerSink) prefix(string, string) {}

type graphSink struct{ graph *Graph }

func (s graphSink) triple(t Triple) error {
	s.graph.Add(t)
	return nil
}

func (s graphSink) prefix(prefix, namespace string) {
	s.graph.Namespaces().Bind(prefix, namespace)
}

// Parse decodes r and streams triples to handler. With FormatAuto the format
// is sniffed from the first bytes of r.
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler, opts ...Option) error {
	_, err := decode(ctx, r, format, handlerSink{handler: handler}, opts)
	return err
}

// ParseInto decodes r into g, binding any prefixes the document declares.
// It returns the format that was used.
func ParseInto(ctx context.Context, g *Graph, r io.Reader, format Format, opts ...Option) (Format, error) {
	return decode(ctx, r, format, graphSink{graph: g}, opts)
}

// ParseFile loads path into a new graph. With FormatAuto the format comes
// from the file extension, falling back to content sniffing.
func ParseFile(ctx context.Context, path string, format Format, opts ...Option) (*Graph, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	if format == FormatAuto {
		if guessed, ok := GuessFormat(path); ok {
			format = guessed
		}
	}
	// Relative IRIs resolve against the file itself unless the caller
	// supplies another base.
	opts = append([]Option{OptBaseIRI(fileIRI(path))}, opts...)
	g := NewGraph()
	used, err := ParseInto(ctx, g, bufio.NewReader(f), format, opts...)
	if err != nil {
		return nil, used, err
	}
	return g, used, nil
}

func decode(ctx context.Context, r io.Reader, format Format, s sink, opts []Option) (Format, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := DefaultDecodeOptions()
	for _, opt := range opts {
		opt(&options)
	}
	options.Context = ctx
	options = normalizeDecodeOptions(options)

	if format == FormatAuto {
		detected, replay, ok := sniff(r)
		if !ok {
			return FormatAuto, ErrUnsupportedFormat
		}
		format, r = detected, replay
	}
	input, err := readAllLimited(r, options.MaxInputBytes)
	if err != nil {
		return format, err
	}
	if err := checkDecodeContext(ctx); err != nil {
		return format, err
	}

	switch format {
	case FormatTurtle:
		return format, decodeTurtle(input, s, options)
	case FormatNTriples:
		return format, decodeNTriples(input, s, options)
	case FormatRDFXML:
		return format, decodeRDFXML(input, s, options)
	case FormatJSONLD:
		return format, decodeJSONLD(input, s, options)
	default:
		return format, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Serialize writes g in the given format. Only Turtle and N-Triples can be
// written.
func (g *Graph) Serialize(w io.Writer, format Format) error {
	switch format {
	case FormatTurtle:
		return encodeTurtle(w, g)
	case FormatNTriples:
		return encodeNTriples(w, g)
	default:
		return fmt.Errorf("%w: cannot serialize %q", ErrUnsupportedFormat, format)
	}
}

// fileIRI returns the file: IRI for path, or "" when it cannot be made
// absolute.
func fileIRI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// SerializeFile writes g to path, creating or truncating it.
func (g *Graph) SerializeFile(path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Serialize(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
