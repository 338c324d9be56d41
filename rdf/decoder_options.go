package rdf

import "context"

const (
	// DefaultMaxInputBytes caps how much of a document a decoder will buffer.
	DefaultMaxInputBytes = 256 << 20
	// DefaultMaxDepth caps nesting of blank node property lists and collections.
	DefaultMaxDepth = 256
)

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	// MaxInputBytes limits the size of a single document.
	MaxInputBytes int64
	// MaxDepth limits nesting of [ ... ] and ( ... ) in Turtle and of
	// node elements in RDF/XML.
	MaxDepth int
	// BaseIRI resolves relative IRIs when the document declares no base.
	BaseIRI string
	// Context provides cancellation for decoding work.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxInputBytes: DefaultMaxInputBytes,
		MaxDepth:      DefaultMaxDepth,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxInputBytes == 0 {
		opts.MaxInputBytes = DefaultMaxInputBytes
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return opts
}

func checkDecodeContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
