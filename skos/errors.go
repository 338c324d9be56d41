package skos

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/skos-go/rdf"
)

// ErrorCode classifies vocabulary errors for programmatic handling.
type ErrorCode string

const (
	// ErrCodeParse indicates RDF input that could not be recognized or parsed.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeCacheLoad indicates a missing or corrupt cache artifact.
	ErrCodeCacheLoad ErrorCode = "CACHE_LOAD_ERROR"
	// ErrCodeSerialization indicates a destination that could not be written.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
	// ErrCodeUnknown is returned for errors not produced by this package.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

// ParseError reports RDF input that could not be loaded.
type ParseError struct {
	Path   string     // Source file
	Format rdf.Format // Format attempted, empty if undetermined
	Err    error      // Underlying error, often *rdf.ParseError
}

func (e *ParseError) Error() string {
	if e.Format == rdf.FormatAuto {
		return fmt.Sprintf("skos: parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("skos: parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CacheLoadError reports a cache artifact that could not be loaded. There is
// no fallback to the RDF source.
type CacheLoadError struct {
	Path string
	Err  error
}

func (e *CacheLoadError) Error() string {
	return fmt.Sprintf("skos: load cache %s: %v", e.Path, e.Err)
}

func (e *CacheLoadError) Unwrap() error { return e.Err }

// SerializationError reports a Turtle file or cache artifact that could not
// be written.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("skos: write %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Code returns the error code for err. It returns "" for nil.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var (
		parseErr *ParseError
		cacheErr *CacheLoadError
		serErr   *SerializationError
	)
	switch {
	case errors.As(err, &parseErr):
		return ErrCodeParse
	case errors.As(err, &cacheErr):
		return ErrCodeCacheLoad
	case errors.As(err, &serErr):
		return ErrCodeSerialization
	default:
		return ErrCodeUnknown
	}
}
