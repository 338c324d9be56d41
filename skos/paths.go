package skos

import (
	"path/filepath"
	"strings"

	"github.com/geoknoesis/skos-go/rdf"
)

// CacheSuffix marks a path as a cache artifact rather than RDF text.
const CacheSuffix = ".dump.gz"

// IsCachePath reports whether path names a cache artifact.
func IsCachePath(path string) bool {
	return strings.HasSuffix(path, CacheSuffix)
}

// CachePath derives the cache artifact path for a Turtle file: a trailing
// ".ttl" is replaced by CacheSuffix, any other name gets it appended.
func CachePath(path string) string {
	return strings.TrimSuffix(path, ".ttl") + CacheSuffix
}

// IsRDFFile reports whether path has an extension of a supported RDF syntax.
func IsRDFFile(path string) bool {
	_, ok := rdf.GuessFormat(path)
	return ok
}

func isTurtleFile(path string) bool {
	return filepath.Ext(path) == ".ttl"
}
