package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	// FormatAuto asks the decoder to sniff the format from the content.
	FormatAuto     Format = ""
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl", "n3":
		return FormatTurtle, true
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "rdfxml", "rdf", "xml", "rdf/xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// GuessFormat infers the format from a file name extension. A trailing
// compression suffix is not stripped: compressed RDF is not supported.
func GuessFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle", ".n3":
		return FormatTurtle, true
	case ".nt":
		return FormatNTriples, true
	case ".rdf", ".owl", ".xml":
		return FormatRDFXML, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// Extension returns the canonical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatTurtle:
		return ".ttl"
	case FormatNTriples:
		return ".nt"
	case FormatRDFXML:
		return ".rdf"
	case FormatJSONLD:
		return ".jsonld"
	default:
		return ""
	}
}

// MediaType returns the IANA media type for the format.
func (f Format) MediaType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatJSONLD:
		return "application/ld+json"
	default:
		return ""
	}
}
