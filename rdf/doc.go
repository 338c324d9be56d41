// Package rdf provides an in-memory RDF graph with parsers and serializers.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The package is deliberately small:
//   - Model: IRI, BlankNode and Literal terms, and Triple. All are comparable
//     values usable as map keys.
//   - Graph: a set of triples indexed by subject and predicate, iterated in
//     insertion order through iter.Seq.
//   - NamespaceManager: prefix bindings and QName compaction.
//   - Parse, ParseInto and ParseFile: decoders for Turtle, N-Triples,
//     RDF/XML and JSON-LD (via json-gold).
//   - Graph.Serialize: Turtle and N-Triples output.
//
// Example (loading a file):
//
//	g, format, err := rdf.ParseFile(ctx, "vocab.ttl", rdf.FormatAuto)
//	if err != nil {
//	    // handle error
//	}
//	for s := range g.Subjects(rdf.RDFType, rdf.SKOSConcept) {
//	    // process s
//	}
//
// With FormatAuto the format is taken from the file extension, then from
// the first bytes of the content. Unknown formats yield ErrUnsupportedFormat.
//
// Decoder limits (MaxInputBytes, MaxDepth) guard against untrusted input;
// see DecodeOptions. Failures inside a document are reported as *ParseError
// with line and column, and Code maps any error to a stable ErrorCode.
package rdf
