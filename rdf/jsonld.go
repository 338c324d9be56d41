package rdf

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const jsonldDefaultGraph = "@default"

// decodeJSONLD expands the document with json-gold and flattens every graph
// of the resulting dataset into triples, default graph first.
func decodeJSONLD(input string, s sink, opts DecodeOptions) error {
	var doc any
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return jsonldError(input, err)
	}
	bindContextPrefixes(doc, s)

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	result, err := proc.ToRDF(doc, goldOpts)
	if err != nil {
		return &ParseError{Format: FormatJSONLD, Offset: -1, Err: err}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return &ParseError{Format: FormatJSONLD, Offset: -1, Err: fmt.Errorf("unexpected ToRDF result %T", result)}
	}

	bnodes := make(map[string]BlankNode)
	gen := newBlankNodeGenerator()
	for _, name := range graphNames(dataset) {
		for _, quad := range dataset.Graphs[name] {
			if err := checkDecodeContext(opts.Context); err != nil {
				return err
			}
			t, ok := tripleFromQuad(quad, bnodes, gen)
			if !ok {
				continue
			}
			if err := s.triple(t); err != nil {
				return err
			}
		}
	}
	return nil
}

func jsonldError(input string, err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return newParseError(FormatJSONLD, input, int(syntax.Offset), err)
	}
	return &ParseError{Format: FormatJSONLD, Offset: -1, Err: err}
}

func graphNames(dataset *ld.RDFDataset) []string {
	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != jsonldDefaultGraph {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := dataset.Graphs[jsonldDefaultGraph]; ok {
		names = append([]string{jsonldDefaultGraph}, names...)
	}
	return names
}

func tripleFromQuad(quad *ld.Quad, bnodes map[string]BlankNode, gen *blankNodeGenerator) (Triple, bool) {
	if quad == nil {
		return Triple{}, false
	}
	subject := termFromNode(quad.Subject, bnodes, gen)
	predicate, ok := termFromNode(quad.Predicate, bnodes, gen).(IRI)
	object := termFromNode(quad.Object, bnodes, gen)
	if subject == nil || !ok || object == nil {
		return Triple{}, false
	}
	if _, isLiteral := subject.(Literal); isLiteral {
		return Triple{}, false
	}
	return Triple{S: subject, P: predicate, O: object}, true
}

func termFromNode(node ld.Node, bnodes map[string]BlankNode, gen *blankNodeGenerator) Term {
	switch n := node.(type) {
	case ld.IRI:
		return IRI{Value: n.Value}
	case ld.BlankNode:
		if b, ok := bnodes[n.Attribute]; ok {
			return b
		}
		b := gen.next()
		bnodes[n.Attribute] = b
		return b
	case ld.Literal:
		if n.Language != "" {
			return Literal{Lexical: n.Value, Lang: n.Language}
		}
		if n.Datatype == "" || n.Datatype == XSDString.Value {
			return Literal{Lexical: n.Value}
		}
		return Literal{Lexical: n.Value, Datatype: IRI{Value: n.Datatype}}
	default:
		return nil
	}
}

// bindContextPrefixes binds the namespace-like terms of a top-level
// @context object, so "skos": "http://...#" becomes a graph prefix.
func bindContextPrefixes(doc any, s sink) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}
	contexts, ok := obj["@context"].([]any)
	if !ok {
		contexts = []any{obj["@context"]}
	}
	for _, raw := range contexts {
		ctx, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, term := range sortedKeys(ctx) {
			ns, ok := ctx[term].(string)
			if !ok || strings.HasPrefix(term, "@") || !isValidPrefixName(term) {
				continue
			}
			if strings.HasSuffix(ns, "#") || strings.HasSuffix(ns, "/") {
				s.prefix(term, ns)
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
