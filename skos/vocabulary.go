// Package skos projects SKOS concept schemes onto language-indexed
// subject records and writes subject lists back as SKOS.
//
// A Vocabulary wraps an rdf.Graph loaded from RDF text or from a cache
// artifact written by SaveSKOS. Concepts are resources typed skos:Concept
// that are not flagged owl:deprecated true. Each concept becomes a Subject
// whose Labels hold exactly one entry per vocabulary language, resolved
// from skos:prefLabel and rdfs:label:
//
//  1. the first label tagged with the language;
//  2. else the first untagged label;
//  3. else the concept's qualified name.
//
// A Vocabulary is not safe for concurrent use.
package skos

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/geoknoesis/skos-go/dump"
	"github.com/geoknoesis/skos-go/rdf"
)

// labelPredicates are consulted in order when resolving labels.
var labelPredicates = []rdf.IRI{rdf.SKOSPrefLabel, rdf.RDFSLabel}

// Option configures Open, New and SerializeSubjects.
type Option func(*options)

type options struct {
	logger *slog.Logger
	decode rdf.DecodeOptions
}

// WithLogger sets the logger for load and save events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDecodeOptions sets parser limits, base IRI and context used by Open.
func WithDecodeOptions(decode rdf.DecodeOptions) Option {
	return func(o *options) { o.decode = decode }
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) parseOptions() []rdf.Option {
	out := []rdf.Option{
		rdf.OptMaxInputBytes(o.decode.MaxInputBytes),
		rdf.OptMaxDepth(o.decode.MaxDepth),
	}
	if o.decode.BaseIRI != "" {
		out = append(out, rdf.OptBaseIRI(o.decode.BaseIRI))
	}
	return out
}

// Vocabulary is a subject corpus backed by a SKOS graph.
type Vocabulary struct {
	path   string
	format rdf.Format
	cached bool
	graph  *rdf.Graph
	logger *slog.Logger

	languages      []string
	languagesReady bool
}

// Open loads a vocabulary from path. A path ending in CacheSuffix is read
// as a cache artifact; failures return *CacheLoadError and the RDF source
// is not consulted. Any other path is parsed as RDF, with the format taken
// from the extension or sniffed from the content; failures return
// *ParseError. Open writes nothing.
func Open(path string, opts ...Option) (*Vocabulary, error) {
	o := newOptions(opts)
	start := time.Now()
	v := &Vocabulary{path: path, logger: o.logger}

	if IsCachePath(path) {
		g, err := dump.Load(path)
		if err != nil {
			return nil, &CacheLoadError{Path: path, Err: err}
		}
		v.graph, v.cached = g, true
	} else {
		ctx := o.decode.Context
		if ctx == nil {
			ctx = context.Background()
		}
		g, format, err := rdf.ParseFile(ctx, path, rdf.FormatAuto, o.parseOptions()...)
		if err != nil {
			return nil, &ParseError{Path: path, Format: format, Err: err}
		}
		v.graph, v.format = g, format
	}

	v.logger.Debug("vocabulary loaded",
		"path", path,
		"format", v.sourceFormat(),
		"triples", v.graph.Len(),
		"elapsed", time.Since(start))
	return v, nil
}

// New wraps an already populated graph. The vocabulary has no source file,
// so SaveSKOS always re-serializes it.
func New(g *rdf.Graph, opts ...Option) *Vocabulary {
	o := newOptions(opts)
	return &Vocabulary{graph: g, logger: o.logger}
}

// Path returns the file the vocabulary was opened from, or "".
func (v *Vocabulary) Path() string { return v.path }

// Graph returns the underlying graph. Mutating it does not reset the
// memoized language set.
func (v *Vocabulary) Graph() *rdf.Graph { return v.graph }

// Format returns the RDF syntax the vocabulary was parsed from. It is
// empty for vocabularies loaded from a cache artifact or built with New.
func (v *Vocabulary) Format() rdf.Format { return v.format }

func (v *Vocabulary) sourceFormat() string {
	switch {
	case v.cached:
		return "cache"
	case v.format == rdf.FormatAuto:
		return "memory"
	default:
		return string(v.format)
	}
}

// Concepts yields the non-deprecated skos:Concept subjects in graph
// subject order. Each call returns a fresh sequence.
func (v *Vocabulary) Concepts() iter.Seq[rdf.Term] {
	return func(yield func(rdf.Term) bool) {
		for c := range v.graph.Subjects(rdf.RDFType, rdf.SKOSConcept) {
			if v.deprecated(c) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (v *Vocabulary) deprecated(concept rdf.Term) bool {
	for o := range v.graph.Objects(concept, rdf.OWLDeprecated) {
		lit, ok := o.(rdf.Literal)
		if !ok {
			continue
		}
		if value, ok := lit.Bool(); ok && value {
			return true
		}
	}
	return false
}

// Languages returns the sorted language tags used by labels of qualifying
// concepts. Untagged labels contribute nothing. The set is computed once
// per Vocabulary; the returned slice is a copy.
func (v *Vocabulary) Languages() []string {
	if !v.languagesReady {
		seen := make(map[string]struct{})
		for c := range v.Concepts() {
			for _, p := range labelPredicates {
				for o := range v.graph.Objects(c, p) {
					if lit, ok := o.(rdf.Literal); ok && lit.Lang != "" {
						seen[lit.Lang] = struct{}{}
					}
				}
			}
		}
		v.languages = slices.Sorted(maps.Keys(seen))
		v.languagesReady = true
	}
	return slices.Clone(v.languages)
}

// ConceptLabels returns every literal label of concept under predicates,
// grouped by language tag in graph order. Untagged labels are grouped
// under "". Non-literal objects are skipped.
func (v *Vocabulary) ConceptLabels(concept rdf.Term, predicates ...rdf.IRI) map[string][]string {
	byLang := make(map[string][]string)
	for _, p := range predicates {
		for o := range v.graph.Objects(concept, p) {
			if lit, ok := o.(rdf.Literal); ok {
				byLang[lit.Lang] = append(byLang[lit.Lang], lit.Lexical)
			}
		}
	}
	return byLang
}

// Subjects yields one Subject per concept. Labels and notation are read
// from the graph on every traversal.
func (v *Vocabulary) Subjects() iter.Seq[Subject] {
	return func(yield func(Subject) bool) {
		languages := v.Languages()
		for c := range v.Concepts() {
			s := Subject{
				URI:      termString(c),
				Labels:   v.resolveLabels(c, languages),
				Notation: v.notation(c),
			}
			if !yield(s) {
				return
			}
		}
	}
}

func (v *Vocabulary) resolveLabels(concept rdf.Term, languages []string) map[string]string {
	byLang := v.ConceptLabels(concept, labelPredicates...)
	labels := make(map[string]string, len(languages))
	for _, lang := range languages {
		switch {
		case len(byLang[lang]) > 0:
			labels[lang] = byLang[lang][0]
		case len(byLang[""]) > 0:
			labels[lang] = byLang[""][0]
		default:
			labels[lang] = v.qname(concept)
		}
	}
	return labels
}

// qname binds a generated prefix when the concept's namespace has none.
func (v *Vocabulary) qname(concept rdf.Term) string {
	if iri, ok := concept.(rdf.IRI); ok {
		return v.graph.Namespaces().QName(iri.Value)
	}
	return concept.String()
}

func (v *Vocabulary) notation(concept rdf.Term) string {
	o, ok := v.graph.Value(concept, rdf.SKOSNotation)
	if !ok {
		return ""
	}
	return termString(o)
}

// termString returns the plain string form of a term: the IRI, the "_:id"
// form of a blank node or a literal's lexical form.
func termString(t rdf.Term) string {
	if lit, ok := t.(rdf.Literal); ok {
		return lit.Lexical
	}
	return t.String()
}
