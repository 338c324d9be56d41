package skos

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/geoknoesis/skos-go/rdf"
)

// Subject is the resolved projection of a concept.
type Subject struct {
	// URI identifies the concept. Blank node concepts use their "_:id" form.
	URI string `json:"uri"`
	// Labels maps each vocabulary language to one label.
	Labels map[string]string `json:"labels"`
	// Notation is the concept's classification code, empty when absent.
	Notation string `json:"notation,omitempty"`
}

// Corpus is a set of subjects that can be listed and saved as SKOS.
type Corpus interface {
	Languages() []string
	Subjects() iter.Seq[Subject]
	SaveSKOS(path string) error
}

var (
	_ Corpus = (*Vocabulary)(nil)
	_ Corpus = SubjectList(nil)
)

// SubjectList is an in-memory corpus.
type SubjectList []Subject

// Languages returns the sorted union of label languages.
func (l SubjectList) Languages() []string {
	seen := make(map[string]struct{})
	for _, s := range l {
		for lang := range s.Labels {
			if lang != "" {
				seen[lang] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Subjects yields the subjects in list order.
func (l SubjectList) Subjects() iter.Seq[Subject] {
	return slices.Values(l)
}

// SaveSKOS writes the list as SKOS Turtle plus its cache artifact.
func (l SubjectList) SaveSKOS(path string) error {
	return SerializeSubjects(l.Subjects(), path)
}

func (s Subject) term() rdf.Term {
	if id, ok := strings.CutPrefix(s.URI, "_:"); ok {
		return rdf.BlankNode{ID: id}
	}
	return rdf.IRI{Value: s.URI}
}

// addTo asserts the subject as a concept in g. Labels are added in language
// order so output is reproducible.
func (s Subject) addTo(g *rdf.Graph) {
	concept := s.term()
	g.Add(rdf.Triple{S: concept, P: rdf.RDFType, O: rdf.SKOSConcept})
	for _, lang := range slices.Sorted(maps.Keys(s.Labels)) {
		g.Add(rdf.Triple{S: concept, P: rdf.SKOSPrefLabel, O: rdf.NewLangLiteral(s.Labels[lang], lang)})
	}
	if s.Notation != "" {
		g.Add(rdf.Triple{S: concept, P: rdf.SKOSNotation, O: rdf.NewLiteral(s.Notation)})
	}
}
