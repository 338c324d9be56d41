package rdf

import (
	"bufio"
	"io"
	"strings"
)

// turtleEncoder writes a graph as Turtle, one block per subject.
type turtleEncoder struct {
	writer   *bufio.Writer
	prefixes map[string]string
	used     map[string]bool
	indent   string
}

// encodeTurtle writes g with subjects in graph order. Each subject's
// predicates keep their first-seen order, except rdf:type which is written
// first as "a". Only prefixes that are actually used are declared.
func encodeTurtle(w io.Writer, g *Graph) error {
	e := &turtleEncoder{
		writer:   bufio.NewWriter(w),
		prefixes: g.Namespaces().Prefixes(),
		used:     make(map[string]bool),
		indent:   "    ",
	}
	var body strings.Builder
	first := true
	for subject := range g.Subjects(IRI{}, nil) {
		if !first {
			body.WriteString("\n")
		}
		first = false
		e.writeSubject(&body, g, subject)
	}
	if err := e.writeHeader(); err != nil {
		return err
	}
	if _, err := e.writer.WriteString(body.String()); err != nil {
		return err
	}
	return e.writer.Flush()
}

func (e *turtleEncoder) writeHeader() error {
	wrote := false
	for _, prefix := range sortedPrefixKeys(e.prefixes) {
		if !e.used[prefix] {
			continue
		}
		line := "@prefix " + prefix + ": <" + escapeIRI(e.prefixes[prefix]) + "> .\n"
		if _, err := e.writer.WriteString(line); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		return e.writer.WriteByte('\n')
	}
	return nil
}

func (e *turtleEncoder) writeSubject(b *strings.Builder, g *Graph, subject Term) {
	var predicates []IRI
	objects := make(map[IRI][]Term)
	for t := range g.Triples(subject, IRI{}, nil) {
		if _, seen := objects[t.P]; !seen {
			predicates = append(predicates, t.P)
		}
		objects[t.P] = append(objects[t.P], t.O)
	}
	if _, ok := objects[RDFType]; ok {
		ordered := []IRI{RDFType}
		for _, p := range predicates {
			if p != RDFType {
				ordered = append(ordered, p)
			}
		}
		predicates = ordered
	}

	b.WriteString(e.term(subject))
	for i, p := range predicates {
		if i == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(" ;\n" + e.indent)
		}
		if p == RDFType {
			b.WriteString("a")
		} else {
			b.WriteString(e.iri(p))
		}
		for j, o := range objects[p] {
			if j == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(",\n" + e.indent + e.indent)
			}
			b.WriteString(e.term(o))
		}
	}
	b.WriteString(" .\n")
}

func (e *turtleEncoder) iri(iri IRI) string {
	if qname, ok := abbreviateQName(iri.Value, e.prefixes, true); ok {
		e.used[qname[:strings.IndexByte(qname, ':')]] = true
		return qname
	}
	return renderIRI(iri)
}

func (e *turtleEncoder) term(term Term) string {
	switch value := term.(type) {
	case IRI:
		return e.iri(value)
	case BlankNode:
		return value.String()
	case Literal:
		quoted := `"` + escapeLiteral(value.Lexical) + `"`
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoted + "^^" + e.iri(value.Datatype)
		}
		return quoted
	default:
		return ""
	}
}
