package rdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestTurtleEncoderGroupsBySubject(t *testing.T) {
	g := NewGraph()
	g.Namespaces().Bind("ex", exNS)
	g.Add(Triple{S: iri("c1"), P: SKOSPrefLabel, O: NewLangLiteral("Cat", "en")})
	g.Add(Triple{S: iri("c1"), P: RDFType, O: SKOSConcept})
	g.Add(Triple{S: iri("c1"), P: SKOSPrefLabel, O: NewLangLiteral("Katze", "de")})
	g.Add(Triple{S: iri("c2"), P: SKOSNotation, O: NewLiteral("say \"2\"")})

	var buf bytes.Buffer
	if err := g.Serialize(&buf, FormatTurtle); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := `@prefix ex: <http://example.org/> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .

ex:c1 a skos:Concept ;
    skos:prefLabel "Cat"@en,
        "Katze"@de .

ex:c2 skos:notation "say \"2\"" .
`
	if buf.String() != want {
		t.Fatalf("unexpected turtle:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTurtleEncoderFallsBackToFullIRIs(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: IRI{Value: "http://other.example/x y"}, P: iri("p"), O: NewTypedLiteral("1", XSDInteger)})
	var buf bytes.Buffer
	if err := g.Serialize(&buf, FormatTurtle); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := "@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .\n\n" +
		"<http://other.example/x\\u0020y> <http://example.org/p> \"1\"^^xsd:integer .\n"
	if buf.String() != want {
		t.Fatalf("unexpected turtle:\n%s", buf.String())
	}
}

func TestTurtleRoundTrip(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
ex:c1 a skos:Concept ; skos:prefLabel "Cat"@en , """multi
line"""@fi ; skos:notation "7" ; ex:part [ ex:note 'n' ] .
ex:c2 a skos:Concept ; skos:prefLabel "Dog" .
`
	g := parseTurtle(t, input)
	path := filepath.Join(t.TempDir(), "out.ttl")
	if err := g.SerializeFile(path, FormatTurtle); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back := parseTurtle(t, string(data))
	if back.Len() != g.Len() {
		t.Fatalf("expected %d triples, got %d:\n%s", g.Len(), back.Len(), data)
	}
	for tr := range g.All() {
		if !back.Contains(tr) {
			t.Fatalf("missing %s after round trip:\n%s", tr, data)
		}
	}
}
