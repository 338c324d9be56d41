package rdf

import (
	"io"
	"strings"
	"testing"
)

func TestGuessFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"vocab.ttl", FormatTurtle, true},
		{"VOCAB.TTL", FormatTurtle, true},
		{"data.nt", FormatNTriples, true},
		{"onto.owl", FormatRDFXML, true},
		{"data.rdf", FormatRDFXML, true},
		{"data.jsonld", FormatJSONLD, true},
		{"subjects.dump.gz", "", false},
		{"README", "", false},
	}
	for _, tc := range cases {
		got, ok := GuessFormat(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("GuessFormat(%q) = %q, %v", tc.path, got, ok)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"ttl":      FormatTurtle,
		" Turtle ": FormatTurtle,
		"nt":       FormatNTriples,
		"rdf/xml":  FormatRDFXML,
		"json-ld":  FormatJSONLD,
	} {
		got, ok := ParseFormat(input)
		if !ok || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", input, got, ok)
		}
	}
	if _, ok := ParseFormat("trig"); ok {
		t.Error("expected trig to be unsupported")
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatTurtle.Extension() != ".ttl" || FormatTurtle.MediaType() != "text/turtle" {
		t.Fatal("unexpected turtle metadata")
	}
	if FormatJSONLD.MediaType() != "application/ld+json" {
		t.Fatal("unexpected json-ld media type")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Format
		ok    bool
	}{
		{"turtle prefix", "@prefix ex: <http://example.org/> .\n", FormatTurtle, true},
		{"sparql prefix", "PREFIX ex: <http://example.org/>\n", FormatTurtle, true},
		{"ntriples", "<http://e/s> <http://e/p> <http://e/o> .\n<http://e/s> <http://e/p> \"x\" .\n", FormatNTriples, true},
		{"turtle abbreviations", "<http://e/s> <http://e/p> <http://e/o> ;\n  <http://e/q> 1 .\n", FormatTurtle, true},
		{"comment then turtle", "# vocabulary\n@base <http://e/> .\n", FormatTurtle, true},
		{"bom", "\ufeff@prefix ex: <http://e/> .", FormatTurtle, true},
		{"rdfxml", "<?xml version=\"1.0\"?>\n<rdf:RDF/>", FormatRDFXML, true},
		{"rdfxml no prolog", "<rdf:RDF xmlns:rdf=\"x\"/>", FormatRDFXML, true},
		{"jsonld", "{\"@context\": {}, \"@graph\": []}", FormatJSONLD, true},
		{"plain json", "{\"a\": 1}", "", false},
		{"empty", "", "", false},
		{"prose", "hello world", "", false},
	}
	for _, tc := range cases {
		got, ok := DetectFormat(strings.NewReader(tc.input))
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: DetectFormat = %q, %v", tc.name, got, ok)
		}
	}
}

func TestSniffReplaysInput(t *testing.T) {
	input := "@prefix ex: <http://example.org/> .\n" + strings.Repeat("ex:s ex:p ex:o .\n", 100)
	format, r, ok := sniff(strings.NewReader(input))
	if !ok || format != FormatTurtle {
		t.Fatalf("unexpected detection %q %v", format, ok)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != input {
		t.Fatal("expected sniffed reader to replay the whole input")
	}
}
