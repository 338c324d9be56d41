package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// rdfXMLScope carries the inherited xml:base and xml:lang.
type rdfXMLScope struct {
	base string
	lang string
}

func (s rdfXMLScope) enter(el xml.StartElement) rdfXMLScope {
	for _, attr := range el.Attr {
		if attr.Name.Space != xmlNamespace {
			continue
		}
		switch attr.Name.Local {
		case "base":
			s.base = resolveRef(s.base, attr.Value)
		case "lang":
			s.lang = attr.Value
		}
	}
	return s
}

type rdfxmlParser struct {
	input    string
	dec      *xml.Decoder
	sink     sink
	gen      *blankNodeGenerator
	bnodes   map[string]BlankNode
	depth    int
	maxDepth int
	opts     DecodeOptions
}

func decodeRDFXML(input string, s sink, opts DecodeOptions) error {
	p := &rdfxmlParser{
		input:    input,
		dec:      xml.NewDecoder(strings.NewReader(input)),
		sink:     s,
		gen:      newBlankNodeGenerator(),
		bnodes:   make(map[string]BlankNode),
		maxDepth: opts.MaxDepth,
		opts:     opts,
	}
	if err := p.parseDocument(); err != nil {
		return newParseError(FormatRDFXML, input, int(p.dec.InputOffset()), err)
	}
	return nil
}

func (p *rdfxmlParser) parseDocument() error {
	scope := rdfXMLScope{base: p.opts.BaseIRI}
	for {
		if err := checkDecodeContext(p.opts.Context); err != nil {
			return err
		}
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		p.declarePrefixes(el)
		if el.Name.Space == RDFNamespace && el.Name.Local == "RDF" {
			if err := p.parseNodeElementList(scope.enter(el)); err != nil {
				return err
			}
			continue
		}
		if _, err := p.parseNodeElement(el, scope); err != nil {
			return err
		}
	}
}

// parseNodeElementList reads node elements until the enclosing end tag.
func (p *rdfxmlParser) parseNodeElementList(scope rdfXMLScope) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.declarePrefixes(t)
			if _, err := p.parseNodeElement(t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("unexpected text between node elements")
			}
		}
	}
}

func (p *rdfxmlParser) parseNodeElement(el xml.StartElement, scope rdfXMLScope) (Term, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	scope = scope.enter(el)
	subject, err := p.nodeSubject(el, scope)
	if err != nil {
		return nil, err
	}
	if el.Name.Space != RDFNamespace || el.Name.Local != "Description" {
		if err := p.emit(subject, RDFType, IRI{Value: el.Name.Space + el.Name.Local}); err != nil {
			return nil, err
		}
	}
	if err := p.emitPropertyAttributes(subject, el.Attr, scope); err != nil {
		return nil, err
	}
	return subject, p.parsePropertyElements(subject, scope)
}

func (p *rdfxmlParser) nodeSubject(el xml.StartElement, scope rdfXMLScope) (Term, error) {
	about, hasAbout := rdfAttr(el.Attr, "about")
	id, hasID := rdfAttr(el.Attr, "ID")
	nodeID, hasNodeID := rdfAttr(el.Attr, "nodeID")
	set := 0
	for _, has := range []bool{hasAbout, hasID, hasNodeID} {
		if has {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("rdf:about, rdf:ID and rdf:nodeID are mutually exclusive")
	}
	switch {
	case hasAbout:
		return IRI{Value: resolveRef(scope.base, about)}, nil
	case hasID:
		return IRI{Value: idIRI(scope.base, id)}, nil
	case hasNodeID:
		return p.blankNode(nodeID), nil
	default:
		return p.gen.next(), nil
	}
}

// parsePropertyElements reads the property elements of subject until the
// node element closes.
func (p *rdfxmlParser) parsePropertyElements(subject Term, scope rdfXMLScope) error {
	li := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.declarePrefixes(t)
			if err := p.parsePropertyElement(subject, t, scope, &li); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("unexpected text in node element")
			}
		}
	}
}

func (p *rdfxmlParser) parsePropertyElement(subject Term, el xml.StartElement, scope rdfXMLScope, li *int) error {
	scope = scope.enter(el)
	predicate := IRI{Value: el.Name.Space + el.Name.Local}
	if el.Name.Space == RDFNamespace && el.Name.Local == "li" {
		*li++
		predicate = IRI{Value: RDFNamespace + "_" + strconv.Itoa(*li)}
	}

	parseType, _ := rdfAttr(el.Attr, "parseType")
	switch parseType {
	case "":
	case "Resource":
		node := p.gen.next()
		if err := p.emit(subject, predicate, node); err != nil {
			return err
		}
		return p.parsePropertyElements(node, scope)
	case "Collection":
		return p.parseCollection(subject, predicate, scope)
	default:
		inner, err := p.rawContent()
		if err != nil {
			return err
		}
		return p.emit(subject, predicate, Literal{Lexical: inner, Datatype: IRI{Value: RDFNamespace + "XMLLiteral"}})
	}

	resource, hasResource := rdfAttr(el.Attr, "resource")
	nodeID, hasNodeID := rdfAttr(el.Attr, "nodeID")
	if hasResource && hasNodeID {
		return fmt.Errorf("rdf:resource and rdf:nodeID are mutually exclusive")
	}
	var object Term
	switch {
	case hasResource:
		object = IRI{Value: resolveRef(scope.base, resource)}
	case hasNodeID:
		object = p.blankNode(nodeID)
	case hasPropertyAttributes(el.Attr):
		object = p.gen.next()
	}
	if object != nil {
		if err := p.emit(subject, predicate, object); err != nil {
			return err
		}
		if err := p.emitPropertyAttributes(object, el.Attr, scope); err != nil {
			return err
		}
		return p.skipEmpty()
	}
	return p.parsePropertyContent(subject, predicate, el, scope)
}

// parsePropertyContent handles a property element whose object is either
// its text or a single nested node element.
func (p *rdfxmlParser) parsePropertyContent(subject Term, predicate IRI, el xml.StartElement, scope rdfXMLScope) error {
	var text strings.Builder
	var object Term
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if object != nil {
				return fmt.Errorf("property element %s has more than one node element", el.Name.Local)
			}
			p.declarePrefixes(t)
			node, err := p.parseNodeElement(t, scope)
			if err != nil {
				return err
			}
			object = node
		case xml.EndElement:
			if object != nil {
				if strings.TrimSpace(text.String()) != "" {
					return fmt.Errorf("property element %s mixes text and node elements", el.Name.Local)
				}
				return p.emit(subject, predicate, object)
			}
			lit := Literal{Lexical: text.String()}
			if datatype, ok := rdfAttr(el.Attr, "datatype"); ok {
				lit.Datatype = IRI{Value: resolveRef(scope.base, datatype)}
			} else {
				lit.Lang = scope.lang
			}
			return p.emit(subject, predicate, lit)
		}
	}
}

func (p *rdfxmlParser) parseCollection(subject Term, predicate IRI, scope rdfXMLScope) error {
	var items []Term
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.declarePrefixes(t)
			node, err := p.parseNodeElement(t, scope)
			if err != nil {
				return err
			}
			items = append(items, node)
		case xml.EndElement:
			var head Term = RDFNil
			for i := len(items) - 1; i >= 0; i-- {
				cell := p.gen.next()
				if err := p.emit(cell, RDFFirst, items[i]); err != nil {
					return err
				}
				if err := p.emit(cell, RDFRest, head); err != nil {
					return err
				}
				head = cell
			}
			return p.emit(subject, predicate, head)
		}
	}
}

// rawContent returns the unparsed inner XML of the current element.
func (p *rdfxmlParser) rawContent() (string, error) {
	start := int(p.dec.InputOffset())
	depth := 0
	for {
		end := int(p.dec.InputOffset())
		tok, err := p.dec.Token()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return p.input[start:end], nil
			}
			depth--
		}
	}
}

// skipEmpty consumes the rest of an element that must have no content.
func (p *rdfxmlParser) skipEmpty() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			return fmt.Errorf("element %s must be empty", t.Name.Local)
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("unexpected text in empty property element")
			}
		}
	}
}

func (p *rdfxmlParser) emitPropertyAttributes(subject Term, attrs []xml.Attr, scope rdfXMLScope) error {
	for _, attr := range attrs {
		if !isPropertyAttribute(attr.Name) {
			continue
		}
		predicate := IRI{Value: attr.Name.Space + attr.Name.Local}
		var object Term = Literal{Lexical: attr.Value, Lang: scope.lang}
		if predicate == RDFType {
			object = IRI{Value: resolveRef(scope.base, attr.Value)}
		}
		if err := p.emit(subject, predicate, object); err != nil {
			return err
		}
	}
	return nil
}

func (p *rdfxmlParser) declarePrefixes(el xml.StartElement) {
	for _, attr := range el.Attr {
		if attr.Name.Space == "xmlns" {
			p.sink.prefix(attr.Name.Local, attr.Value)
		}
	}
}

func (p *rdfxmlParser) blankNode(label string) BlankNode {
	if node, ok := p.bnodes[label]; ok {
		return node
	}
	node := p.gen.next()
	p.bnodes[label] = node
	return node
}

func (p *rdfxmlParser) emit(s Term, pred IRI, o Term) error {
	return p.sink.triple(Triple{S: s, P: pred, O: o})
}

func (p *rdfxmlParser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrDepthExceeded
	}
	return nil
}

func (p *rdfxmlParser) leave() { p.depth-- }

func rdfAttr(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == RDFNamespace && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// isPropertyAttribute reports whether an attribute encodes a triple rather
// than RDF/XML syntax, a namespace declaration or xml:*.
func isPropertyAttribute(name xml.Name) bool {
	switch name.Space {
	case "", "xmlns", xmlNamespace:
		return false
	case RDFNamespace:
		switch name.Local {
		case "about", "ID", "nodeID", "resource", "datatype", "parseType",
			"RDF", "Description", "li", "bagID", "aboutEach", "aboutEachPrefix":
			return false
		}
	}
	return true
}

func hasPropertyAttributes(attrs []xml.Attr) bool {
	for _, attr := range attrs {
		if isPropertyAttribute(attr.Name) {
			return true
		}
	}
	return false
}

// resolveRef resolves ref against base when ref is relative.
func resolveRef(base, ref string) string {
	if base == "" || hasScheme(ref) {
		return ref
	}
	return resolveIRI(base, ref)
}

func idIRI(base, id string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + id
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
