package rdf

// Namespace IRIs bound on every new Graph.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"
)

// Well-known IRIs used by the parsers and by SKOS processing.
var (
	RDFType       = IRI{Value: RDFNamespace + "type"}
	RDFFirst      = IRI{Value: RDFNamespace + "first"}
	RDFRest       = IRI{Value: RDFNamespace + "rest"}
	RDFNil        = IRI{Value: RDFNamespace + "nil"}
	RDFLangStr    = IRI{Value: RDFNamespace + "langString"}
	RDFSLabel     = IRI{Value: RDFSNamespace + "label"}
	OWLDeprecated = IRI{Value: OWLNamespace + "deprecated"}

	XSDString  = IRI{Value: XSDNamespace + "string"}
	XSDBoolean = IRI{Value: XSDNamespace + "boolean"}
	XSDInteger = IRI{Value: XSDNamespace + "integer"}
	XSDDecimal = IRI{Value: XSDNamespace + "decimal"}
	XSDDouble  = IRI{Value: XSDNamespace + "double"}

	SKOSConcept   = IRI{Value: SKOSNamespace + "Concept"}
	SKOSPrefLabel = IRI{Value: SKOSNamespace + "prefLabel"}
	SKOSAltLabel  = IRI{Value: SKOSNamespace + "altLabel"}
	SKOSNotation  = IRI{Value: SKOSNamespace + "notation"}
)

var defaultBindings = []struct{ prefix, namespace string }{
	{"owl", OWLNamespace},
	{"rdf", RDFNamespace},
	{"rdfs", RDFSNamespace},
	{"skos", SKOSNamespace},
	{"xsd", XSDNamespace},
}
