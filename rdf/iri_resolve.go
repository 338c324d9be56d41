package rdf

import (
	"net/url"
	"strings"
)

// resolveIRI resolves a relative IRI against a base IRI according to RFC 3986.
func resolveIRI(baseStr, relative string) string {
	baseURL, err := url.Parse(baseStr)
	if err != nil {
		return joinIRI(baseStr, relative)
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return joinIRI(baseStr, relative)
	}
	if relURL.Scheme != "" {
		return relative
	}
	resolved := baseURL.ResolveReference(relURL).String()
	// ResolveReference drops an empty fragment ("<#>").
	if strings.HasSuffix(relative, "#") && !strings.HasSuffix(resolved, "#") {
		resolved += "#"
	}
	return resolved
}

// joinIRI is the fallback when either side does not parse as a URL.
func joinIRI(baseStr, relative string) string {
	if strings.HasSuffix(baseStr, "/") {
		return baseStr + relative
	}
	if lastSlash := strings.LastIndex(baseStr, "/"); lastSlash >= 0 {
		return baseStr[:lastSlash+1] + relative
	}
	return baseStr + "/" + relative
}
