package rdf

import (
	"sort"
	"strconv"
	"strings"
)

// NamespaceManager holds prefix bindings and compacts IRIs into qualified
// names.
type NamespaceManager struct {
	byPrefix map[string]string
	byNS     map[string]string
	order    []string
	nextGen  int
}

// NewNamespaceManager returns a manager with no bindings.
func NewNamespaceManager() *NamespaceManager {
	return &NamespaceManager{
		byPrefix: make(map[string]string),
		byNS:     make(map[string]string),
	}
}

// Bind maps prefix to namespace, replacing any earlier binding of either.
// The empty prefix is the default namespace (":local").
func (m *NamespaceManager) Bind(prefix, namespace string) {
	if namespace == "" {
		return
	}
	if old, ok := m.byPrefix[prefix]; ok {
		if old == namespace {
			return
		}
		delete(m.byNS, old)
	} else {
		m.order = append(m.order, prefix)
	}
	if oldPrefix, ok := m.byNS[namespace]; ok && oldPrefix != prefix {
		delete(m.byPrefix, oldPrefix)
		m.order = removeString(m.order, oldPrefix)
	}
	m.byPrefix[prefix] = namespace
	m.byNS[namespace] = prefix
}

// Namespace returns the namespace bound to prefix.
func (m *NamespaceManager) Namespace(prefix string) (string, bool) {
	ns, ok := m.byPrefix[prefix]
	return ns, ok
}

// Prefix returns the prefix bound to namespace.
func (m *NamespaceManager) Prefix(namespace string) (string, bool) {
	prefix, ok := m.byNS[namespace]
	return prefix, ok
}

// Prefixes returns a copy of all bindings, prefix to namespace.
func (m *NamespaceManager) Prefixes() map[string]string {
	out := make(map[string]string, len(m.byPrefix))
	for prefix, ns := range m.byPrefix {
		out[prefix] = ns
	}
	return out
}

// Bindings returns the prefixes in the order they were first bound.
func (m *NamespaceManager) Bindings() []string {
	return append([]string(nil), m.order...)
}

// QName returns the compact "prefix:local" form of iri. The IRI is split
// after its last '#', '/' or ':'. If the namespace part has no prefix yet,
// a generated one (ns1, ns2, ...) is bound first. When the IRI cannot be
// split the full IRI is returned unchanged.
func (m *NamespaceManager) QName(iri string) string {
	ns, local, ok := SplitIRI(iri)
	if !ok {
		return iri
	}
	prefix, bound := m.byNS[ns]
	if !bound {
		prefix = m.generatePrefix()
		m.Bind(prefix, ns)
	}
	if prefix == "" {
		return ":" + local
	}
	return prefix + ":" + local
}

// Abbreviate returns the prefixed name for iri using only existing
// bindings, choosing the longest matching namespace. ok is false when no
// binding yields a valid Turtle local name.
func (m *NamespaceManager) Abbreviate(iri string) (string, bool) {
	return abbreviateQName(iri, m.byPrefix, true)
}

func (m *NamespaceManager) generatePrefix() string {
	for {
		m.nextGen++
		candidate := "ns" + strconv.Itoa(m.nextGen)
		if _, taken := m.byPrefix[candidate]; !taken {
			return candidate
		}
	}
}

// SplitIRI splits iri into namespace and local name after the last '#',
// '/' or ':'. ok is false when there is no separator or the local name
// would be empty.
func SplitIRI(iri string) (namespace, local string, ok bool) {
	idx := strings.LastIndexAny(iri, "#/:")
	if idx < 0 || idx == len(iri)-1 {
		return "", "", false
	}
	return iri[:idx+1], iri[idx+1:], true
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
