package rdf

import "iter"

// Graph is an in-memory set of triples indexed by subject and predicate.
//
// Iteration order is insertion order: the first time a subject or triple
// was added decides where it appears. For a parsed document that is
// document order, so every traversal of the same loaded graph yields the
// same sequence. A Graph is not safe for concurrent use.
type Graph struct {
	triples  []Triple
	live     []bool
	index    map[Triple]int
	subjects map[Term][]int
	preds    map[IRI][]int
	order    []Term
	removed  int
	ns       *NamespaceManager
}

// NewGraph returns an empty graph with the owl, rdf, rdfs, skos and xsd
// prefixes bound.
func NewGraph() *Graph {
	g := &Graph{
		index:    make(map[Triple]int),
		subjects: make(map[Term][]int),
		preds:    make(map[IRI][]int),
		ns:       NewNamespaceManager(),
	}
	for _, b := range defaultBindings {
		g.ns.Bind(b.prefix, b.namespace)
	}
	return g
}

// Namespaces returns the graph's prefix bindings.
func (g *Graph) Namespaces() *NamespaceManager { return g.ns }

// Len returns the number of triples in the graph.
func (g *Graph) Len() int { return len(g.index) }

// Add inserts t and reports whether it was new. Triples with an empty
// position are rejected.
func (g *Graph) Add(t Triple) bool {
	if !t.valid() {
		return false
	}
	if _, ok := g.index[t]; ok {
		return false
	}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.live = append(g.live, true)
	g.index[t] = idx
	if _, seen := g.subjects[t.S]; !seen {
		g.order = append(g.order, t.S)
	}
	g.subjects[t.S] = append(g.subjects[t.S], idx)
	g.preds[t.P] = append(g.preds[t.P], idx)
	return true
}

// Remove deletes t and reports whether it was present.
func (g *Graph) Remove(t Triple) bool {
	idx, ok := g.index[t]
	if !ok {
		return false
	}
	delete(g.index, t)
	g.live[idx] = false
	g.removed++
	if g.removed > len(g.triples)/2 {
		g.compact()
	}
	return true
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	_, ok := g.index[t]
	return ok
}

// Triples yields every triple matching the pattern. A nil subject or
// object and a zero predicate act as wildcards.
func (g *Graph) Triples(s Term, p IRI, o Term) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		if s != nil && p.Value != "" && o != nil {
			t := Triple{S: s, P: p, O: o}
			if g.Contains(t) {
				yield(t)
			}
			return
		}
		for _, idx := range g.candidates(s, p) {
			if !g.live[idx] {
				continue
			}
			t := g.triples[idx]
			if s != nil && t.S != s {
				continue
			}
			if p.Value != "" && t.P != p {
				continue
			}
			if o != nil && t.O != o {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Subjects yields the distinct subjects of triples matching (?, p, o), in
// subject order.
func (g *Graph) Subjects(p IRI, o Term) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		if p.Value == "" && o == nil {
			for _, s := range g.order {
				if g.hasLive(s) && !yield(s) {
					return
				}
			}
			return
		}
		for _, s := range g.order {
			if g.matches(s, p, o) && !yield(s) {
				return
			}
		}
	}
}

// Objects yields the objects of triples matching (s, p, ?).
func (g *Graph) Objects(s Term, p IRI) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for t := range g.Triples(s, p, nil) {
			if !yield(t.O) {
				return
			}
		}
	}
}

// Value returns the first object of (s, p, ?).
func (g *Graph) Value(s Term, p IRI) (Term, bool) {
	for o := range g.Objects(s, p) {
		return o, true
	}
	return nil, false
}

// All yields every triple in insertion order.
func (g *Graph) All() iter.Seq[Triple] {
	return g.Triples(nil, IRI{}, nil)
}

// candidates picks the smallest index list for the pattern.
func (g *Graph) candidates(s Term, p IRI) []int {
	switch {
	case s != nil && p.Value != "":
		bySubject, byPred := g.subjects[s], g.preds[p]
		if len(byPred) < len(bySubject) {
			return byPred
		}
		return bySubject
	case s != nil:
		return g.subjects[s]
	case p.Value != "":
		return g.preds[p]
	default:
		all := make([]int, len(g.triples))
		for i := range all {
			all[i] = i
		}
		return all
	}
}

func (g *Graph) matches(s Term, p IRI, o Term) bool {
	for range g.Triples(s, p, o) {
		return true
	}
	return false
}

func (g *Graph) hasLive(s Term) bool {
	for _, idx := range g.subjects[s] {
		if g.live[idx] {
			return true
		}
	}
	return false
}

// compact rebuilds the storage without removed triples, keeping order.
func (g *Graph) compact() {
	old := g.triples
	live := g.live
	ns := g.ns
	*g = Graph{
		index:    make(map[Triple]int, len(g.index)),
		subjects: make(map[Term][]int),
		preds:    make(map[IRI][]int),
		ns:       ns,
	}
	for i, t := range old {
		if live[i] {
			g.Add(t)
		}
	}
}
