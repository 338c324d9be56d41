package rdf

import "strconv"

// blankNodeGenerator hands out blank node IDs unique within one decode.
type blankNodeGenerator struct {
	counter int
}

func newBlankNodeGenerator() *blankNodeGenerator {
	return &blankNodeGenerator{}
}

func (g *blankNodeGenerator) next() BlankNode {
	g.counter++
	return BlankNode{ID: generateBlankNodeID(g.counter)}
}

// generateBlankNodeID formats counter as "b1", "b2", ...
func generateBlankNodeID(counter int) string {
	return "b" + strconv.Itoa(counter)
}
