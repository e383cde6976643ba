// Package graph builds the uniform relationship graph over a heterogeneous
// sample batch. Construction is pure: no I/O, identical batches produce
// identical graphs.
package graph

import (
	"sort"

	"biovalid/pkg/domain"
)

// Node is one sample in the relationship graph.
type Node struct {
	ID           string
	SampleType   string
	MaterialKind string
	Organism     string
	// References holds declared parent identifiers in source order,
	// duplicates preserved.
	References []string
}

// Graph maps sample identifiers to nodes. Once built it is read-only; the
// rule checker never mutates it.
type Graph struct {
	nodes map[string]Node
	order []string
}

// Build constructs the graph from the entire batch, all sample types
// together, since references may cross type boundaries. Records without an
// identifier are excluded silently; rejecting them is the field
// validator's job. Cycles are permitted at this stage.
func Build(batch map[string][]domain.SampleRecord) *Graph {
	g := &Graph{nodes: make(map[string]Node)}

	types := make([]string, 0, len(batch))
	for sampleType := range batch {
		types = append(types, sampleType)
	}
	sort.Strings(types)

	for _, sampleType := range types {
		for _, record := range batch[sampleType] {
			id := record.Identifier()
			if id == "" {
				continue
			}
			g.add(Node{
				ID:           id,
				SampleType:   sampleType,
				MaterialKind: record.MaterialKind(sampleType),
				Organism:     record.Organism(),
				References:   record.References(),
			})
		}
	}
	return g
}

func (g *Graph) add(n Node) {
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// Node returns the node for id, if present.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id names a node in the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Order returns node identifiers in deterministic insertion order
// (sample types sorted, records in batch order within a type).
func (g *Graph) Order() []string {
	return g.order
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}
