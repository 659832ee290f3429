package graph

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Graph is a set of nodes keyed by EntityTypeIndex, kept in insertion order.
type Graph struct {
	nodes []*Node
	index *intmap.Map[uint64, *Node]
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: intmap.New[uint64, *Node](64)}
}

func (g *Graph) add(n *Node) {
	g.nodes = append(g.nodes, n)
	g.index.Put(n.EntityTypeIndex.key(), n)
}

func (g *Graph) getOrCreate(eti EntityTypeIndex) *Node {
	if n, ok := g.index.Get(eti.key()); ok {
		return n
	}
	n := &Node{EntityID: NoEntityIDYet, EntityTypeIndex: eti}
	g.add(n)
	return n
}

// Node looks up the node of an entity by its type and pool index.
func (g *Graph) Node(eti EntityTypeIndex) (*Node, bool) {
	return g.index.Get(eti.key())
}

// Contains reports whether the graph holds the node of eti.
func (g *Graph) Contains(eti EntityTypeIndex) bool {
	return g.index.Has(eti.key())
}

// NodeCount is the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// NodesOfType iterates nodes of one type ordered by pool index.
func (g *Graph) NodesOfType(t EntityType) iter.Seq[*Node] {
	var typed []*Node
	for _, n := range g.nodes {
		if n.EntityTypeIndex.EntityType == t {
			typed = append(typed, n)
		}
	}
	slices.SortFunc(typed, func(a, b *Node) int {
		return int(a.EntityTypeIndex.Index) - int(b.EntityTypeIndex.Index)
	})
	return slices.Values(typed)
}

// CountOfType returns how many nodes of a type the graph holds.
func (g *Graph) CountOfType(t EntityType) int {
	count := 0
	for _, n := range g.nodes {
		if n.EntityTypeIndex.EntityType == t {
			count++
		}
	}
	return count
}

func (g *Graph) minIndex() int32 {
	m := int32(0)
	for i, n := range g.nodes {
		if i == 0 || n.EntityTypeIndex.Index < m {
			m = n.EntityTypeIndex.Index
		}
	}
	return m
}
