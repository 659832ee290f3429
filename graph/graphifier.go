package graph

import (
	"slices"

	"github.com/kelindar/bitmap"
	"github.com/plus3/weaver/world"
)

// ToGraphs builds the factory graph and splits it into connected components.
func ToGraphs(f *world.Factory) ([]*Graph, error) {
	all, err := Build(f)
	if err != nil {
		return nil, err
	}
	return Split(all), nil
}

// Split partitions a graph into its connected components by flood fill. Each
// node is visited once.
func Split(all *Graph) []*Graph {
	nodes := all.Nodes()
	var unvisited bitmap.Bitmap
	for i, n := range nodes {
		n.ordinal = uint32(i)
		unvisited.Set(uint32(i))
	}

	var graphs []*Graph
	var queue []*Node
	for i, seed := range nodes {
		if !unvisited.Contains(uint32(i)) {
			continue
		}
		unvisited.Remove(uint32(i))

		g := NewGraph()
		queue = append(queue[:0], seed)
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			g.add(n)
			for other := range n.Nodes() {
				if unvisited.Contains(other.ordinal) {
					unvisited.Remove(other.ordinal)
					queue = append(queue, other)
				}
			}
		}
		graphs = append(graphs, g)
	}
	return graphs
}

// CombineSmallGraphs batches every graph with fewer than minNodePerGraph
// nodes into synthetic graphs of at most maxCombinedGraphSize nodes. Small
// graphs are packed whole, ordered by their lowest pool index, so that no
// connected component is split across sub-factories. Graphs at or above the
// minimum are returned first and unchanged.
func CombineSmallGraphs(graphs []*Graph, minNodePerGraph, maxCombinedGraphSize int) []*Graph {
	var result, small []*Graph
	total := 0
	for _, g := range graphs {
		if g.NodeCount() < minNodePerGraph {
			small = append(small, g)
			total += g.NodeCount()
			continue
		}
		result = append(result, g)
	}
	if len(small) == 0 {
		return result
	}

	slices.SortStableFunc(small, func(a, b *Graph) int {
		return int(a.minIndex()) - int(b.minIndex())
	})

	// Chunks are filled up to target; the last one absorbs a remainder of
	// fewer than minNodePerGraph nodes only while it stays within the maximum.
	capacity := maxCombinedGraphSize - 2*(minNodePerGraph-1)
	if capacity <= 0 {
		capacity = maxCombinedGraphSize
	}
	chunks := (total + capacity - 1) / capacity
	target := (total + chunks - 1) / chunks

	var combined [][]*Node
	var current []*Node
	for _, g := range small {
		if len(current) > 0 && len(current)+g.NodeCount() > target {
			combined = append(combined, current)
			current = nil
		}
		current = append(current, g.Nodes()...)
	}
	last := len(combined) - 1
	if last >= 0 && len(current) < minNodePerGraph && len(combined[last])+len(current) <= maxCombinedGraphSize {
		combined[last] = append(combined[last], current...)
	} else {
		combined = append(combined, current)
	}

	for _, nodes := range combined {
		slices.SortStableFunc(nodes, func(a, b *Node) int {
			return int(a.EntityTypeIndex.Index) - int(b.EntityTypeIndex.Index)
		})
		g := NewGraph()
		for _, n := range nodes {
			g.add(n)
		}
		result = append(result, g)
	}
	return result
}
