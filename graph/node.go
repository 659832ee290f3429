package graph

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// NoEntityIDYet marks a node created from a reference before its own pool
// was visited.
const NoEntityIDYet int32 = -1

type Node struct {
	EntityID        int32
	EntityTypeIndex EntityTypeIndex
	ReceivingFrom   []*Node
	SendingTo       []*Node

	ordinal   uint32
	sending   *intmap.Set[uint64]
	receiving *intmap.Set[uint64]
}

// Nodes iterates both adjacency lists without repeating a neighbour.
func (n *Node) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, other := range n.ReceivingFrom {
			if !yield(other) {
				return
			}
		}
		for _, other := range n.SendingTo {
			if n.receiving.Has(other.EntityTypeIndex.key()) {
				continue
			}
			if !yield(other) {
				return
			}
		}
	}
}

// sendTo adds the edge n -> to and its mirror.
func (n *Node) sendTo(to *Node) {
	if n.sending == nil {
		n.sending = intmap.NewSet[uint64](4)
	}
	if to.receiving == nil {
		to.receiving = intmap.NewSet[uint64](4)
	}
	if k := to.EntityTypeIndex.key(); !n.sending.Has(k) {
		n.sending.Add(k)
		n.SendingTo = append(n.SendingTo, to)
	}
	if k := n.EntityTypeIndex.key(); !to.receiving.Has(k) {
		to.receiving.Add(k)
		to.ReceivingFrom = append(to.ReceivingFrom, n)
	}
}
