package production

import (
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/world"
)

// GroupNeeds is the packed needs array of one entity type in a sub-factory.
// Entity i owns Needs[i*world.MaxNeeds : (i+1)*world.MaxNeeds].
type GroupNeeds struct {
	Needs []int16
}

// Get returns the needs slice of the entity at dense index i.
func (g *GroupNeeds) Get(i int) []int16 {
	start := i * world.MaxNeeds
	return g.Needs[start : start+world.MaxNeeds : start+world.MaxNeeds]
}

func (g *GroupNeeds) Len() int {
	return len(g.Needs) / world.MaxNeeds
}

// SubFactoryNeeds holds the needs of every needy entity type.
type SubFactoryNeeds struct {
	groups [graph.EntityTypeCount]*GroupNeeds
}

// Group returns the needs of one type, or nil when the type has none.
func (n *SubFactoryNeeds) Group(t graph.EntityType) *GroupNeeds {
	return n.groups[t]
}

// Needs returns the needs of one entity, or nil when its type has none.
func (n *SubFactoryNeeds) Needs(t graph.EntityType, index int) []int16 {
	g := n.groups[t]
	if g == nil || index < 0 || index >= g.Len() {
		return nil
	}
	return g.Get(index)
}

type SubFactoryNeedsBuilder struct {
	groups [graph.EntityTypeCount]*GroupNeedsBuilder
}

func NewSubFactoryNeedsBuilder() *SubFactoryNeedsBuilder {
	return &SubFactoryNeedsBuilder{}
}

// CreateGroupNeedsBuilder starts the needs group of a type. Calling it twice
// for the same type returns the same builder.
func (b *SubFactoryNeedsBuilder) CreateGroupNeedsBuilder(t graph.EntityType) *GroupNeedsBuilder {
	if b.groups[t] == nil {
		b.groups[t] = &GroupNeedsBuilder{}
	}
	return b.groups[t]
}

func (b *SubFactoryNeedsBuilder) Build() *SubFactoryNeeds {
	needs := &SubFactoryNeeds{}
	for t, g := range b.groups {
		if g != nil {
			needs.groups[t] = &GroupNeeds{Needs: g.needs}
		}
	}
	return needs
}

// GroupNeedsBuilder appends entities' initial needs in dense index order.
type GroupNeedsBuilder struct {
	needs []int16
}

// AddNeeds appends one entity. needs may be shorter than world.MaxNeeds or
// nil; the rest is zero filled.
func (g *GroupNeedsBuilder) AddNeeds(needs []int16) {
	var padded [world.MaxNeeds]int16
	copy(padded[:], needs)
	g.needs = append(g.needs, padded[:]...)
}
