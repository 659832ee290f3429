package factory

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/production"
)

// TypedIndex locates an optimized entity inside its sub-factory. Belts are
// indexed into the planet's traffic.
type TypedIndex struct {
	Type  graph.EntityType
	Index int32
}

// targets dispatches inserter picks and inserts to the executor owning the
// target.
type targets struct {
	traffic         *cargo.Traffic
	assemblers      *AssemblerExecutor
	producingLabs   *ProducingLabExecutor
	researchingLabs *ResearchingLabExecutor
	fractionators   *FractionatorExecutor
	silos           *SiloExecutor
	ejectors        *EjectorExecutor
	storages        *StorageExecutor
	needs           *production.SubFactoryNeeds
}

// resolve maps a graph node to its optimized entity. It fails for entities
// no executor runs.
func (t *targets) resolve(eti graph.EntityTypeIndex) (TypedIndex, bool) {
	var idx int32
	var ok bool
	switch eti.EntityType {
	case graph.Belt:
		var belt cargo.BeltIndex
		belt, ok = t.traffic.Index(eti.Index)
		idx = int32(belt)
	case graph.Assembler:
		idx, ok = t.assemblers.Index(eti.Index)
	case graph.ProducingLab:
		idx, ok = t.producingLabs.Index(eti.Index)
	case graph.ResearchingLab:
		idx, ok = t.researchingLabs.Index(eti.Index)
	case graph.Fractionator:
		idx, ok = t.fractionators.Index(eti.Index)
	case graph.Silo:
		idx, ok = t.silos.Index(eti.Index)
	case graph.Ejector:
		idx, ok = t.ejectors.Index(eti.Index)
	case graph.Storage:
		idx, ok = t.storages.Index(eti.Index)
	}
	return TypedIndex{Type: eti.EntityType, Index: idx}, ok
}

// needsOf returns the needs of a target, or nil when it takes anything.
func (t *targets) needsOf(ti TypedIndex) []int16 {
	return t.needs.Needs(ti.Type, int(ti.Index))
}

func (t *targets) pick(ti TypedIndex, filter int16, needs []int16) (item int16, count, inc int32, ok bool) {
	i := int(ti.Index)
	switch ti.Type {
	case graph.Belt:
		c, picked := t.traffic.Path(cargo.BeltIndex(ti.Index)).TryPickCargoAtEnd(filter, needs)
		return c.Item, int32(c.Stack), int32(c.Inc), picked
	case graph.Assembler:
		item, ok = t.assemblers.pick(i, filter, needs)
		return item, 1, 0, ok
	case graph.ProducingLab:
		item, ok = t.producingLabs.pick(i, filter, needs)
		return item, 1, 0, ok
	case graph.Fractionator:
		item, inc, ok = t.fractionators.pick(i, filter, needs)
		return item, 1, inc, ok
	case graph.Storage:
		item, inc, ok = t.storages.take(i, func(item int16) bool {
			return (filter == 0 || filter == item) && (needs == nil || needsItem(needs, item))
		})
		return item, 1, inc, ok
	}
	return 0, 0, 0, false
}

// insert hands count items to a target. Belts stack onto the head cargo up
// to maxStack; every other target takes all items or none.
func (t *targets) insert(ti TypedIndex, item int16, count, inc, maxStack int32) bool {
	i := int(ti.Index)
	switch ti.Type {
	case graph.Belt:
		return t.traffic.Path(cargo.BeltIndex(ti.Index)).TryUpdateItemAtHeadAndFillBlank(item, int(maxStack), byte(count), byte(inc))
	case graph.Assembler:
		return t.assemblers.insert(i, item, count, inc)
	case graph.ProducingLab:
		return t.producingLabs.insert(i, item, count, inc)
	case graph.ResearchingLab:
		return t.researchingLabs.insert(i, item, count, inc)
	case graph.Fractionator:
		return t.fractionators.insert(i, item, count, inc)
	case graph.Silo:
		return t.silos.insert(i, item, count, inc)
	case graph.Ejector:
		return t.ejectors.insert(i, item, count, inc)
	case graph.Storage:
		return t.storages.add(i, item, count, inc)
	}
	return false
}
