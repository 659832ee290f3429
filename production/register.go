package production

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/world"
)

// PlanetWideProductionRegisterBuilder gives every item produced or consumed
// on a planet one canonical index.
type PlanetWideProductionRegisterBuilder struct {
	items   []int16
	indexes *intmap.Map[int16, int32]
}

func NewPlanetWideProductionRegisterBuilder() *PlanetWideProductionRegisterBuilder {
	return &PlanetWideProductionRegisterBuilder{indexes: intmap.New[int16, int32](64)}
}

// AddItem returns the planet-wide index of an item, assigning one if needed.
func (b *PlanetWideProductionRegisterBuilder) AddItem(itemID int16) int32 {
	if idx, ok := b.indexes.Get(itemID); ok {
		return idx
	}
	idx := int32(len(b.items))
	b.items = append(b.items, itemID)
	b.indexes.Put(itemID, idx)
	return idx
}

func (b *PlanetWideProductionRegisterBuilder) Items() []int16 {
	return b.items
}

func (b *PlanetWideProductionRegisterBuilder) GetSubFactoryBuilder() *SubFactoryProductionRegisterBuilder {
	return &SubFactoryProductionRegisterBuilder{
		planet:  b,
		indexes: intmap.New[int32, int32](16),
	}
}

// Build freezes the item numbering. Sub-factory registers built earlier stay
// valid since indices are only ever appended.
func (b *PlanetWideProductionRegisterBuilder) Build() *PlanetWideProductionRegister {
	return &PlanetWideProductionRegister{
		Items:    append([]int16(nil), b.items...),
		Products: make([]int64, len(b.items)),
		Consumes: make([]int64, len(b.items)),
	}
}

// SubFactoryProductionRegisterBuilder numbers the items one sub-factory
// touches densely from zero.
type SubFactoryProductionRegisterBuilder struct {
	planet        *PlanetWideProductionRegisterBuilder
	indexes       *intmap.Map[int32, int32]
	planetIndexes []int32
}

// AddItem returns the sub-factory local index of an item.
func (b *SubFactoryProductionRegisterBuilder) AddItem(itemID int16) int32 {
	planetIdx := b.planet.AddItem(itemID)
	if idx, ok := b.indexes.Get(planetIdx); ok {
		return idx
	}
	idx := int32(len(b.planetIndexes))
	b.planetIndexes = append(b.planetIndexes, planetIdx)
	b.indexes.Put(planetIdx, idx)
	return idx
}

func (b *SubFactoryProductionRegisterBuilder) Build() *SubFactoryProductionRegister {
	return &SubFactoryProductionRegister{
		Products:      make([]int32, len(b.planetIndexes)),
		Consumes:      make([]int32, len(b.planetIndexes)),
		planetIndexes: append([]int32(nil), b.planetIndexes...),
	}
}

// SubFactoryProductionRegister counts production of one sub-factory during a
// tick. Only that sub-factory's executors write to it.
type SubFactoryProductionRegister struct {
	Products      []int32
	Consumes      []int32
	planetIndexes []int32
}

func (r *SubFactoryProductionRegister) AddProduct(local, count int32) {
	r.Products[local] += count
}

func (r *SubFactoryProductionRegister) AddConsume(local, count int32) {
	r.Consumes[local] += count
}

// FlushInto adds the counts to the planet register and clears them.
func (r *SubFactoryProductionRegister) FlushInto(planet *PlanetWideProductionRegister) {
	for local, planetIdx := range r.planetIndexes {
		planet.Products[planetIdx] += int64(r.Products[local])
		planet.Consumes[planetIdx] += int64(r.Consumes[local])
		r.Products[local] = 0
		r.Consumes[local] = 0
	}
}

// PlanetWideProductionRegister collects every sub-factory of a planet.
type PlanetWideProductionRegister struct {
	Items    []int16
	Products []int64
	Consumes []int64
}

// FlushInto adds the counts to the planet statistics by item id and clears
// them.
func (r *PlanetWideProductionRegister) FlushInto(stats *world.Statistics) {
	for i, itemID := range r.Items {
		stats.ProductRegister[itemID] += r.Products[i]
		stats.ConsumeRegister[itemID] += r.Consumes[i]
		r.Products[i] = 0
		r.Consumes[i] = 0
	}
}
