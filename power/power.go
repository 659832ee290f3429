package power

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/world"
)

// ConsumerType is the energy profile shared by consumers of one model.
type ConsumerType struct {
	IdleEnergyPerTick int64
	WorkEnergyPerTick int64
}

// GetRequiredEnergy returns the energy one consumer draws this tick.
// permillage scales the working draw; 1000 is nominal.
func (c ConsumerType) GetRequiredEnergy(working bool, permillage int32) int64 {
	if !working {
		return c.IdleEnergyPerTick
	}
	return c.IdleEnergyPerTick + c.WorkEnergyPerTick*int64(permillage)/1000
}

// Consumer is the resolved power slot of one optimized entity.
type Consumer struct {
	NetworkID      int32
	TypeIndex      int32
	PrototypeIndex int32
}

// NoConsumer is used for entities without a power consumer. Network 0 never
// supplies power.
var NoConsumer = Consumer{TypeIndex: -1, PrototypeIndex: -1}

// SubFactoryPowerSystemBuilder dedupes the consumer types of a sub-factory.
type SubFactoryPowerSystemBuilder struct {
	planet           *world.Planet
	types            []ConsumerType
	typeIndexes      map[ConsumerType]int32
	prototypes       []int32
	prototypeIndexes *intmap.Map[int32, int32]
}

func NewSubFactoryPowerSystemBuilder(planet *world.Planet) *SubFactoryPowerSystemBuilder {
	return &SubFactoryPowerSystemBuilder{
		planet:           planet,
		typeIndexes:      make(map[ConsumerType]int32),
		prototypeIndexes: intmap.New[int32, int32](8),
	}
}

// AddConsumer resolves a power consumer id. Id 0 yields NoConsumer.
func (b *SubFactoryPowerSystemBuilder) AddConsumer(pcID int32) Consumer {
	pc := b.planet.Factory.PowerConsumers.Get(pcID)
	if pc == nil {
		return NoConsumer
	}

	ct := ConsumerType{IdleEnergyPerTick: pc.IdleEnergyPerTick, WorkEnergyPerTick: pc.WorkEnergyPerTick}
	typeIdx, ok := b.typeIndexes[ct]
	if !ok {
		typeIdx = int32(len(b.types))
		b.types = append(b.types, ct)
		b.typeIndexes[ct] = typeIdx
	}

	protoIdx, ok := b.prototypeIndexes.Get(pc.PrototypeID)
	if !ok {
		protoIdx = int32(len(b.prototypes))
		b.prototypes = append(b.prototypes, pc.PrototypeID)
		b.prototypeIndexes.Put(pc.PrototypeID, protoIdx)
	}

	networkID := pc.NetworkID
	if networkID < 0 || int(networkID) >= len(b.planet.Networks) {
		networkID = 0
	}
	return Consumer{NetworkID: networkID, TypeIndex: typeIdx, PrototypeIndex: protoIdx}
}

func (b *SubFactoryPowerSystemBuilder) Build() *SubFactoryPowerSystem {
	return &SubFactoryPowerSystem{
		Types:           b.types,
		Prototypes:      b.prototypes,
		NetworkDemand:   make([]int64, len(b.planet.Networks)),
		PrototypeDemand: make([]int64, len(b.prototypes)),
	}
}

// SubFactoryPowerSystem accumulates the demand of one sub-factory.
type SubFactoryPowerSystem struct {
	Types           []ConsumerType
	Prototypes      []int32
	NetworkDemand   []int64
	PrototypeDemand []int64
}

func (s *SubFactoryPowerSystem) Reset() {
	clear(s.NetworkDemand)
	clear(s.PrototypeDemand)
}

// Add records one consumer's draw for this tick.
func (s *SubFactoryPowerSystem) Add(c Consumer, working bool, permillage int32) {
	if c.TypeIndex < 0 {
		return
	}
	energy := s.Types[c.TypeIndex].GetRequiredEnergy(working, permillage)
	s.NetworkDemand[c.NetworkID] += energy
	s.PrototypeDemand[c.PrototypeIndex] += energy
}

// UpdateServes sums demand per network and derives the fraction each network
// can supply. serves and demand are indexed by network id.
func UpdateServes(networks []world.PowerNetwork, demand []int64, serves []float32) {
	for i := range networks {
		switch {
		case i == 0:
			serves[i] = 0
		case demand[i] <= 0:
			serves[i] = 1
		case networks[i].GenerationCapacity >= demand[i]:
			serves[i] = 1
		default:
			serves[i] = float32(float64(networks[i].GenerationCapacity) / float64(demand[i]))
		}
	}
}
