package graph

import "fmt"

type EntityType int8

const (
	Belt EntityType = iota
	Assembler
	Ejector
	Silo
	ProducingLab
	ResearchingLab
	Storage
	Station
	Splitter
	Inserter
	Monitor
	SprayCoater
	Piler
	Miner
	Fractionator
	Dispenser
	// VeinGroup only keeps miners sharing a vein in one sub-factory. It is
	// never executed.
	VeinGroup

	EntityTypeCount
)

var entityTypeNames = [EntityTypeCount]string{
	"Belt", "Assembler", "Ejector", "Silo", "ProducingLab", "ResearchingLab",
	"Storage", "Station", "Splitter", "Inserter", "Monitor", "SprayCoater",
	"Piler", "Miner", "Fractionator", "Dispenser", "VeinGroup",
}

func (t EntityType) String() string {
	if t < 0 || t >= EntityTypeCount {
		return fmt.Sprintf("EntityType(%d)", int8(t))
	}
	return entityTypeNames[t]
}

// EntityTypeIndex identifies a slot in one type's pool. Belts are indexed by
// their cargo path id.
type EntityTypeIndex struct {
	EntityType EntityType
	Index      int32
}

// NewEntityTypeIndex addresses entry index of the pool of type t.
func NewEntityTypeIndex(t EntityType, index int32) EntityTypeIndex {
	return EntityTypeIndex{EntityType: t, Index: index}
}

func (e EntityTypeIndex) key() uint64 {
	return uint64(uint8(e.EntityType))<<32 | uint64(uint32(e.Index))
}

func (e EntityTypeIndex) String() string {
	return fmt.Sprintf("%s[%d]", e.EntityType, e.Index)
}
