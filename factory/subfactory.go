package factory

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
	"github.com/sirupsen/logrus"
)

// SubFactory runs one connected slice of a planet's factory. Nothing outside
// it reads or writes its entities during a tick, so sub-factories of a
// planet may tick in parallel.
type SubFactory struct {
	planet  *world.Planet
	traffic *cargo.Traffic
	belts   []cargo.BeltIndex

	Storages        *StorageExecutor
	Assemblers      *AssemblerExecutor
	ProducingLabs   *ProducingLabExecutor
	ResearchingLabs *ResearchingLabExecutor
	Fractionators   *FractionatorExecutor
	Silos           *SiloExecutor
	Ejectors        *EjectorExecutor
	Splitters       *SplitterExecutor
	Inserters       *InserterExecutor
	BiInserters     *BiInserterExecutor

	targets  *targets
	needs    *production.SubFactoryNeeds
	register *production.SubFactoryProductionRegister
	power    *power.SubFactoryPowerSystem
}

func NewSubFactory(planet *world.Planet, traffic *cargo.Traffic) *SubFactory {
	return &SubFactory{
		planet:          planet,
		traffic:         traffic,
		Storages:        NewStorageExecutor(),
		Assemblers:      NewAssemblerExecutor(),
		ProducingLabs:   NewProducingLabExecutor(),
		ResearchingLabs: NewResearchingLabExecutor(),
		Fractionators:   NewFractionatorExecutor(),
		Silos:           NewSiloExecutor(),
		Ejectors:        NewEjectorExecutor(),
		Splitters:       NewSplitterExecutor(),
		Inserters:       NewInserterExecutor(),
		BiInserters:     NewBiInserterExecutor(),
	}
}

// Initialize builds every executor from the entities of g. Items the
// sub-factory produces or consumes are numbered in registerBuilder.
func (s *SubFactory) Initialize(g *graph.Graph, registerBuilder *production.PlanetWideProductionRegisterBuilder) error {
	planet := s.planet
	powerBuilder := power.NewSubFactoryPowerSystemBuilder(planet)
	subRegister := registerBuilder.GetSubFactoryBuilder()
	needsBuilder := production.NewSubFactoryNeedsBuilder()

	s.Storages.Initialize(planet, g)
	s.Assemblers.Initialize(planet, g, powerBuilder, subRegister, needsBuilder)
	if err := s.ProducingLabs.Initialize(planet, g, powerBuilder, subRegister, needsBuilder); err != nil {
		return err
	}
	if err := s.ResearchingLabs.Initialize(planet, g, powerBuilder, subRegister, needsBuilder); err != nil {
		return err
	}
	s.Fractionators.Initialize(planet, g, s.traffic, powerBuilder, subRegister, needsBuilder)
	s.Silos.Initialize(planet, g, powerBuilder, subRegister, needsBuilder)
	s.Ejectors.Initialize(planet, g, powerBuilder, subRegister, needsBuilder)
	s.Splitters.Initialize(planet, g, s.traffic, s.Storages)

	s.needs = needsBuilder.Build()
	s.Assemblers.bindNeeds(s.needs)
	s.ProducingLabs.bindNeeds(s.needs)
	s.ResearchingLabs.bindNeeds(s.needs)
	s.Fractionators.bindNeeds(s.needs)
	s.Silos.bindNeeds(s.needs)
	s.Ejectors.bindNeeds(s.needs)

	s.targets = &targets{
		traffic:         s.traffic,
		assemblers:      s.Assemblers,
		producingLabs:   s.ProducingLabs,
		researchingLabs: s.ResearchingLabs,
		fractionators:   s.Fractionators,
		silos:           s.Silos,
		ejectors:        s.Ejectors,
		storages:        s.Storages,
		needs:           s.needs,
	}
	if err := initializeInserters(planet, g, s.targets, powerBuilder, s.Inserters, s.BiInserters); err != nil {
		return err
	}

	for n := range g.NodesOfType(graph.Belt) {
		if idx, ok := s.traffic.Index(n.EntityTypeIndex.Index); ok {
			s.belts = append(s.belts, idx)
		}
	}

	s.register = subRegister.Build()
	s.power = powerBuilder.Build()

	logrus.WithFields(logrus.Fields{
		"planet":           planet.ID,
		"nodes":            g.NodeCount(),
		"inserters":        s.Inserters.Count(),
		"bi_inserters":     s.BiInserters.Count(),
		"assemblers":       s.Assemblers.Count(),
		"producing_labs":   s.ProducingLabs.Count(),
		"researching_labs": s.ResearchingLabs.Count(),
		"fractionators":    s.Fractionators.Count(),
		"silos":            s.Silos.Count(),
		"ejectors":         s.Ejectors.Count(),
		"splitters":        s.Splitters.Count(),
		"belts":            len(s.belts),
	}).Debug("sub-factory optimized")
	return nil
}

// Unoptimized lists entities left for the host to simulate.
func (s *SubFactory) Unoptimized() []graph.EntityTypeIndex {
	var out []graph.EntityTypeIndex
	out = append(out, s.Assemblers.Unoptimized()...)
	out = append(out, s.ProducingLabs.Unoptimized()...)
	out = append(out, s.ResearchingLabs.Unoptimized()...)
	out = append(out, s.Inserters.Unoptimized()...)
	return out
}

func (s *SubFactory) Register() *production.SubFactoryProductionRegister {
	return s.register
}

func (s *SubFactory) PowerSystem() *power.SubFactoryPowerSystem {
	return s.power
}

// UpdatePower recomputes this tick's power demand.
func (s *SubFactory) UpdatePower() {
	s.power.Reset()
	s.Assemblers.UpdatePower(s.power)
	s.ProducingLabs.UpdatePower(s.power)
	s.ResearchingLabs.UpdatePower(s.power)
	s.Fractionators.UpdatePower(s.power)
	s.Silos.UpdatePower(s.power)
	s.Ejectors.UpdatePower(s.power)
	s.Inserters.UpdatePower(s.power)
	s.BiInserters.UpdatePower(s.power)
}

// GameTickProduction runs every producing machine.
func (s *SubFactory) GameTickProduction() {
	serves := s.planet.NetworkServes
	s.Assemblers.GameTick(serves, s.register)
	s.ProducingLabs.GameTickLabProduceMode(serves, s.register)
	s.Fractionators.GameTick(serves, s.register)
	s.Silos.GameTick(s.planet.Dyson, serves, s.register)
	s.Ejectors.GameTick(s.planet.Dyson, serves, s.register)
}

// GameTickResearch takes the cluster research lock for its whole duration.
func (s *SubFactory) GameTickResearch() {
	if s.planet.Research == nil {
		return
	}
	s.ResearchingLabs.GameTickLabResearchMode(s.planet.Research, s.planet.NetworkServes, s.register)
}

// LabOutputToNext moves produced items and matrices up lab stacks. Only
// one tick bucket of labs runs per call.
func (s *SubFactory) LabOutputToNext(tick int64) {
	s.ProducingLabs.GameTickLabOutputToNext(tick)
	s.ResearchingLabs.GameTickLabOutputToNext(tick)
}

func (s *SubFactory) InputFromBelt() {
	s.Fractionators.InputFromBelt(s.traffic)
}

// GameTickInserters runs plain and bidirectional inserters.
func (s *SubFactory) GameTickInserters() {
	serves := s.planet.NetworkServes
	s.Inserters.GameTick(serves, s.targets)
	s.BiInserters.GameTick(serves, s.targets)
}

// UpdateBelts moves cargo on every belt of the sub-factory.
func (s *SubFactory) UpdateBelts() {
	for _, idx := range s.belts {
		s.traffic.UpdatePath(idx)
	}
}

// UpdateSplitters routes cargo through every splitter.
func (s *SubFactory) UpdateSplitters() {
	s.Splitters.UpdateSplitters(s.traffic, s.Storages)
}

func (s *SubFactory) OutputToBelt() {
	s.Fractionators.OutputToBelt(s.traffic)
}

// Save writes every executor back into the planet's pools.
func (s *SubFactory) Save() {
	s.Storages.Save(s.planet)
	s.Assemblers.Save(s.planet)
	s.ProducingLabs.Save(s.planet)
	s.ResearchingLabs.Save(s.planet)
	s.Fractionators.Save(s.planet)
	s.Silos.Save(s.planet)
	s.Ejectors.Save(s.planet)
	s.Splitters.Save(s.planet)
	s.Inserters.Save(s.planet)
	s.BiInserters.Save(s.planet)
}
