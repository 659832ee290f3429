package optimizer

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/factory"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/work"
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// StageHook runs the host's own systems for one stage of a planet. It is
// scheduled as one extra unit after the planet's sub-factories.
type StageHook func(p *OptimizedPlanet) error

// OptimizedPlanet is a planet split into sub-factories. It implements
// work.Planet.
type OptimizedPlanet struct {
	planet       *world.Planet
	traffic      *cargo.Traffic
	subFactories []*factory.SubFactory
	register     *production.PlanetWideProductionRegister
	unoptimized  []graph.EntityTypeIndex
	hooks        *[work.WorkTypeCount]StageHook
	demand       []int64
	tick         int64
}

// optimizePlanet partitions a planet and initializes one sub-factory per
// graph.
func optimizePlanet(p *world.Planet, opts Options, hooks *[work.WorkTypeCount]StageHook) (*OptimizedPlanet, error) {
	graphs, err := graph.ToGraphs(p.Factory)
	if err != nil {
		return nil, eris.Wrapf(err, "planet %d", p.ID)
	}
	graphs = graph.CombineSmallGraphs(graphs, opts.MinNodesPerGraph, opts.MaxCombinedGraphSize)

	op := &OptimizedPlanet{
		planet:  p,
		traffic: factory.BuildTraffic(p.Factory),
		hooks:   hooks,
		demand:  make([]int64, len(p.Networks)),
	}
	registerBuilder := production.NewPlanetWideProductionRegisterBuilder()
	for i, g := range graphs {
		sf := factory.NewSubFactory(p, op.traffic)
		if err := sf.Initialize(g, registerBuilder); err != nil {
			return nil, eris.Wrapf(err, "planet %d sub-factory %d", p.ID, i)
		}
		op.subFactories = append(op.subFactories, sf)
		op.unoptimized = append(op.unoptimized, sf.Unoptimized()...)
	}
	op.register = registerBuilder.Build()

	log := logrus.WithFields(logrus.Fields{
		"planet":        p.ID,
		"sub_factories": len(op.subFactories),
		"belts":         op.traffic.Len(),
	})
	log.Debug("planet optimized")
	if len(op.unoptimized) > 0 {
		log.WithField("unoptimized", len(op.unoptimized)).Info("entities left to the host")
	}
	return op, nil
}

func (p *OptimizedPlanet) ID() int32 {
	return p.planet.ID
}

// Planet returns the host planet.
func (p *OptimizedPlanet) Planet() *world.Planet {
	return p.planet
}

// Tick is the tick currently being simulated.
func (p *OptimizedPlanet) Tick() int64 {
	return p.tick
}

func (p *OptimizedPlanet) SubFactories() []*factory.SubFactory {
	return p.subFactories
}

func (p *OptimizedPlanet) Traffic() *cargo.Traffic {
	return p.traffic
}

// Unoptimized lists entities no executor runs; the host simulates them in its
// stage hooks.
func (p *OptimizedPlanet) Unoptimized() []graph.EntityTypeIndex {
	return p.unoptimized
}

// WorkCount is the number of sub-factory units of a stage, plus one for the
// power roll-up or the host hook.
func (p *OptimizedPlanet) WorkCount(t work.WorkType) int32 {
	n := int32(0)
	if runsSubFactories(t) {
		n = int32(len(p.subFactories))
	}
	if t == work.Power || p.hooks[t] != nil {
		n++
	}
	return n
}

// ExecuteWork runs one unit. Units below the sub-factory count address a
// sub-factory, the last unit is the planet-wide part of the stage.
func (p *OptimizedPlanet) ExecuteWork(t work.WorkType, unit int32) error {
	if runsSubFactories(t) && int(unit) < len(p.subFactories) {
		p.executeSubFactory(t, p.subFactories[unit])
		return nil
	}
	if t == work.Power {
		p.updatePower()
	}
	if hook := p.hooks[t]; hook != nil {
		return hook(p)
	}
	return nil
}

func runsSubFactories(t work.WorkType) bool {
	switch t {
	case work.BeforePower, work.Assembler, work.LabResearchMode, work.LabOutput2NextData,
		work.InputFromBelt, work.InserterData, work.CargoPathsData, work.Splitter, work.OutputToBelt:
		return true
	}
	return false
}

func (p *OptimizedPlanet) executeSubFactory(t work.WorkType, sf *factory.SubFactory) {
	switch t {
	case work.BeforePower:
		sf.UpdatePower()
	case work.Assembler:
		sf.GameTickProduction()
	case work.LabResearchMode:
		sf.GameTickResearch()
	case work.LabOutput2NextData:
		sf.LabOutputToNext(p.tick)
	case work.InputFromBelt:
		sf.InputFromBelt()
	case work.InserterData:
		sf.GameTickInserters()
	case work.CargoPathsData:
		sf.UpdateBelts()
	case work.Splitter:
		sf.UpdateSplitters()
	case work.OutputToBelt:
		sf.OutputToBelt()
	}
}

// updatePower sums every sub-factory's demand and derives the serve ratio of
// each network. It is the only writer of NetworkServes during a tick.
func (p *OptimizedPlanet) updatePower() {
	clear(p.demand)
	stats := &p.planet.Stats
	for _, sf := range p.subFactories {
		ps := sf.PowerSystem()
		for network, demand := range ps.NetworkDemand {
			p.demand[network] += demand
		}
		for i, proto := range ps.Prototypes {
			stats.PrototypeConsumption[proto] += ps.PrototypeDemand[i]
		}
	}
	power.UpdateServes(p.planet.Networks, p.demand, p.planet.NetworkServes)
	copy(stats.NetworkDemand, p.demand)
}

// rollUp moves this tick's production counts into the planet statistics.
func (p *OptimizedPlanet) rollUp() {
	for _, sf := range p.subFactories {
		sf.Register().FlushInto(p.register)
	}
	p.register.FlushInto(&p.planet.Stats)
}

func (p *OptimizedPlanet) save() {
	for _, sf := range p.subFactories {
		sf.Save()
	}
}
