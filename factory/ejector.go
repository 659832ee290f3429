package factory

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

type OptimizedEjector struct {
	orbitID        int32
	bulletID       int16
	chargeSpend    int32
	coldSpend      int32
	bulletRegister int32
}

// EjectorExecutor fires solar sails into the dyson sphere's orbits.
type EjectorExecutor struct {
	ejectors  []OptimizedEjector
	states    []launcherState
	consumers []power.Consumer
	needs     *production.GroupNeeds
	ids       []int32
	indexes   *intmap.Map[int32, int32]
}

func NewEjectorExecutor() *EjectorExecutor {
	return &EjectorExecutor{indexes: intmap.New[int32, int32](8)}
}

// Count is the number of optimized ejectors.
func (e *EjectorExecutor) Count() int {
	return len(e.ejectors)
}

func (e *EjectorExecutor) Index(id int32) (int32, bool) {
	return e.indexes.Get(id)
}

// Initialize copies the ejectors of g out of the planet.
func (e *EjectorExecutor) Initialize(planet *world.Planet, g *graph.Graph, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) {
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.Ejector)
	for n := range g.NodesOfType(graph.Ejector) {
		ej := planet.Factory.Ejectors.Get(n.EntityTypeIndex.Index)
		if ej == nil {
			continue
		}
		e.indexes.Put(ej.ID, int32(len(e.ejectors)))
		e.ids = append(e.ids, ej.ID)
		e.ejectors = append(e.ejectors, OptimizedEjector{
			orbitID:        ej.OrbitID,
			bulletID:       ej.BulletID,
			chargeSpend:    ej.ChargeSpend,
			coldSpend:      ej.ColdSpend,
			bulletRegister: registerBuilder.AddItem(ej.BulletID),
		})
		e.states = append(e.states, launcherState{
			direction:   ej.Direction,
			time:        ej.Time,
			bulletCount: ej.BulletCount,
			bulletInc:   ej.BulletInc,
			incLevel:    cargo.ClampIncLevel(ej.IncLevel),
			incUsed:     ej.IncUsed,
		})
		e.consumers = append(e.consumers, powerBuilder.AddConsumer(ej.PcID))
		needs.AddNeeds(ej.Needs)
	}
}

func (e *EjectorExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.Ejector)
}

func (e *EjectorExecutor) GameTick(dyson *world.DysonSphere, serves []float32, register *production.SubFactoryProductionRegister) {
	for i := range e.ejectors {
		ej := &e.ejectors[i]
		st := &e.states[i]
		needs := e.needs.Get(i)
		if st.bulletCount < launcherBulletBuffer {
			needs[0] = ej.bulletID
		} else {
			needs[0] = 0
		}

		power := serves[e.consumers[i].NetworkID]
		if power < minWorkingPower {
			continue
		}
		if st.step(power, dyson.HasOrbit(ej.orbitID), ej.chargeSpend, ej.coldSpend) {
			dyson.LaunchSail()
			register.AddConsume(ej.bulletRegister, 1)
		}
	}
}

func (e *EjectorExecutor) insert(i int, item int16, count, inc int32) bool {
	if item != e.ejectors[i].bulletID {
		return false
	}
	e.states[i].insert(count, inc)
	return true
}

func (e *EjectorExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	for i := range e.states {
		st := &e.states[i]
		system.Add(e.consumers[i], st.direction != world.LauncherIdle, 1000+cargo.PowerTableMilli[st.incLevel])
	}
}

// Save writes bullets and aim back into the ejector pool.
func (e *EjectorExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		ej := planet.Factory.Ejectors.Get(id)
		if ej == nil {
			continue
		}
		st := &e.states[i]
		ej.Direction = st.direction
		ej.Time = st.time
		ej.BulletCount = st.bulletCount
		ej.BulletInc = st.bulletInc
		ej.IncLevel = st.incLevel
		ej.IncUsed = st.incUsed
		ej.Needs = append(ej.Needs[:0], e.needs.Get(i)...)
	}
}
