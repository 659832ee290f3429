package factory

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

const (
	// launcherBulletBuffer is how many rockets or sails launchers ask for.
	launcherBulletBuffer = 20
	launcherSpeed        = 10000
)

type OptimizedSilo struct {
	bulletID       int16
	chargeSpend    int32
	coldSpend      int32
	bulletRegister int32
}

type launcherState struct {
	direction   world.LauncherDirection
	time        int32
	bulletCount int32
	bulletInc   int32
	incLevel    int32
	incUsed     bool
}

// step advances the charge cycle. It reports whether a bullet was fired.
func (st *launcherState) step(power float32, canFire bool, chargeSpend, coldSpend int32) bool {
	speed := int32(float32(launcherSpeed) * power)
	switch st.direction {
	case world.LauncherCharging:
		if !canFire {
			st.direction = world.LauncherCooling
			return false
		}
		st.time += int32(int64(speed) * int64(1000+cargo.AccTableMilli[st.incLevel]) / 1000)
		if st.time < chargeSpend || st.bulletCount <= 0 {
			return false
		}
		st.bulletInc -= splitInc(st.bulletCount, st.bulletInc, 1)
		st.bulletCount--
		st.direction = world.LauncherCooling
		st.time = coldSpend
		return true
	case world.LauncherCooling:
		st.time -= speed
		if st.time <= 0 {
			st.time = 0
			st.direction = world.LauncherIdle
		}
	default:
		if canFire && st.bulletCount > 0 {
			st.direction = world.LauncherCharging
			st.time = 0
			st.incLevel = splitIncLevel(st.bulletCount, st.bulletInc, 1)
			if st.incLevel > 0 {
				st.incUsed = true
			}
		}
	}
	return false
}

func (st *launcherState) insert(count, inc int32) {
	st.bulletCount += count
	st.bulletInc += inc
}

// SiloExecutor launches rockets at the star's dyson sphere.
type SiloExecutor struct {
	silos     []OptimizedSilo
	states    []launcherState
	consumers []power.Consumer
	needs     *production.GroupNeeds
	ids       []int32
	indexes   *intmap.Map[int32, int32]
}

func NewSiloExecutor() *SiloExecutor {
	return &SiloExecutor{indexes: intmap.New[int32, int32](8)}
}

// Count is the number of optimized silos.
func (e *SiloExecutor) Count() int {
	return len(e.silos)
}

func (e *SiloExecutor) Index(id int32) (int32, bool) {
	return e.indexes.Get(id)
}

// Initialize copies the silos of g out of the planet.
func (e *SiloExecutor) Initialize(planet *world.Planet, g *graph.Graph, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) {
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.Silo)
	for n := range g.NodesOfType(graph.Silo) {
		s := planet.Factory.Silos.Get(n.EntityTypeIndex.Index)
		if s == nil {
			continue
		}
		e.indexes.Put(s.ID, int32(len(e.silos)))
		e.ids = append(e.ids, s.ID)
		e.silos = append(e.silos, OptimizedSilo{
			bulletID:       s.BulletID,
			chargeSpend:    s.ChargeSpend,
			coldSpend:      s.ColdSpend,
			bulletRegister: registerBuilder.AddItem(s.BulletID),
		})
		e.states = append(e.states, launcherState{
			direction:   s.Direction,
			time:        s.Time,
			bulletCount: s.BulletCount,
			bulletInc:   s.BulletInc,
			incLevel:    cargo.ClampIncLevel(s.IncLevel),
			incUsed:     s.IncUsed,
		})
		e.consumers = append(e.consumers, powerBuilder.AddConsumer(s.PcID))
		needs.AddNeeds(s.Needs)
	}
}

func (e *SiloExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.Silo)
}

func (e *SiloExecutor) GameTick(dyson *world.DysonSphere, serves []float32, register *production.SubFactoryProductionRegister) {
	canFire := dyson.HasNodes()
	for i := range e.silos {
		s := &e.silos[i]
		st := &e.states[i]
		needs := e.needs.Get(i)
		if st.bulletCount < launcherBulletBuffer {
			needs[0] = s.bulletID
		} else {
			needs[0] = 0
		}

		power := serves[e.consumers[i].NetworkID]
		if power < minWorkingPower {
			continue
		}
		if st.step(power, canFire, s.chargeSpend, s.coldSpend) {
			dyson.LaunchRocket()
			register.AddConsume(s.bulletRegister, 1)
		}
	}
}

func (e *SiloExecutor) insert(i int, item int16, count, inc int32) bool {
	if item != e.silos[i].bulletID {
		return false
	}
	e.states[i].insert(count, inc)
	return true
}

func (e *SiloExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	for i := range e.states {
		st := &e.states[i]
		system.Add(e.consumers[i], st.direction != world.LauncherIdle, 1000+cargo.PowerTableMilli[st.incLevel])
	}
}

// Save writes bullets and launch timing back into the silo pool.
func (e *SiloExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		s := planet.Factory.Silos.Get(id)
		if s == nil {
			continue
		}
		st := &e.states[i]
		s.Direction = st.direction
		s.Time = st.time
		s.BulletCount = st.bulletCount
		s.BulletInc = st.bulletInc
		s.IncLevel = st.incLevel
		s.IncUsed = st.incUsed
		s.Needs = append(s.Needs[:0], e.needs.Get(i)...)
	}
}
