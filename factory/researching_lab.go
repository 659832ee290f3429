package factory

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
)

const (
	// Matrices are buffered in 1/3600 of an item.
	matrixUnit = 3600
	// Labs ask for matrices while holding fewer than ten.
	matrixBuffer = 10 * matrixUnit
	// hashProgressPerHash is the progress one hash costs at 1x speed.
	hashProgressPerHash = 600000
)

type researchingLab struct {
	speed           int32
	speedOverride   int32
	extraPowerRatio int32
	hashProgress    int32
	replicating     bool
	incUsed         bool
}

// ResearchingLabExecutor runs labs in research mode. All labs of the cluster
// upload into one shared research state, so every invocation holds its lock.
type ResearchingLabExecutor struct {
	labs            []researchingLab
	states          []LabState
	consumers       []power.Consumer
	nextLabs        []int32
	matrixServed    []int32
	matrixIncServed []int32
	matrixRegister  [world.MaxNeeds]int32
	needs           *production.GroupNeeds
	ids             []int32
	indexes         *intmap.Map[int32, int32]
	unoptimized     []graph.EntityTypeIndex
}

func NewResearchingLabExecutor() *ResearchingLabExecutor {
	return &ResearchingLabExecutor{indexes: intmap.New[int32, int32](16)}
}

// Count is the number of optimized research labs.
func (e *ResearchingLabExecutor) Count() int {
	return len(e.labs)
}

func (e *ResearchingLabExecutor) Index(id int32) (int32, bool) {
	return e.indexes.Get(id)
}

func (e *ResearchingLabExecutor) State(i int) LabState {
	return e.states[i]
}

// Initialize copies the research labs of g out of the planet. It fails
// with ErrCrossSubFactoryLab when a lab stacks onto a lab outside g.
func (e *ResearchingLabExecutor) Initialize(planet *world.Planet, g *graph.Graph, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) error {
	labs := planet.Factory.Labs
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.ResearchingLab)
	for n := range g.NodesOfType(graph.ResearchingLab) {
		lab := labs.Get(n.EntityTypeIndex.Index)
		if lab == nil {
			continue
		}
		if planet.Research == nil {
			e.unoptimized = append(e.unoptimized, n.EntityTypeIndex)
			continue
		}

		e.indexes.Put(lab.ID, int32(len(e.labs)))
		e.ids = append(e.ids, lab.ID)
		e.labs = append(e.labs, researchingLab{
			speed:           lab.ResearchSpeed,
			speedOverride:   lab.SpeedOverride,
			extraPowerRatio: lab.ExtraPowerRatio,
			hashProgress:    lab.HashProgress,
			replicating:     lab.Replicating,
			incUsed:         lab.IncUsed,
		})
		e.states = append(e.states, LabStateActive)
		e.consumers = append(e.consumers, powerBuilder.AddConsumer(lab.PcID))
		e.matrixServed = append(e.matrixServed, lab.MatrixServed[:]...)
		e.matrixIncServed = append(e.matrixIncServed, lab.MatrixIncServed[:]...)
		needs.AddNeeds(lab.Needs)
	}
	if len(e.labs) == 0 {
		return nil
	}

	for k, matrix := range world.MatrixIDs {
		e.matrixRegister[k] = registerBuilder.AddItem(matrix)
	}
	e.nextLabs = make([]int32, len(e.ids))
	for i, id := range e.ids {
		e.nextLabs[i] = NoNextLab
		next := labs.Get(id).NextLabID
		if next == 0 {
			continue
		}
		if j, ok := e.indexes.Get(next); ok {
			e.nextLabs[i] = j
			continue
		}
		if labs.Get(next) == nil {
			continue
		}
		if !g.Contains(graph.NewEntityTypeIndex(graph.ResearchingLab, next)) &&
			!g.Contains(graph.NewEntityTypeIndex(graph.ProducingLab, next)) {
			return eris.Wrapf(ErrCrossSubFactoryLab, "lab %d points at lab %d", id, next)
		}
	}
	return nil
}

func (e *ResearchingLabExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.ResearchingLab)
}

func (e *ResearchingLabExecutor) matrices(i int) (served, incServed []int32) {
	s := i * world.MaxNeeds
	return e.matrixServed[s : s+world.MaxNeeds], e.matrixIncServed[s : s+world.MaxNeeds]
}

func (e *ResearchingLabExecutor) updateNeeds(i int, tech *world.Tech) {
	served, _ := e.matrices(i)
	needs := e.needs.Get(i)
	for k := range needs {
		if tech != nil && tech.MatrixPoints[k] > 0 && served[k] < matrixBuffer {
			needs[k] = world.MatrixIDs[k]
		} else {
			needs[k] = 0
		}
	}
}

// GameTickLabResearchMode advances every active lab on the current tech.
func (e *ResearchingLabExecutor) GameTickLabResearchMode(research *world.Research, serves []float32, register *production.SubFactoryProductionRegister) {
	if len(e.labs) == 0 {
		return
	}
	research.Lock()
	defer research.Unlock()

	tech := research.CurrentTech()
	for i := range e.labs {
		e.updateNeeds(i, tech)
		if e.states[i] != LabStateActive {
			continue
		}
		if tech == nil {
			e.labs[i].replicating = false
			continue
		}
		state, unlocked := e.updateResearch(i, research, tech, serves[e.consumers[i].NetworkID], register)
		e.states[i] = state
		if unlocked {
			tech = research.CurrentTech()
		}
	}
}

func (e *ResearchingLabExecutor) updateResearch(i int, research *world.Research, tech *world.Tech, power float32, register *production.SubFactoryProductionRegister) (LabState, bool) {
	if power < minWorkingPower {
		return LabStateActive, false
	}
	l := &e.labs[i]
	served, incServed := e.matrices(i)

	level := int32(cargo.MaxIncLevel)
	for k, points := range tech.MatrixPoints {
		if points == 0 {
			continue
		}
		if served[k] < points {
			l.replicating = false
			return LabStateInactiveInputMissing, false
		}
		level = min(level, cargo.ClampIncLevel(incServed[k]/served[k]))
	}

	l.speedOverride = l.speed
	l.extraPowerRatio = 0
	if level > 0 {
		l.incUsed = true
		l.speedOverride = int32(int64(l.speed) * int64(1000+cargo.AccTableMilli[level]) / 1000)
		l.extraPowerRatio = cargo.PowerTableMilli[level]
	}
	l.replicating = true

	l.hashProgress += int32(power * float32(l.speedOverride) * research.ResearchSpeed)
	hashes := l.hashProgress / hashProgressPerHash
	if hashes == 0 {
		return LabStateActive, false
	}
	for k, points := range tech.MatrixPoints {
		if points > 0 {
			hashes = min(hashes, served[k]/points)
		}
	}
	if hashes == 0 {
		return LabStateActive, false
	}
	l.hashProgress -= hashes * hashProgressPerHash

	for k, points := range tech.MatrixPoints {
		if points == 0 {
			continue
		}
		consumed := points * hashes
		before := served[k]
		incServed[k] -= splitInc(served[k], incServed[k], consumed)
		served[k] -= consumed
		if items := wholeItems(before) - wholeItems(served[k]); items > 0 {
			register.AddConsume(e.matrixRegister[k], items)
		}
	}
	return LabStateActive, research.UploadHashes(int64(hashes))
}

func wholeItems(units int32) int32 {
	return (units + matrixUnit - 1) / matrixUnit
}

// GameTickLabOutputToNext moves whole matrices up the stack.
func (e *ResearchingLabExecutor) GameTickLabOutputToNext(tick int64) {
	for i := int(tick % 5); i < len(e.labs); i += 5 {
		next := e.nextLabs[i]
		if next == NoNextLab {
			continue
		}
		served, incServed := e.matrices(i)
		nextServed, nextIncServed := e.matrices(int(next))
		moved := false
		for k := range served {
			n := min(labTransferCap*matrixUnit, served[k]-matrixUnit, matrixBuffer-nextServed[k])
			n = n / matrixUnit * matrixUnit
			if n <= 0 {
				continue
			}
			inc := splitInc(served[k], incServed[k], n)
			served[k] -= n
			incServed[k] -= inc
			nextServed[k] += n
			nextIncServed[k] += inc
			moved = true
		}
		if moved {
			e.states[i] = LabStateActive
			e.states[next] = LabStateActive
		}
	}
}

func (e *ResearchingLabExecutor) insert(i int, item int16, count, inc int32) bool {
	served, incServed := e.matrices(i)
	for k, matrix := range world.MatrixIDs {
		if matrix == item {
			served[k] += count * matrixUnit
			incServed[k] += inc * matrixUnit
			e.states[i] = LabStateActive
			return true
		}
	}
	return false
}

func (e *ResearchingLabExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	for i := range e.labs {
		l := &e.labs[i]
		system.Add(e.consumers[i], l.replicating, 1000+l.extraPowerRatio)
	}
}

// Save writes matrices and research progress back into the lab pool.
func (e *ResearchingLabExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		lab := planet.Factory.Labs.Get(id)
		if lab == nil {
			continue
		}
		l := &e.labs[i]
		served, incServed := e.matrices(i)
		lab.SpeedOverride = l.speedOverride
		lab.ExtraPowerRatio = l.extraPowerRatio
		lab.HashProgress = l.hashProgress
		lab.Replicating = l.replicating
		lab.IncUsed = l.incUsed
		copy(lab.MatrixServed[:], served)
		copy(lab.MatrixIncServed[:], incServed)
		lab.Needs = append(lab.Needs[:0], e.needs.Get(i)...)
	}
}

func (e *ResearchingLabExecutor) Unoptimized() []graph.EntityTypeIndex {
	return e.unoptimized
}
