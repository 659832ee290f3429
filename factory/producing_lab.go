package factory

import (
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
)

// NoNextLab marks a lab at the top of its stack.
const NoNextLab int32 = -1

// labTransferCap bounds items moved between stacked labs per transfer.
const labTransferCap = 5

var ErrCrossSubFactoryLab = eris.New("next lab is outside the sub-factory")

// ProducingLabExecutor runs labs in production mode. Stacked labs pass
// ingredients up and products down through OutputToNext.
type ProducingLabExecutor struct {
	assemblingCore
	nextLabs    []int32
	unoptimized []graph.EntityTypeIndex
}

func NewProducingLabExecutor() *ProducingLabExecutor {
	return &ProducingLabExecutor{assemblingCore: newAssemblingCore()}
}

// Initialize copies the production labs of g out of the planet. It fails
// with ErrCrossSubFactoryLab when a lab stacks onto a lab outside g.
func (e *ProducingLabExecutor) Initialize(planet *world.Planet, g *graph.Graph, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) error {
	labs := planet.Factory.Labs
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.ProducingLab)
	for n := range g.NodesOfType(graph.ProducingLab) {
		lab := labs.Get(n.EntityTypeIndex.Index)
		if lab == nil {
			continue
		}
		if lab.ResearchMode || !recipeRunnable(planet, &lab.Assembling) {
			e.unoptimized = append(e.unoptimized, n.EntityTypeIndex)
			continue
		}
		e.add(lab.ID, &lab.Assembling, powerBuilder.AddConsumer(lab.PcID), registerBuilder, needs)
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
		nextLab := labs.Get(next)
		if nextLab == nil {
			continue
		}
		if !g.Contains(graph.NewEntityTypeIndex(graph.ProducingLab, next)) &&
			!g.Contains(graph.NewEntityTypeIndex(graph.ResearchingLab, next)) {
			return eris.Wrapf(ErrCrossSubFactoryLab, "lab %d points at lab %d", id, next)
		}
	}
	return nil
}

func (e *ProducingLabExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.ProducingLab)
}

// NextLab returns the dense index of the lab above i, or NoNextLab.
func (e *ProducingLabExecutor) NextLab(i int) int32 {
	return e.nextLabs[i]
}

func (e *ProducingLabExecutor) GameTickLabProduceMode(serves []float32, register *production.SubFactoryProductionRegister) {
	for i := range e.entities {
		if e.states[i] != LabStateActive {
			continue
		}
		e.updateNeeds(i)
		e.states[i] = e.update(i, serves[e.consumers[i].NetworkID], register)
	}
}

// GameTickLabOutputToNext serves one fifth of the stacks each tick.
func (e *ProducingLabExecutor) GameTickLabOutputToNext(tick int64) {
	for i := int(tick % 5); i < len(e.entities); i += 5 {
		next := e.nextLabs[i]
		if next == NoNextLab {
			continue
		}
		if e.outputToNext(i, int(next)) {
			e.states[i] = LabStateActive
			e.states[next] = LabStateActive
		}
	}
}

func (e *ProducingLabExecutor) outputToNext(i, next int) bool {
	if e.entities[i].recipe != e.entities[next].recipe {
		return false
	}
	r, served, incServed, produced := e.buffers(i)
	_, nextServed, nextIncServed, nextProduced := e.buffers(next)
	nextNeeds := e.needs.Get(next)

	moved := false
	for j, item := range r.Requires {
		if j >= len(nextNeeds) || nextNeeds[j] != item {
			continue
		}
		n := min(served[j]-r.RequireCounts[j], labTransferCap)
		if n <= 0 {
			continue
		}
		inc := splitInc(served[j], incServed[j], n)
		served[j] -= n
		incServed[j] -= inc
		nextServed[j] += n
		nextIncServed[j] += inc
		moved = true
	}

	for j, count := range r.ProductCounts {
		room := count*maxOutputBatches - produced[j]
		n := min(nextProduced[j], labTransferCap, room)
		if n <= 0 {
			continue
		}
		nextProduced[j] -= n
		produced[j] += n
		moved = true
	}
	return moved
}

func (e *ProducingLabExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	e.updatePower(system)
}

// Save writes the lab state back into the planet's lab pool.
func (e *ProducingLabExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		if lab := planet.Factory.Labs.Get(id); lab != nil {
			e.save(i, &lab.Assembling)
		}
	}
}

func (e *ProducingLabExecutor) Unoptimized() []graph.EntityTypeIndex {
	return e.unoptimized
}
