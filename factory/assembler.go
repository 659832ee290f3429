package factory

import (
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

// AssemblerExecutor runs the assemblers of one sub-factory.
type AssemblerExecutor struct {
	assemblingCore
	unoptimized []graph.EntityTypeIndex
}

func NewAssemblerExecutor() *AssemblerExecutor {
	return &AssemblerExecutor{assemblingCore: newAssemblingCore()}
}

// Initialize copies the assemblers of g out of the planet. Assemblers whose
// recipe is still locked stay unoptimized.
func (e *AssemblerExecutor) Initialize(planet *world.Planet, g *graph.Graph, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) {
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.Assembler)
	for n := range g.NodesOfType(graph.Assembler) {
		a := planet.Factory.Assemblers.Get(n.EntityTypeIndex.Index)
		if a == nil {
			continue
		}
		if !recipeRunnable(planet, &a.Assembling) {
			e.unoptimized = append(e.unoptimized, n.EntityTypeIndex)
			continue
		}
		e.add(a.ID, &a.Assembling, powerBuilder.AddConsumer(a.PcID), registerBuilder, needs)
	}
}

func (e *AssemblerExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.Assembler)
}

func (e *AssemblerExecutor) GameTick(serves []float32, register *production.SubFactoryProductionRegister) {
	for i := range e.entities {
		if e.states[i] != LabStateActive {
			continue
		}
		e.updateNeeds(i)
		e.states[i] = e.update(i, serves[e.consumers[i].NetworkID], register)
	}
}

func (e *AssemblerExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	e.updatePower(system)
}

// Save writes the executor state back into the planet's assembler pool.
func (e *AssemblerExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		if a := planet.Factory.Assemblers.Get(id); a != nil {
			e.save(i, &a.Assembling)
		}
	}
}

func (e *AssemblerExecutor) Unoptimized() []graph.EntityTypeIndex {
	return e.unoptimized
}

// recipeRunnable reports whether an entity has a recipe it may execute.
// Blueprint-placed machines can carry recipes research has not unlocked.
func recipeRunnable(planet *world.Planet, a *world.Assembling) bool {
	if a.RecipeID == 0 || a.TimeSpend <= 0 {
		return false
	}
	return planet.Research == nil || planet.Research.IsRecipeUnlocked(a.RecipeID)
}
