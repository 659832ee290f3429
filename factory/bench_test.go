package factory_test

import (
	"testing"

	"github.com/plus3/weaver/factory"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/internal/testfactory"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

// benchFactory builds n gear lines with belts into one sub-factory.
func benchFactory(b *testing.B, n int) *factory.SubFactory {
	p := testfactory.New()
	for range n {
		storageEntity, _ := p.Storage(1000, world.StorageGrid{ItemID: testfactory.IronPlate, Count: 1000})
		asmEntity, _ := p.Assembler(testfactory.GearRecipe)
		out := p.Belt(20)
		p.Inserter(storageEntity, asmEntity, testfactory.InserterOptions{CareNeeds: true})
		p.Inserter(asmEntity, out.EntityID, testfactory.InserterOptions{})
	}
	graphs, err := graph.ToGraphs(p.Factory)
	if err != nil {
		b.Fatal(err)
	}
	combined := graph.CombineSmallGraphs(graphs, 1<<30, 1<<30)
	sf := factory.NewSubFactory(p.Planet, factory.BuildTraffic(p.Factory))
	if err := sf.Initialize(combined[0], production.NewPlanetWideProductionRegisterBuilder()); err != nil {
		b.Fatal(err)
	}
	return sf
}

func BenchmarkGameTickInserters(b *testing.B) {
	sf := benchFactory(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sf.GameTickInserters()
	}
}

func BenchmarkGameTickProduction(b *testing.B) {
	sf := benchFactory(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sf.GameTickProduction()
	}
}

func BenchmarkUpdateBelts(b *testing.B) {
	sf := benchFactory(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sf.UpdateBelts()
	}
}

func BenchmarkFullTick(b *testing.B) {
	sf := benchFactory(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sf.UpdatePower()
		sf.GameTickProduction()
		sf.InputFromBelt()
		sf.GameTickInserters()
		sf.UpdateBelts()
		sf.UpdateSplitters()
		sf.OutputToBelt()
	}
}
