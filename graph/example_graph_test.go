package graph_test

import (
	"fmt"

	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/world"
)

func ExampleToGraphs() {
	f := world.NewFactory()

	// Two independent storage -> inserter -> assembler lines.
	for range 2 {
		storage, _ := f.AddStorage(world.StorageComponent{Capacity: 10})
		assembler, _ := f.AddAssembler(world.AssemblerComponent{})
		f.AddInserter(world.InserterComponent{PickTarget: storage, InsertTarget: assembler})
	}

	graphs, err := graph.ToGraphs(f)
	if err != nil {
		panic(err)
	}
	fmt.Println("graphs:", len(graphs))
	for _, g := range graphs {
		fmt.Println(g.NodeCount(), g.CountOfType(graph.Inserter), g.CountOfType(graph.Assembler), g.CountOfType(graph.Storage))
	}

	combined := graph.CombineSmallGraphs(graphs, 20, 2000)
	fmt.Println("combined:", len(combined), combined[0].NodeCount())
	// Output:
	// graphs: 2
	// 3 1 1 1
	// 3 1 1 1
	// combined: 1 6
}

func ExampleResolve() {
	f := world.NewFactory()
	path := f.AddCargoPath(cargo.NewPath(0, 4, 1, 4), 0)
	belt, _ := f.AddBelt(path, 1)
	_, labID := f.AddLab(world.LabComponent{ResearchMode: true})
	lab := f.Labs.Get(labID).EntityID

	for _, entity := range []int32{belt, lab} {
		eti, err := graph.Resolve(f, entity)
		if err != nil {
			panic(err)
		}
		fmt.Println(eti)
	}
	// Output:
	// Belt[1]
	// ResearchingLab[1]
}
