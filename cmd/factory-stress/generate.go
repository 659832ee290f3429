package main

import (
	"math/rand/v2"

	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/world"
)

const (
	itemIronPlate int16 = 1101
	itemHydrogen  int16 = 1120
	itemDeuterium int16 = 1121
	itemGear      int16 = 1201
	itemSail      int16 = 1501
	itemRocket    int16 = 1503
	itemBlueCube  int16 = 6001
)

var (
	gearRecipe = world.Recipe{
		ID:           5,
		TimeSpend:    60,
		Items:        []int16{itemIronPlate},
		ItemCounts:   []int32{1},
		Results:      []int16{itemGear},
		ResultCounts: []int32{1},
	}
	cubeRecipe = world.Recipe{
		ID:           9,
		TimeSpend:    180,
		Items:        []int16{itemGear},
		ItemCounts:   []int32{2},
		Results:      []int16{itemBlueCube},
		ResultCounts: []int32{1},
	}
)

// Power consumer prototypes.
const (
	protoInserter     int32 = 2011
	protoAssembler    int32 = 2303
	protoEjector      int32 = 2311
	protoSilo         int32 = 2312
	protoFractionator int32 = 2314
	protoLab          int32 = 2901
)

// generator lays out production lines on one planet.
type generator struct {
	rng     *rand.Rand
	factory *world.Factory
	network int32
}

// generateCluster builds planets of independent production lines. The same
// seed always yields the same cluster.
func generateCluster(planets, lines int, seed int64) *world.StarCluster {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	cluster := world.NewStarCluster()
	cluster.Research.UnlockRecipe(gearRecipe.ID)
	cluster.Research.UnlockRecipe(cubeRecipe.ID)
	cluster.Research.AddTech(world.Tech{
		ID:           1,
		HashNeeded:   1 << 40,
		MatrixPoints: [world.MaxNeeds]int32{3600},
	})
	cluster.Research.Enqueue(1)

	for i := range planets {
		p := cluster.AddPlanet(world.NewDysonSphere(int32(i/2+1), true, 1))
		g := &generator{rng: rng, factory: p.Factory}
		// Roughly one line in ten goes without power at full load.
		g.network = p.AddPowerNetwork(int64(lines) * 180)
		p.NetworkServes[g.network] = 1
		for range lines {
			g.line()
		}
	}
	return cluster
}

func (g *generator) line() {
	switch g.rng.IntN(6) {
	case 0:
		g.gearLine()
	case 1:
		g.labStack()
	case 2:
		g.researchStack()
	case 3:
		g.fractionatorLine()
	case 4:
		g.splitterLine()
	default:
		g.launchers()
	}
}

func (g *generator) consumer(proto int32) int32 {
	return g.factory.AddPowerConsumer(world.PowerConsumerComponent{
		NetworkID:         g.network,
		PrototypeID:       proto,
		IdleEnergyPerTick: 1,
		WorkEnergyPerTick: 10,
	})
}

type belt struct {
	entityID int32
	beltID   int32
	pathID   int32
	path     *cargo.Path
}

func (g *generator) belt(length int) belt {
	path := cargo.NewPath(0, length, 1, 4)
	pathID := g.factory.AddCargoPath(path, 0)
	entityID, beltID := g.factory.AddBelt(pathID, 1)
	return belt{entityID: entityID, beltID: beltID, pathID: pathID, path: path}
}

func (g *generator) chain(from, to belt) {
	g.factory.CargoPaths.Get(from.pathID).OutputPathID = to.pathID
}

// fill puts a cargo of item on every other cell.
func fill(b belt, item int16) {
	for i := b.path.Len() - 1; i >= 0; i-- {
		if i%2 == 0 {
			b.path.TryInsertItemAtHead(item, 1, 0)
		}
		b.path.Update()
	}
}

func (g *generator) storage(item int16, count int32) int32 {
	entityID, _ := g.factory.AddStorage(world.StorageComponent{
		Capacity: 1000,
		Grids:    []world.StorageGrid{{ItemID: item, Count: count}},
	})
	return entityID
}

func (g *generator) sink() int32 {
	entityID, _ := g.factory.AddStorage(world.StorageComponent{Capacity: 1000})
	return entityID
}

func (g *generator) inserter(pick, insert int32, careNeeds bool) {
	g.factory.AddInserter(world.InserterComponent{
		PcID:         g.consumer(protoInserter),
		Speed:        10000,
		Stt:          10000 + int32(g.rng.IntN(3))*10000,
		StackInput:   1,
		StackOutput:  1,
		PickTarget:   pick,
		InsertTarget: insert,
		CareNeeds:    careNeeds,
	})
}

// gearLine: plates -> assembler -> belt -> belt -> storage.
func (g *generator) gearLine() {
	plates := g.storage(itemIronPlate, int32(100+g.rng.IntN(400)))
	c := world.AssemblerComponent{PcID: g.consumer(protoAssembler)}
	c.SetRecipe(gearRecipe, 10000*int32(1+g.rng.IntN(2)))
	asm, _ := g.factory.AddAssembler(c)
	first := g.belt(10 + g.rng.IntN(20))
	second := g.belt(10 + g.rng.IntN(20))
	g.chain(first, second)

	g.inserter(plates, asm, true)
	g.inserter(asm, first.entityID, false)
	g.inserter(second.entityID, g.sink(), false)
}

// labStack: gears -> bottom lab of a stack of producing labs.
func (g *generator) labStack() {
	gears := g.storage(itemGear, int32(200+g.rng.IntN(400)))
	next := int32(0)
	var bottom int32
	for range 2 + g.rng.IntN(3) {
		c := world.LabComponent{PcID: g.consumer(protoLab), NextLabID: next}
		c.SetRecipe(cubeRecipe, 10000)
		bottom, next = g.factory.AddLab(c)
	}
	g.inserter(gears, bottom, true)
	g.inserter(bottom, g.sink(), false)
}

// researchStack: a stack of research labs pre-loaded with matrices.
func (g *generator) researchStack() {
	next := int32(0)
	for range 2 + g.rng.IntN(3) {
		c := world.LabComponent{
			PcID:          g.consumer(protoLab),
			ResearchMode:  true,
			NextLabID:     next,
			ResearchSpeed: 10000,
			Assembling: world.Assembling{
				SpeedOverride: 10000,
				Needs:         make([]int16, world.MaxNeeds),
			},
		}
		c.MatrixServed[0] = int32(20+g.rng.IntN(40)) * 3600
		_, next = g.factory.AddLab(c)
	}
}

// fractionatorLine: a looped hydrogen belt through a fractionator.
func (g *generator) fractionatorLine() {
	in := g.belt(20)
	out := g.belt(20)
	product := g.belt(10)
	fill(in, itemHydrogen)
	g.factory.AddFractionator(world.FractionatorComponent{
		PcID:             g.consumer(protoFractionator),
		Belt0:            in.beltID,
		Belt1:            out.beltID,
		Belt2:            product.beltID,
		IsOutput1:        true,
		IsOutput2:        true,
		FluidID:          itemHydrogen,
		ProductID:        itemDeuterium,
		ProduceProb:      0.01,
		FluidInputMax:    40,
		FluidOutputMax:   20,
		ProductOutputMax: 20,
		Seed:             g.rng.Uint32(),
		Needs:            make([]int16, world.MaxNeeds),
	})
	g.chain(out, in)
	g.inserter(product.entityID, g.sink(), false)
}

// splitterLine: one filled belt split onto two belts emptied into storage.
func (g *generator) splitterLine() {
	in := g.belt(30)
	fill(in, itemIronPlate)
	left, right := g.belt(10), g.belt(10)

	c := world.SplitterComponent{}
	c.Inputs[0] = in.beltID
	c.Outputs[0] = left.beltID
	c.Outputs[1] = right.beltID
	if g.rng.IntN(2) == 0 {
		c.PrioritySlotPresets = 1 << 4
	}
	g.factory.AddSplitter(c)

	g.inserter(left.entityID, g.sink(), false)
	g.inserter(right.entityID, g.sink(), false)
}

// launchers: a rocket silo and a sail ejector fed from storage.
func (g *generator) launchers() {
	silo, _ := g.factory.AddSilo(world.SiloComponent{
		PcID:        g.consumer(protoSilo),
		BulletID:    itemRocket,
		ChargeSpend: 20000 + int32(g.rng.IntN(4))*10000,
		ColdSpend:   10000,
		Needs:       make([]int16, world.MaxNeeds),
	})
	ejector, _ := g.factory.AddEjector(world.EjectorComponent{
		PcID:        g.consumer(protoEjector),
		OrbitID:     1,
		BulletID:    itemSail,
		ChargeSpend: 20000,
		ColdSpend:   10000,
		Needs:       make([]int16, world.MaxNeeds),
	})
	g.inserter(g.storage(itemRocket, 50), silo, true)
	g.inserter(g.storage(itemSail, 200), ejector, true)
}
