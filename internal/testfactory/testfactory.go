// Package testfactory builds small planets for tests.
package testfactory

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/world"
)

const (
	IronPlate int16 = 1101
	Gear      int16 = 1201
	Hydrogen  int16 = 1120
	Deuterium int16 = 1121
	Sail      int16 = 1501
	Rocket    int16 = 1503
	BlueCube  int16 = 6001
)

var GearRecipe = world.Recipe{
	ID:           5,
	TimeSpend:    60,
	Items:        []int16{IronPlate},
	ItemCounts:   []int32{1},
	Results:      []int16{Gear},
	ResultCounts: []int32{1},
}

// CubeRecipe is a lab recipe producing blue matrices.
var CubeRecipe = world.Recipe{
	ID:           9,
	TimeSpend:    180,
	Items:        []int16{Gear},
	ItemCounts:   []int32{2},
	Results:      []int16{BlueCube},
	ResultCounts: []int32{1},
}

// Planet wraps a world planet with one fully powered network.
type Planet struct {
	*world.Planet
	Cluster *world.StarCluster
	Network int32
}

// Belt is one belt entity on its own cargo path.
type Belt struct {
	EntityID int32
	BeltID   int32
	PathID   int32
	Path     *cargo.Path
}

// New returns a planet in a fresh cluster. Every recipe used here is
// unlocked and the star's dyson sphere has nodes and orbit 1.
func New() *Planet {
	cluster := world.NewStarCluster()
	cluster.Research.UnlockRecipe(GearRecipe.ID)
	cluster.Research.UnlockRecipe(CubeRecipe.ID)
	p := cluster.AddPlanet(world.NewDysonSphere(1, true, 1))
	network := p.AddPowerNetwork(1 << 40)
	p.NetworkServes[network] = 1
	return &Planet{Planet: p, Cluster: cluster, Network: network}
}

// Sibling adds another planet to p's cluster around the same star.
func (p *Planet) Sibling() *Planet {
	sp := p.Cluster.AddPlanet(p.Dyson)
	network := sp.AddPowerNetwork(1 << 40)
	sp.NetworkServes[network] = 1
	return &Planet{Planet: sp, Cluster: p.Cluster, Network: network}
}

// Consumer adds a power consumer on the planet's network.
func (p *Planet) Consumer(prototypeID int32) int32 {
	return p.Factory.AddPowerConsumer(world.PowerConsumerComponent{
		NetworkID:         p.Network,
		PrototypeID:       prototypeID,
		IdleEnergyPerTick: 1,
		WorkEnergyPerTick: 10,
	})
}

// Belt adds a belt of the given length moving one cell per tick.
func (p *Planet) Belt(length int) Belt {
	path := cargo.NewPath(0, length, 1, 4)
	pathID := p.Factory.AddCargoPath(path, 0)
	entityID, beltID := p.Factory.AddBelt(pathID, 1)
	return Belt{EntityID: entityID, BeltID: beltID, PathID: pathID, Path: path}
}

// Chain makes from hand its cargo to to.
func (p *Planet) Chain(from, to Belt) {
	p.Factory.CargoPaths.Get(from.PathID).OutputPathID = to.PathID
}

func (p *Planet) Assembler(r world.Recipe) (int32, int32) {
	c := world.AssemblerComponent{PcID: p.Consumer(2303)}
	c.SetRecipe(r, 10000)
	return p.Factory.AddAssembler(c)
}

// Lab adds a production-mode lab stacked below nextLabID (0 for none).
func (p *Planet) Lab(r world.Recipe, nextLabID int32) (int32, int32) {
	c := world.LabComponent{PcID: p.Consumer(2901), NextLabID: nextLabID}
	c.SetRecipe(r, 10000)
	return p.Factory.AddLab(c)
}

// ResearchLab adds a research-mode lab stacked below nextLabID.
func (p *Planet) ResearchLab(nextLabID int32) (int32, int32) {
	return p.Factory.AddLab(world.LabComponent{
		PcID:          p.Consumer(2901),
		ResearchMode:  true,
		NextLabID:     nextLabID,
		ResearchSpeed: 10000,
		Assembling: world.Assembling{
			SpeedOverride: 10000,
			Needs:         make([]int16, world.MaxNeeds),
		},
	})
}

// InserterOptions overrides the defaults of Inserter.
type InserterOptions struct {
	CareNeeds   bool
	Filter      int16
	StackInput  int32
	StackOutput int32
	Delay       int32
}

// Inserter adds an inserter moving items from pick to insert. At full power
// it needs two ticks to send and two to return.
func (p *Planet) Inserter(pickEntity, insertEntity int32, opts InserterOptions) (int32, int32) {
	return p.Factory.AddInserter(world.InserterComponent{
		PcID:         p.Consumer(2011),
		Speed:        10000,
		Stt:          20000,
		Delay:        opts.Delay,
		StackInput:   max(opts.StackInput, 1),
		StackOutput:  max(opts.StackOutput, 1),
		PickTarget:   pickEntity,
		InsertTarget: insertEntity,
		Filter:       opts.Filter,
		CareNeeds:    opts.CareNeeds,
	})
}

// Storage adds a storage box holding the given grids.
func (p *Planet) Storage(capacity int32, grids ...world.StorageGrid) (int32, int32) {
	return p.Factory.AddStorage(world.StorageComponent{Capacity: capacity, Grids: grids})
}

// Fractionator adds a hydrogen fractionator fed from in, draining waste to
// out and products to product. Any belt may be the zero Belt.
func (p *Planet) Fractionator(in, out, product Belt, seed uint32) (int32, int32) {
	return p.Factory.AddFractionator(world.FractionatorComponent{
		PcID:             p.Consumer(2314),
		Belt0:            in.BeltID,
		Belt1:            out.BeltID,
		Belt2:            product.BeltID,
		IsOutput1:        out.BeltID != 0,
		IsOutput2:        product.BeltID != 0,
		FluidID:          Hydrogen,
		ProductID:        Deuterium,
		ProduceProb:      0.01,
		FluidInputMax:    40,
		FluidOutputMax:   20,
		ProductOutputMax: 20,
		Seed:             seed,
		Needs:            make([]int16, world.MaxNeeds),
	})
}

func (p *Planet) Silo(bullets int32) (int32, int32) {
	return p.Factory.AddSilo(world.SiloComponent{
		PcID:        p.Consumer(2312),
		BulletID:    Rocket,
		BulletCount: bullets,
		ChargeSpend: 20000,
		ColdSpend:   10000,
		Needs:       make([]int16, world.MaxNeeds),
	})
}

func (p *Planet) Ejector(orbitID, bullets int32) (int32, int32) {
	return p.Factory.AddEjector(world.EjectorComponent{
		PcID:        p.Consumer(2311),
		OrbitID:     orbitID,
		BulletID:    Sail,
		BulletCount: bullets,
		ChargeSpend: 20000,
		ColdSpend:   10000,
		Needs:       make([]int16, world.MaxNeeds),
	})
}

// Splitter adds a splitter with the given input and output belts.
func (p *Planet) Splitter(inputs, outputs []Belt, outFilter int16, presets byte) (int32, int32) {
	c := world.SplitterComponent{OutFilter: outFilter, PrioritySlotPresets: presets}
	for i, b := range inputs {
		c.Inputs[i] = b.BeltID
	}
	for i, b := range outputs {
		c.Outputs[i] = b.BeltID
	}
	return p.Factory.AddSplitter(c)
}

// Fill puts one cargo of item on every cell of the belt.
func Fill(b Belt, item int16) {
	b.Path.ClearRange(0, b.Path.Len()-1)
	for i := b.Path.Len() - 1; i >= 0; i-- {
		b.Path.TryInsertItemAtHead(item, 1, 0)
		if i > 0 {
			b.Path.Update()
		}
	}
}
