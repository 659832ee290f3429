package world

// PowerNetwork is a generation pool consumers draw from.
type PowerNetwork struct {
	ID                 int32
	GenerationCapacity int64
}

// Statistics is the planet's statistics sink. Item registers are indexed by
// item id, demand by network id.
type Statistics struct {
	ProductRegister      []int64
	ConsumeRegister      []int64
	NetworkDemand        []int64
	PrototypeConsumption map[int32]int64
}

type Planet struct {
	ID       int32
	Factory  *Factory
	Networks []PowerNetwork
	// NetworkServes is the fraction of demanded power each network supplied
	// in the last power stage.
	NetworkServes []float32
	Stats         Statistics
	Research      *Research
	Dyson         *DysonSphere
}

func NewPlanet(id int32, research *Research, dyson *DysonSphere) *Planet {
	return &Planet{
		ID:            id,
		Factory:       NewFactory(),
		Networks:      make([]PowerNetwork, 1),
		NetworkServes: make([]float32, 1),
		Stats: Statistics{
			ProductRegister:      make([]int64, MaxItemID),
			ConsumeRegister:      make([]int64, MaxItemID),
			NetworkDemand:        make([]int64, 1),
			PrototypeConsumption: make(map[int32]int64),
		},
		Research: research,
		Dyson:    dyson,
	}
}

// AddPowerNetwork adds a network and returns its id. Network 0 is the
// "unconnected" network and never supplies power.
func (p *Planet) AddPowerNetwork(capacity int64) int32 {
	id := int32(len(p.Networks))
	p.Networks = append(p.Networks, PowerNetwork{ID: id, GenerationCapacity: capacity})
	p.NetworkServes = append(p.NetworkServes, 0)
	p.Stats.NetworkDemand = append(p.Stats.NetworkDemand, 0)
	return id
}

// StarCluster is every planet being simulated plus the state they share.
type StarCluster struct {
	Planets  []*Planet
	Research *Research
}

func NewStarCluster() *StarCluster {
	return &StarCluster{Research: NewResearch()}
}

func (c *StarCluster) AddPlanet(dyson *DysonSphere) *Planet {
	p := NewPlanet(int32(len(c.Planets)+1), c.Research, dyson)
	c.Planets = append(c.Planets, p)
	return p
}
