package world

import "github.com/plus3/weaver/cargo"

// MaxNeeds is the length of every needs array.
const MaxNeeds = 6

// EntityData is one row of the entity table. Exactly one component id is set
// for a classifiable entity.
type EntityData struct {
	Record
	BeltID         int32
	AssemblerID    int32
	LabID          int32
	FractionatorID int32
	SiloID         int32
	EjectorID      int32
	StorageID      int32
	StationID      int32
	SplitterID     int32
	InserterID     int32
	MonitorID      int32
	SpraycoaterID  int32
	PilerID        int32
	MinerID        int32
	DispenserID    int32
}

type InserterStage int8

const (
	InserterPicking InserterStage = iota
	InserterSending
	InserterInserting
	InserterReturning
)

func (s InserterStage) String() string {
	switch s {
	case InserterPicking:
		return "Picking"
	case InserterSending:
		return "Sending"
	case InserterInserting:
		return "Inserting"
	case InserterReturning:
		return "Returning"
	}
	return "Unknown"
}

type InserterComponent struct {
	Record
	EntityID     int32
	PcID         int32
	Stage        InserterStage
	Speed        int32
	Time         int32
	Stt          int32
	Delay        int32
	StackInput   int32
	StackOutput  int32
	PickTarget   int32
	InsertTarget int32
	Filter       int16
	CareNeeds    bool
	IdleTick     int32
	ItemID       int16
	ItemCount    int16
	ItemInc      int16
	StackCount   int16
}

// Assembling holds the recipe state shared by assemblers and producing labs.
type Assembling struct {
	RecipeID        int32
	TimeSpend       int32
	ExtraTimeSpend  int32
	Speed           int32
	Productive      bool
	Requires        []int16
	RequireCounts   []int32
	Products        []int16
	ProductCounts   []int32
	Time            int32
	ExtraTime       int32
	SpeedOverride   int32
	ExtraSpeed      int32
	ExtraPowerRatio int32
	ForceAccMode    bool
	Replicating     bool
	IncUsed         bool
	Served          []int32
	IncServed       []int32
	Produced        []int32
	Needs           []int16
}

// SetRecipe configures the assembling state for recipe at the given speed
// (10000 is 1x) and clears all buffers.
func (a *Assembling) SetRecipe(r Recipe, speed int32) {
	a.RecipeID = r.ID
	a.TimeSpend = r.TimeSpend * 10000
	a.ExtraTimeSpend = r.TimeSpend * 100000
	a.Speed = speed
	a.SpeedOverride = speed
	a.Productive = r.Productive
	a.Requires = append([]int16(nil), r.Items...)
	a.RequireCounts = append([]int32(nil), r.ItemCounts...)
	a.Products = append([]int16(nil), r.Results...)
	a.ProductCounts = append([]int32(nil), r.ResultCounts...)
	a.Served = make([]int32, len(r.Items))
	a.IncServed = make([]int32, len(r.Items))
	a.Produced = make([]int32, len(r.Results))
	a.Needs = make([]int16, MaxNeeds)
}

type AssemblerComponent struct {
	Record
	EntityID int32
	PcID     int32
	Assembling
}

type LabComponent struct {
	Record
	EntityID     int32
	PcID         int32
	ResearchMode bool
	NextLabID    int32
	Assembling

	TechID          int32
	ResearchSpeed   int32
	HashProgress    int32
	MatrixServed    [MaxNeeds]int32
	MatrixIncServed [MaxNeeds]int32
}

type FractionatorComponent struct {
	Record
	EntityID             int32
	PcID                 int32
	Belt0                int32
	Belt1                int32
	Belt2                int32
	IsOutput0            bool
	IsOutput1            bool
	IsOutput2            bool
	FluidID              int16
	ProductID            int16
	ProduceProb          float32
	FluidInputMax        int32
	FluidOutputMax       int32
	ProductOutputMax     int32
	FluidInputCount      int32
	FluidInputCargoCount float32
	FluidInputInc        int32
	FluidOutputCount     int32
	FluidOutputInc       int32
	ProductOutputCount   int32
	Progress             int32
	FractionSuccess      bool
	IsWorking            bool
	IncUsed              bool
	Seed                 uint32
	Needs                []int16
}

// LauncherDirection is the charge state of a silo or ejector.
type LauncherDirection int8

const (
	LauncherCooling  LauncherDirection = -1
	LauncherIdle     LauncherDirection = 0
	LauncherCharging LauncherDirection = 1
)

type SiloComponent struct {
	Record
	EntityID    int32
	PcID        int32
	BulletID    int16
	BulletCount int32
	BulletInc   int32
	Direction   LauncherDirection
	Time        int32
	ChargeSpend int32
	ColdSpend   int32
	IncLevel    int32
	IncUsed     bool
	Needs       []int16
}

type EjectorComponent struct {
	Record
	EntityID    int32
	PcID        int32
	OrbitID     int32
	BulletID    int16
	BulletCount int32
	BulletInc   int32
	Direction   LauncherDirection
	Time        int32
	ChargeSpend int32
	ColdSpend   int32
	IncLevel    int32
	IncUsed     bool
	Needs       []int16
}

type SplitterComponent struct {
	Record
	EntityID int32
	// Belt ids of the four sides; 0 means unconnected.
	Inputs    [4]int32
	Outputs   [4]int32
	OutFilter int16
	TopID     int32
	// Bits 0-3 pin input slots, bits 4-7 pin output slots.
	PrioritySlotPresets byte
	// Next unpinned slot to serve first.
	InputCursor  uint8
	OutputCursor uint8
}

type StorageGrid struct {
	ItemID int16
	Count  int32
	Inc    int32
}

type StorageComponent struct {
	Record
	EntityID int32
	Capacity int32
	Filter   int16
	Grids    []StorageGrid
}

type SlotDirection int8

const (
	SlotNone SlotDirection = iota
	SlotOutput
	SlotInput
)

type StationSlot struct {
	BeltID    int32
	Direction SlotDirection
}

type StationComponent struct {
	Record
	EntityID int32
	Slots    []StationSlot
}

type DispenserComponent struct {
	Record
	EntityID  int32
	StorageID int32
	// Dispensers this one delivers to.
	DeliversTo []int32
}

type MonitorComponent struct {
	Record
	EntityID     int32
	TargetBeltID int32
}

type SpraycoaterComponent struct {
	Record
	EntityID       int32
	IncomingBeltID int32
	CargoBeltID    int32
}

type PilerComponent struct {
	Record
	EntityID     int32
	InputBeltID  int32
	OutputBeltID int32
}

type MinerComponent struct {
	Record
	EntityID     int32
	PcID         int32
	VeinGroup    int32
	InsertTarget int32
}

type BeltComponent struct {
	Record
	EntityID  int32
	SegPathID int32
	Speed     int32
}

type CargoPathComponent struct {
	Record
	Path         *cargo.Path
	OutputPathID int32
}

type PowerConsumerComponent struct {
	Record
	EntityID          int32
	NetworkID         int32
	PrototypeID       int32
	IdleEnergyPerTick int64
	WorkEnergyPerTick int64
}

type SignData struct {
	IconType int32
	IconID0  int32
}
