package work

// WorkType is one stage of a planet's tick. Stages of a planet run in
// declaration order.
type WorkType int

const (
	BeforePower WorkType = iota
	Power
	Construction
	CheckBefore
	Assembler
	LabResearchMode
	LabOutput2NextData
	TransportData
	InputFromBelt
	InserterData
	Storage
	CargoPathsData
	Splitter
	Monitor
	Spraycoater
	Piler
	OutputToBelt
	SandboxMode
	PresentCargoPathsData
	Digital
	WorkTypeCount
)

var workTypeNames = [WorkTypeCount]string{
	"BeforePower",
	"Power",
	"Construction",
	"CheckBefore",
	"Assembler",
	"LabResearchMode",
	"LabOutput2NextData",
	"TransportData",
	"InputFromBelt",
	"InserterData",
	"Storage",
	"CargoPathsData",
	"Splitter",
	"Monitor",
	"Spraycoater",
	"Piler",
	"OutputToBelt",
	"SandboxMode",
	"PresentCargoPathsData",
	"Digital",
}

func (t WorkType) String() string {
	if t < 0 || t >= WorkTypeCount {
		return "Unknown"
	}
	return workTypeNames[t]
}

// ThreadSafe reports whether units of this stage may run in parallel with
// each other and with other planets. Unsafe stages run under one lock shared
// by all workers.
func (t WorkType) ThreadSafe() bool {
	switch t {
	case Construction, CheckBefore, LabResearchMode, SandboxMode:
		return false
	}
	return true
}
