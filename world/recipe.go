package world

// Recipe is the prototype data an assembler or producing lab runs. TimeSpend
// is in game ticks.
type Recipe struct {
	ID           int32
	TimeSpend    int32
	Items        []int16
	ItemCounts   []int32
	Results      []int16
	ResultCounts []int32
	Productive   bool
}

// MatrixIDs are the research matrices in needs-array order.
var MatrixIDs = [MaxNeeds]int16{6001, 6002, 6003, 6004, 6005, 6006}

// MaxItemID bounds item ids used as statistics register indices.
const MaxItemID = 12000
