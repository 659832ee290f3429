package factory

var (
	SplitInc      = splitInc
	SplitIncLevel = splitIncLevel
)
