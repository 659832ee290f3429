package cargo

// MaxIncLevel is the highest proliferator level an item stack can carry.
const MaxIncLevel = 10

// IncTableMilli is the extra-product bonus per inc level, in permille.
var IncTableMilli = [MaxIncLevel + 1]int32{0, 125, 200, 225, 250, 275, 300, 325, 350, 375, 400}

// AccTableMilli is the speed bonus per inc level, in permille.
var AccTableMilli = [MaxIncLevel + 1]int32{0, 250, 500, 750, 1000, 1250, 1500, 1750, 2000, 2250, 2500}

// PowerTableMilli is the extra power draw per inc level, in permille.
var PowerTableMilli = [MaxIncLevel + 1]int32{0, 300, 700, 1100, 1500, 1900, 2300, 2700, 3100, 3500, 3900}

// ClampIncLevel limits a computed level to the table range.
func ClampIncLevel(level int32) int32 {
	if level < 0 {
		return 0
	}
	if level > MaxIncLevel {
		return MaxIncLevel
	}
	return level
}
