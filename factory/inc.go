package factory

import "github.com/plus3/weaver/cargo"

// minWorkingPower is the serve ratio below which machines skip their update.
const minWorkingPower = 0.1

// splitInc returns the inc carried by take items out of n items holding m
// inc. Leftover inc goes to the taken items first.
func splitInc(n, m, take int32) int32 {
	if n <= 0 || take <= 0 {
		return 0
	}
	if take > n {
		take = n
	}
	level := m / n
	rest := m - level*n - (n - take)
	if rest > 0 {
		return level*take + rest
	}
	return level * take
}

// splitIncLevel is the inc level of take items out of n holding m inc. Any
// leftover inc reaching the taken items lifts them one level.
func splitIncLevel(n, m, take int32) int32 {
	if n <= 0 || take <= 0 {
		return 0
	}
	if take > n {
		take = n
	}
	level := m / n
	if m-level*n-(n-take) > 0 {
		level++
	}
	return cargo.ClampIncLevel(level)
}

func hasNeeds(needs []int16) bool {
	for _, item := range needs {
		if item != 0 {
			return true
		}
	}
	return false
}

func needsItem(needs []int16, item int16) bool {
	if item == 0 {
		return false
	}
	for _, need := range needs {
		if need == item {
			return true
		}
	}
	return false
}

func clampServed(v int32) int32 {
	return max(-5000, min(5000, v))
}
