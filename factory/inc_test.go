package factory_test

import (
	"testing"

	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/factory"
	"github.com/stretchr/testify/assert"
)

func TestSplitInc(t *testing.T) {
	tests := []struct {
		name          string
		n, m, take    int32
		inc, incLevel int32
	}{
		{name: "even split", n: 4, m: 8, take: 2, inc: 4, incLevel: 2},
		{name: "leftover reaches taken items", n: 4, m: 11, take: 2, inc: 5, incLevel: 3},
		{name: "leftover stays behind", n: 4, m: 10, take: 2, inc: 4, incLevel: 2},
		{name: "take everything", n: 3, m: 5, take: 3, inc: 5, incLevel: 2},
		{name: "take more than held", n: 2, m: 5, take: 4, inc: 5, incLevel: 3},
		{name: "single item", n: 1, m: 4, take: 1, inc: 4, incLevel: 4},
		{name: "empty", n: 0, m: 5, take: 1, inc: 0, incLevel: 0},
		{name: "nothing taken", n: 4, m: 8, take: 0, inc: 0, incLevel: 0},
		{name: "clamped level", n: 1, m: 100, take: 1, inc: 100, incLevel: cargo.MaxIncLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inc, factory.SplitInc(tt.n, tt.m, tt.take))
			assert.Equal(t, tt.incLevel, factory.SplitIncLevel(tt.n, tt.m, tt.take))
		})
	}
}
