package optimizer_test

import (
	"context"
	"testing"

	"github.com/plus3/weaver/internal/testfactory"
	"github.com/plus3/weaver/optimizer"
)

func benchCluster(b *testing.B, planets, lines, workers int) *optimizer.Cluster {
	p := testfactory.New()
	all := []*testfactory.Planet{p}
	for range planets - 1 {
		all = append(all, p.Sibling())
	}
	for _, planet := range all {
		for range lines {
			gearLine(planet, testfactory.GearRecipe)
		}
	}
	c := optimizer.NewCluster(p.Cluster, optimizer.Options{MinNodesPerGraph: 20, MaxCombinedGraphSize: 300, Workers: workers})
	if err := c.Optimize(); err != nil {
		b.Fatal(err)
	}
	return c
}

func benchmarkGameTick(b *testing.B, workers int) {
	c := benchCluster(b, 4, 500, workers)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.GameTick(ctx, int64(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGameTickSerial(b *testing.B)   { benchmarkGameTick(b, 1) }
func BenchmarkGameTickParallel(b *testing.B) { benchmarkGameTick(b, 0) }
