package factory_test

import (
	"testing"

	"github.com/plus3/weaver/factory"
	"github.com/plus3/weaver/internal/testfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFractionatorSeed(t *testing.T) {
	assert.Equal(t, uint32(48270), factory.NextFractionatorSeed(0))
	assert.Equal(t, uint32(182605793), factory.NextFractionatorSeed(48270))

	// Minimal standard generator over one-based state.
	reference := func(seed uint32) uint32 {
		state := uint64(seed) + 1
		return uint32(state*48271%2147483647) - 1
	}
	seed := uint32(987654321)
	for range 1000 {
		want := reference(seed)
		seed = factory.NextFractionatorSeed(seed)
		require.Equal(t, want, seed)
	}
}

func TestFractionatorRoll(t *testing.T) {
	seed, ok := factory.FractionatorRoll(0, 0.01, 0)
	assert.Equal(t, uint32(48270), seed)
	assert.True(t, ok, "48270 / 2^31 is below 1%")

	_, ok = factory.FractionatorRoll(48270, 0.01, 0)
	assert.False(t, ok)

	successes := 0
	seed = 1
	for range 100000 {
		seed, ok = factory.FractionatorRoll(seed, 0.01, 0)
		if ok {
			successes++
		}
	}
	assert.InDelta(t, 1000, successes, 150)
}

func TestFractionator(t *testing.T) {
	p := testfactory.New()
	in := p.Belt(2)
	out := p.Belt(2)
	product := p.Belt(2)
	testfactory.Fill(in, testfactory.Hydrogen)
	entityID, frID := p.Fractionator(in, out, product, 12345)

	sf := optimize(t, p)
	require.Equal(t, 1, sf.Fractionators.Count())

	sf.InputFromBelt()
	assert.Equal(t, 1, in.Path.ItemCount())

	// A single buffered cargo needs sixty ticks for one roll.
	for range 60 {
		sf.GameTickProduction()
	}
	sf.Save()
	c := p.Factory.Fractionators.Get(frID)
	wantSeed, wantSuccess := factory.FractionatorRoll(12345, 0.01, 0)
	assert.Equal(t, wantSeed, c.Seed)
	assert.Equal(t, wantSuccess, c.FractionSuccess)
	assert.Equal(t, int32(0), c.FluidInputCount)
	assert.Equal(t, int32(1), c.FluidOutputCount+c.ProductOutputCount)

	sf.OutputToBelt()
	assert.Equal(t, 1, out.Path.ItemCount()+product.Path.ItemCount())

	sign := p.Factory.Signs[entityID]
	assert.Equal(t, int32(testfactory.Deuterium), sign.IconID0)
}

func TestSilo(t *testing.T) {
	t.Run("launches every bullet", func(t *testing.T) {
		p := testfactory.New()
		_, siloID := p.Silo(5)
		sf := optimize(t, p)

		// Charge, fire and cool takes four ticks.
		for range 40 {
			sf.GameTickProduction()
		}
		assert.Equal(t, int64(5), p.Dyson.Rockets())
		sf.Save()
		assert.Equal(t, int32(0), p.Factory.Silos.Get(siloID).BulletCount)
	})

	t.Run("idle without shell nodes", func(t *testing.T) {
		p := testfactory.New()
		p.Dyson = nil
		_, siloID := p.Silo(5)
		sf := optimize(t, p)
		for range 40 {
			sf.GameTickProduction()
		}
		sf.Save()
		assert.Equal(t, int32(5), p.Factory.Silos.Get(siloID).BulletCount)
	})
}

func TestEjector(t *testing.T) {
	for _, tc := range []struct {
		name      string
		orbit     int32
		wantSails int64
	}{
		{"known orbit", 1, 5},
		{"missing orbit", 2, 0},
		{"no orbit", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := testfactory.New()
			_, ejectorID := p.Ejector(tc.orbit, 5)
			sf := optimize(t, p)
			for range 40 {
				sf.GameTickProduction()
			}
			assert.Equal(t, tc.wantSails, p.Dyson.Sails())
			sf.Save()
			assert.Equal(t, int32(5)-int32(tc.wantSails), p.Factory.Ejectors.Get(ejectorID).BulletCount)
		})
	}
}
