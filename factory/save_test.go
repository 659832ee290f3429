package factory_test

import (
	"testing"

	"github.com/plus3/weaver/internal/testfactory"
	"github.com/plus3/weaver/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedPlanet holds one entity of every optimized type, all connected.
func mixedPlanet() *testfactory.Planet {
	p := testfactory.New()
	in := p.Belt(4)
	out := p.Belt(4)
	product := p.Belt(4)
	testfactory.Fill(in, testfactory.Hydrogen)
	p.Fractionator(in, out, product, 7)

	storageEntity, storageID := p.Storage(50, world.StorageGrid{ItemID: testfactory.IronPlate, Count: 20, Inc: 8})
	_, splitterID := p.Splitter([]testfactory.Belt{out}, []testfactory.Belt{p.Belt(2)}, 0, 0)
	p.Factory.Splitters.Get(splitterID).TopID = storageID

	asmEntity, _ := p.Assembler(testfactory.GearRecipe)
	p.Inserter(storageEntity, asmEntity, testfactory.InserterOptions{CareNeeds: true})
	labEntity, _ := p.Lab(testfactory.CubeRecipe, 0)
	p.Inserter(asmEntity, labEntity, testfactory.InserterOptions{})
	researchEntity, _ := p.ResearchLab(0)
	p.Inserter(labEntity, researchEntity, testfactory.InserterOptions{})
	siloEntity, _ := p.Silo(2)
	p.Inserter(storageEntity, siloEntity, testfactory.InserterOptions{})
	ejectorEntity, _ := p.Ejector(1, 2)
	p.Inserter(storageEntity, ejectorEntity, testfactory.InserterOptions{})
	return p
}

func assertPoolEqual[T any](t *testing.T, want, got *world.Pool[T]) {
	t.Helper()
	require.Equal(t, want.Cursor(), got.Cursor())
	for id, c := range got.Live() {
		assert.Equal(t, *want.Get(id), *c, "id %d", id)
	}
}

func TestSaveWithoutTicking(t *testing.T) {
	want := mixedPlanet()
	got := mixedPlanet()
	sf := optimize(t, got)
	sf.Save()

	assertPoolEqual(t, want.Factory.Inserters, got.Factory.Inserters)
	assertPoolEqual(t, want.Factory.Assemblers, got.Factory.Assemblers)
	assertPoolEqual(t, want.Factory.Labs, got.Factory.Labs)
	assertPoolEqual(t, want.Factory.Fractionators, got.Factory.Fractionators)
	assertPoolEqual(t, want.Factory.Silos, got.Factory.Silos)
	assertPoolEqual(t, want.Factory.Ejectors, got.Factory.Ejectors)
	assertPoolEqual(t, want.Factory.Splitters, got.Factory.Splitters)
	assertPoolEqual(t, want.Factory.Storages, got.Factory.Storages)
}

func TestSaveIsIdempotent(t *testing.T) {
	p := mixedPlanet()
	sf := optimize(t, p)
	for tick := range int64(50) {
		sf.UpdatePower()
		sf.GameTickProduction()
		sf.GameTickResearch()
		sf.LabOutputToNext(tick)
		sf.InputFromBelt()
		sf.GameTickInserters()
		sf.UpdateBelts()
		sf.UpdateSplitters()
		sf.OutputToBelt()
	}
	sf.Save()
	first := *p.Factory.Inserters.Get(1)
	firstAsm := *p.Factory.Assemblers.Get(1)
	sf.Save()
	assert.Equal(t, first, *p.Factory.Inserters.Get(1))
	assert.Equal(t, firstAsm, *p.Factory.Assemblers.Get(1))
}

func TestSubFactoryCounts(t *testing.T) {
	p := mixedPlanet()
	sf := optimize(t, p)

	assert.Equal(t, 1, sf.Fractionators.Count())
	assert.Equal(t, 1, sf.Storages.Count())
	assert.Equal(t, 1, sf.Splitters.Count())
	assert.Equal(t, 1, sf.Assemblers.Count())
	assert.Equal(t, 1, sf.ProducingLabs.Count())
	assert.Equal(t, 1, sf.ResearchingLabs.Count())
	assert.Equal(t, 1, sf.Silos.Count())
	assert.Equal(t, 1, sf.Ejectors.Count())
	assert.Equal(t, 5, sf.Inserters.Count())
	assert.Empty(t, sf.Unoptimized())
}
