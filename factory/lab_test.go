package factory_test

import (
	"testing"

	"github.com/plus3/weaver/factory"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/internal/testfactory"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducingLabInputMissing(t *testing.T) {
	p := testfactory.New()
	storageEntity, _ := p.Storage(100, world.StorageGrid{ItemID: testfactory.Gear, Count: 10})
	labEntity, labID := p.Lab(testfactory.CubeRecipe, 0)
	p.Inserter(storageEntity, labEntity, testfactory.InserterOptions{})
	sf := optimize(t, p)
	lab := p.Factory.Labs.Get(labID)

	t.Run("halts without advancing timers", func(t *testing.T) {
		for range 5 {
			sf.GameTickProduction()
			assert.Equal(t, factory.LabStateInactiveInputMissing, sf.ProducingLabs.State(0))
		}
		sf.Save()
		assert.Equal(t, int32(0), lab.Time)
		assert.Equal(t, int32(0), lab.ExtraTime)
		assert.False(t, lab.Replicating)
		assert.Equal(t, []int16{testfactory.Gear, 0, 0, 0, 0, 0}, lab.Needs)
	})

	t.Run("resumes once inputs arrive", func(t *testing.T) {
		for range 20 {
			sf.GameTickProduction()
			sf.GameTickInserters()
		}
		assert.Equal(t, factory.LabStateActive, sf.ProducingLabs.State(0))
		sf.Save()
		assert.True(t, lab.Replicating)
		assert.Positive(t, lab.Time)
	})
}

func TestProducingLabOutputToNext(t *testing.T) {
	p := testfactory.New()
	_, topID := p.Lab(testfactory.CubeRecipe, 0)
	_, bottomID := p.Lab(testfactory.CubeRecipe, topID)
	p.Factory.Labs.Get(bottomID).Served[0] = 10

	sf := optimize(t, p)
	require.Equal(t, int32(0), sf.ProducingLabs.NextLab(1))
	require.Equal(t, factory.NoNextLab, sf.ProducingLabs.NextLab(0))

	// The bottom lab starts a batch, the top one is starved.
	sf.GameTickProduction()
	require.Equal(t, factory.LabStateInactiveInputMissing, sf.ProducingLabs.State(0))

	t.Run("other buckets do nothing", func(t *testing.T) {
		sf.LabOutputToNext(0)
		sf.LabOutputToNext(2)
		sf.Save()
		assert.Equal(t, int32(0), p.Factory.Labs.Get(topID).Served[0])
		assert.Equal(t, int32(8), p.Factory.Labs.Get(bottomID).Served[0])
	})

	t.Run("moves at most five", func(t *testing.T) {
		sf.LabOutputToNext(1)
		sf.Save()
		assert.Equal(t, int32(5), p.Factory.Labs.Get(topID).Served[0])
		assert.Equal(t, int32(3), p.Factory.Labs.Get(bottomID).Served[0])
		assert.Equal(t, factory.LabStateActive, sf.ProducingLabs.State(0))
	})
}

func TestProducingLabCrossSubFactory(t *testing.T) {
	p := testfactory.New()
	_, bottomID := p.Lab(testfactory.CubeRecipe, 0)
	graphs, err := graph.ToGraphs(p.Factory)
	require.NoError(t, err)

	_, topID := p.Lab(testfactory.CubeRecipe, 0)
	p.Factory.Labs.Get(bottomID).NextLabID = topID

	sf := factory.NewSubFactory(p.Planet, factory.BuildTraffic(p.Factory))
	err = sf.Initialize(graphs[0], production.NewPlanetWideProductionRegisterBuilder())
	assert.True(t, eris.Is(err, factory.ErrCrossSubFactoryLab))
}

func TestResearchingLabCrossSubFactory(t *testing.T) {
	p := testfactory.New()
	_, bottomID := p.ResearchLab(0)
	graphs, err := graph.ToGraphs(p.Factory)
	require.NoError(t, err)

	_, topID := p.ResearchLab(0)
	p.Factory.Labs.Get(bottomID).NextLabID = topID

	sf := factory.NewSubFactory(p.Planet, factory.BuildTraffic(p.Factory))
	err = sf.Initialize(graphs[0], production.NewPlanetWideProductionRegisterBuilder())
	assert.True(t, eris.Is(err, factory.ErrCrossSubFactoryLab))
}

func TestProducingLabLockedRecipe(t *testing.T) {
	p := testfactory.New()
	locked := testfactory.CubeRecipe
	locked.ID = 77
	p.Lab(locked, 0)

	sf := optimize(t, p)
	assert.Equal(t, 0, sf.ProducingLabs.Count())
	assert.Len(t, sf.Unoptimized(), 1)
}

func TestResearchingLab(t *testing.T) {
	p := testfactory.New()
	p.Research.AddTech(world.Tech{
		ID:            1,
		HashNeeded:    2,
		MatrixPoints:  [world.MaxNeeds]int32{3600},
		UnlockRecipes: []int32{42},
	})
	p.Research.Enqueue(1)
	var unlocked []int32
	p.Research.OnTechUnlocked(func(tech world.Tech) {
		unlocked = append(unlocked, tech.ID)
	})

	_, labID := p.ResearchLab(0)
	lab := p.Factory.Labs.Get(labID)
	lab.MatrixServed[0] = 5 * 3600

	sf := optimize(t, p)
	require.Equal(t, 1, sf.ResearchingLabs.Count())

	// One hash takes sixty ticks at 1x speed.
	for range 119 {
		sf.GameTickResearch()
	}
	tech, _ := p.Research.Tech(1)
	assert.Equal(t, int64(1), tech.HashUploaded)
	assert.False(t, tech.Unlocked)

	for range 100 {
		sf.GameTickResearch()
	}
	tech, _ = p.Research.Tech(1)
	assert.True(t, tech.Unlocked)
	assert.Equal(t, int64(2), tech.HashUploaded)
	assert.Equal(t, []int32{1}, unlocked)
	assert.True(t, p.Research.IsRecipeUnlocked(42))

	sf.Save()
	assert.Equal(t, int32(3*3600), lab.MatrixServed[0])
}

func TestResearchingLabOutputToNext(t *testing.T) {
	p := testfactory.New()
	_, topID := p.ResearchLab(0)
	_, bottomID := p.ResearchLab(topID)
	p.Factory.Labs.Get(bottomID).MatrixServed[0] = 4 * 3600

	sf := optimize(t, p)
	sf.LabOutputToNext(1)
	sf.Save()
	assert.Equal(t, int32(3*3600), p.Factory.Labs.Get(topID).MatrixServed[0])
	assert.Equal(t, int32(3600), p.Factory.Labs.Get(bottomID).MatrixServed[0])
}
