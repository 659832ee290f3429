package world_test

import (
	"testing"

	"github.com/plus3/weaver/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	world.Record
	Value int
}

func TestPool(t *testing.T) {
	t.Run("ids start at one", func(t *testing.T) {
		pool := world.NewPool[widget]()
		id := pool.Add(widget{Value: 7})

		assert.Equal(t, int32(1), id)
		assert.Equal(t, int32(2), pool.Cursor())
		require.NotNil(t, pool.Get(id))
		assert.Equal(t, 7, pool.Get(id).Value)
		assert.Nil(t, pool.Get(0))
	})

	t.Run("removed slots are not live and get recycled", func(t *testing.T) {
		pool := world.NewPool[widget]()
		a := pool.Add(widget{Value: 1})
		b := pool.Add(widget{Value: 2})
		pool.Add(widget{Value: 3})

		pool.Remove(b)
		assert.False(t, pool.IsLive(b))
		assert.Equal(t, int32(0), pool.At(b).ID)
		assert.Equal(t, 2, pool.Len())

		var seen []int
		for _, w := range pool.Live() {
			seen = append(seen, w.Value)
		}
		assert.Equal(t, []int{1, 3}, seen)

		reused := pool.Add(widget{Value: 4})
		assert.Equal(t, b, reused)
		assert.True(t, pool.IsLive(a))
		assert.Equal(t, 3, pool.Len())
	})

	t.Run("pointers survive growth", func(t *testing.T) {
		pool := world.NewPool[widget]()
		first := pool.Get(pool.Add(widget{Value: 1}))
		for i := range 500 {
			pool.Add(widget{Value: i})
		}
		first.Value = 99
		assert.Equal(t, 99, pool.Get(1).Value)
	})
}

func TestFactoryRemoveEntity(t *testing.T) {
	f := world.NewFactory()
	entityID, inserterID := f.AddInserter(world.InserterComponent{Speed: 10000})

	require.NotNil(t, f.Inserters.Get(inserterID))
	assert.Equal(t, entityID, f.Inserters.Get(inserterID).EntityID)

	f.RemoveEntity(entityID)
	assert.Nil(t, f.Inserters.Get(inserterID))
	assert.Nil(t, f.Entities.Get(entityID))
}
