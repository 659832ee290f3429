package cargo_test

import (
	"testing"

	"github.com/plus3/weaver/cargo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathUpdate(t *testing.T) {
	t.Run("clear range then shift", func(t *testing.T) {
		path := cargo.NewPathFromBuffer([]byte{0, 3, 4, 7, 2}, 1, 1)

		path.ClearRange(3, 4)
		path.Update()
		assert.Equal(t, []byte{0, 0, 3, 4, 0}, path.Buffer)

		path.Update()
		assert.Equal(t, []byte{0, 0, 0, 3, 4}, path.Buffer)
	})

	t.Run("blocked end queues cargo", func(t *testing.T) {
		path := cargo.NewPathFromBuffer([]byte{1, 0, 2, 0, 3}, 1, 1)

		path.Update()
		assert.Equal(t, []byte{0, 1, 0, 2, 3}, path.Buffer)
		path.Update()
		assert.Equal(t, []byte{0, 0, 1, 2, 3}, path.Buffer)
		path.Update()
		assert.Equal(t, []byte{0, 0, 1, 2, 3}, path.Buffer)
	})

	t.Run("speed moves several cells", func(t *testing.T) {
		path := cargo.NewPathFromBuffer([]byte{5, 0, 0, 0, 0, 0}, 3, 1)

		path.Update()
		assert.Equal(t, []byte{0, 0, 0, 5, 0, 0}, path.Buffer)
		path.Update()
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 5}, path.Buffer)
	})
}

func TestPathInsertAndPick(t *testing.T) {
	t.Run("insert at head requires blank head", func(t *testing.T) {
		path := cargo.NewPath(1, 4, 1, 4)

		require.True(t, path.TryInsertItemAtHead(1101, 1, 0))
		assert.False(t, path.TestBlankAtHead())
		assert.False(t, path.TryInsertItemAtHead(1101, 1, 0))
		assert.Equal(t, 1, path.ItemCount())
	})

	t.Run("fill blank closes the gap", func(t *testing.T) {
		path := cargo.NewPath(1, 5, 1, 4)
		require.True(t, path.TryInsertItemAtHead(1101, 1, 0))
		path.Update()
		path.Update()

		require.True(t, path.TryInsertItemAtHeadAndFillBlank(1102, 1, 0))
		assert.Equal(t, byte(0), path.Buffer[0])
		assert.NotEqual(t, byte(0), path.Buffer[1])
		assert.Equal(t, int16(1102), path.Cargo(path.Buffer[1]).Item)
	})

	t.Run("update stacks onto head cargo", func(t *testing.T) {
		path := cargo.NewPath(1, 1, 1, 4)
		require.True(t, path.TryUpdateItemAtHeadAndFillBlank(1101, 4, 2, 1))
		require.True(t, path.TryUpdateItemAtHeadAndFillBlank(1101, 4, 2, 1))
		assert.False(t, path.TryUpdateItemAtHeadAndFillBlank(1101, 4, 1, 0))
		assert.False(t, path.TryUpdateItemAtHeadAndFillBlank(1102, 4, 1, 0))

		c := path.Cargo(path.Buffer[0])
		assert.Equal(t, cargo.Cargo{Item: 1101, Stack: 4, Inc: 2}, c)
	})

	t.Run("pick at end honours filter and needs", func(t *testing.T) {
		path := cargo.NewPath(1, 2, 1, 1)
		require.True(t, path.TryInsertItemAtHead(1101, 1, 3))
		path.Update()

		item, ok := path.TryGetCargoIdAtRear()
		require.True(t, ok)
		assert.Equal(t, int16(1101), item)

		_, ok = path.TryPickCargoAtEnd(1102, nil)
		assert.False(t, ok)
		_, ok = path.TryPickCargoAtEnd(0, []int16{1102, 0, 0})
		assert.False(t, ok)

		c, ok := path.TryPickCargoAtEnd(0, []int16{0, 1101, 0})
		require.True(t, ok)
		assert.Equal(t, cargo.Cargo{Item: 1101, Stack: 1, Inc: 3}, c)
		assert.Equal(t, 0, path.ItemCount())
	})
}

func TestTraffic(t *testing.T) {
	traffic := cargo.NewTraffic(2)
	a := traffic.Add(cargo.NewPath(10, 3, 1, 1))
	b := traffic.Add(cargo.NewPath(20, 3, 1, 1))
	traffic.Link(a, b)

	assert.Equal(t, a, traffic.Add(cargo.NewPath(10, 3, 1, 1)))
	idx, ok := traffic.Index(20)
	require.True(t, ok)
	assert.Equal(t, b, idx)

	require.True(t, traffic.Path(a).TryInsertItemAtHead(1101, 1, 0))
	for range 3 {
		traffic.UpdatePath(b)
		traffic.UpdatePath(a)
	}

	assert.Equal(t, 0, traffic.Path(a).ItemCount())
	assert.Equal(t, 1, traffic.Path(b).ItemCount())
}

// exhaustHandles puts 255 cargos on a long path, leaving its head blank.
func exhaustHandles(t *testing.T, path *cargo.Path) {
	t.Helper()
	for range 255 {
		require.True(t, path.TryInsertItemAtHead(1101, 1, 0))
		path.Update()
	}
	require.True(t, path.TestBlankAtHead())
}

func TestPathHandlesExhausted(t *testing.T) {
	t.Run("direct insert reports failure", func(t *testing.T) {
		path := cargo.NewPath(1, 300, 1, 4)
		exhaustHandles(t, path)

		assert.False(t, path.InsertCargoAtHeadDirect(cargo.Cargo{Item: 1102, Stack: 1}))
		assert.False(t, path.TryInsertItemAtHead(1102, 1, 0))
		assert.Equal(t, 255, path.ItemCount())
	})

	t.Run("traffic keeps cargo it cannot hand over", func(t *testing.T) {
		traffic := cargo.NewTraffic(2)
		a := traffic.Add(cargo.NewPath(10, 2, 1, 4))
		b := traffic.Add(cargo.NewPath(20, 300, 1, 4))
		traffic.Link(a, b)
		exhaustHandles(t, traffic.Path(b))

		require.True(t, traffic.Path(a).TryInsertItemAtHead(1102, 1, 0))
		for range 3 {
			traffic.UpdatePath(a)
		}
		assert.Equal(t, 1, traffic.Path(a).ItemCount())
		end, ok := traffic.Path(a).PeekCargoAtEnd()
		require.True(t, ok)
		assert.Equal(t, int16(1102), end.Item)
		assert.Equal(t, 255, traffic.Path(b).ItemCount())
	})
}
