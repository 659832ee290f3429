package factory_test

import (
	"testing"

	"github.com/plus3/weaver/internal/testfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitterRun feeds one item per tick into a splitter with two outputs and
// records which output received it.
func splitterRun(t *testing.T, items []int16, outFilter int16, presets byte) ([]int, *testfactory.Planet, int32) {
	t.Helper()
	p := testfactory.New()
	in := p.Belt(1)
	out0 := p.Belt(1)
	out1 := p.Belt(1)
	_, splitterID := p.Splitter([]testfactory.Belt{in}, []testfactory.Belt{out0, out1}, outFilter, presets)
	sf := optimize(t, p)
	require.Equal(t, 1, sf.Splitters.Count())

	var got []int
	for _, item := range items {
		require.True(t, in.Path.TryInsertItemAtHead(item, 1, 0))
		sf.UpdateSplitters()
		switch {
		case out0.Path.ItemCount() == 1:
			got = append(got, 0)
		case out1.Path.ItemCount() == 1:
			got = append(got, 1)
		default:
			got = append(got, -1)
		}
		out0.Path.ClearRange(0, 0)
		out1.Path.ClearRange(0, 0)
	}
	sf.Save()
	return got, p, splitterID
}

func TestSplitter(t *testing.T) {
	plates := []int16{testfactory.IronPlate, testfactory.IronPlate, testfactory.IronPlate, testfactory.IronPlate}

	t.Run("alternates outputs", func(t *testing.T) {
		got, p, id := splitterRun(t, plates, 0, 0)
		assert.Equal(t, []int{0, 1, 0, 1}, got)
		assert.Equal(t, uint8(2), p.Factory.Splitters.Get(id).OutputCursor)
	})

	t.Run("pinned output always wins", func(t *testing.T) {
		got, _, _ := splitterRun(t, plates, 0, 1<<4)
		assert.Equal(t, []int{0, 0, 0, 0}, got)
	})

	t.Run("filter routes to output zero", func(t *testing.T) {
		items := []int16{testfactory.Gear, testfactory.IronPlate, testfactory.IronPlate, testfactory.Gear}
		got, _, _ := splitterRun(t, items, testfactory.Gear, 0)
		assert.Equal(t, []int{0, 1, 1, 0}, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, _, _ := splitterRun(t, plates, 0, 0)
		b, _, _ := splitterRun(t, plates, 0, 0)
		assert.Equal(t, a, b)
	})
}

func TestSplitterOutputOutOfHandles(t *testing.T) {
	p := testfactory.New()
	in := p.Belt(1)
	out := p.Belt(300)
	for range 255 {
		require.True(t, out.Path.TryInsertItemAtHead(testfactory.IronPlate, 1, 0))
		out.Path.Update()
	}
	p.Splitter([]testfactory.Belt{in}, []testfactory.Belt{out}, 0, 0)
	sf := optimize(t, p)

	require.True(t, in.Path.TryInsertItemAtHead(testfactory.Gear, 1, 0))
	sf.UpdateSplitters()

	assert.Equal(t, 1, in.Path.ItemCount())
	assert.Equal(t, 255, out.Path.ItemCount())
}

func TestSplitterStorage(t *testing.T) {
	p := testfactory.New()
	in := p.Belt(1)
	out := p.Belt(1)
	_, storageID := p.Storage(10)
	_, splitterID := p.Splitter([]testfactory.Belt{in}, []testfactory.Belt{out}, 0, 0)
	p.Factory.Splitters.Get(splitterID).TopID = storageID
	sf := optimize(t, p)

	// The output is blocked, so the cargo drops into the box.
	require.True(t, out.Path.TryInsertItemAtHead(testfactory.Gear, 1, 0))
	require.True(t, in.Path.TryInsertItemAtHead(testfactory.IronPlate, 1, 0))
	sf.UpdateSplitters()
	assert.Equal(t, 0, in.Path.ItemCount())

	// Once the output clears, the box refills it.
	out.Path.ClearRange(0, 0)
	sf.UpdateSplitters()
	c, ok := out.Path.PeekCargoAtEnd()
	require.True(t, ok)
	assert.Equal(t, testfactory.IronPlate, c.Item)

	sf.Save()
	assert.Empty(t, p.Factory.Storages.Get(storageID).Grids)
}
