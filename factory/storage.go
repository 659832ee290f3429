package factory

import (
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/world"
)

type storageBox struct {
	capacity int32
	filter   int16
	grids    []world.StorageGrid
}

// StorageExecutor holds the storage boxes inserters and splitters exchange
// items with. Storage has no update of its own.
type StorageExecutor struct {
	boxes   []storageBox
	ids     []int32
	indexes *intmap.Map[int32, int32]
}

func NewStorageExecutor() *StorageExecutor {
	return &StorageExecutor{indexes: intmap.New[int32, int32](8)}
}

// Initialize copies the grids of every storage box of g.
func (e *StorageExecutor) Initialize(planet *world.Planet, g *graph.Graph) {
	for n := range g.NodesOfType(graph.Storage) {
		s := planet.Factory.Storages.Get(n.EntityTypeIndex.Index)
		if s == nil {
			continue
		}
		e.indexes.Put(s.ID, int32(len(e.boxes)))
		e.ids = append(e.ids, s.ID)
		e.boxes = append(e.boxes, storageBox{
			capacity: s.Capacity,
			filter:   s.Filter,
			grids:    slices.Clone(s.Grids),
		})
	}
}

// Count is the number of optimized storage boxes.
func (e *StorageExecutor) Count() int {
	return len(e.boxes)
}

func (e *StorageExecutor) Index(id int32) (int32, bool) {
	return e.indexes.Get(id)
}

// ItemCount returns how many items of itemID box i holds; 0 counts all.
func (e *StorageExecutor) ItemCount(i int, itemID int16) int32 {
	total := int32(0)
	for _, grid := range e.boxes[i].grids {
		if itemID == 0 || grid.ItemID == itemID {
			total += grid.Count
		}
	}
	return total
}

func (e *StorageExecutor) add(i int, item int16, count, inc int32) bool {
	box := &e.boxes[i]
	if box.filter != 0 && box.filter != item {
		return false
	}
	if e.ItemCount(i, 0)+count > box.capacity {
		return false
	}
	for g := range box.grids {
		if box.grids[g].ItemID == item {
			box.grids[g].Count += count
			box.grids[g].Inc += inc
			return true
		}
	}
	box.grids = append(box.grids, world.StorageGrid{ItemID: item, Count: count, Inc: inc})
	return true
}

// take removes one item accepted by accept.
func (e *StorageExecutor) take(i int, accept func(item int16) bool) (int16, int32, bool) {
	box := &e.boxes[i]
	for g := range box.grids {
		grid := &box.grids[g]
		if grid.Count <= 0 || !accept(grid.ItemID) {
			continue
		}
		item := grid.ItemID
		inc := splitInc(grid.Count, grid.Inc, 1)
		grid.Count--
		grid.Inc -= inc
		if grid.Count == 0 {
			box.grids = slices.Delete(box.grids, g, g+1)
		}
		return item, inc, true
	}
	return 0, 0, false
}

// Save writes the grids back into the storage pool.
func (e *StorageExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		if s := planet.Factory.Storages.Get(id); s != nil {
			s.Grids = slices.Clone(e.boxes[i].grids)
		}
	}
}
