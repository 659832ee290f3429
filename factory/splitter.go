package factory

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/world"
)

const noStorage int32 = -1

type OptimizedSplitter struct {
	inputs       [4]cargo.BeltIndex
	outputs      [4]cargo.BeltIndex
	outFilter    int16
	storage      int32
	presets      byte
	inputCursor  uint8
	outputCursor uint8
}

func (s *OptimizedSplitter) inputPinned(slot int) bool {
	return s.presets&(1<<slot) != 0
}

func (s *OptimizedSplitter) outputPinned(slot int) bool {
	return s.presets&(1<<(slot+4)) != 0
}

// order lists connected slots: pinned ones in slot order, then the rest
// starting at cursor.
func order(slots [4]cargo.BeltIndex, pinned func(int) bool, cursor uint8) []int {
	result := make([]int, 0, 4)
	for slot := range slots {
		if slots[slot] != cargo.NoBelt && pinned(slot) {
			result = append(result, slot)
		}
	}
	for k := range 4 {
		slot := (int(cursor) + k) % 4
		if slots[slot] != cargo.NoBelt && !pinned(slot) {
			result = append(result, slot)
		}
	}
	return result
}

// accepts applies the output filter: filtered items only leave through
// output 0, everything else never does.
func (s *OptimizedSplitter) accepts(out int, item int16) bool {
	if s.outFilter == 0 {
		return true
	}
	if out == 0 {
		return item == s.outFilter
	}
	return item != s.outFilter
}

func (s *OptimizedSplitter) served(out int) {
	if !s.outputPinned(out) {
		s.outputCursor = uint8((out + 1) % 4)
	}
}

// SplitterExecutor merges and splits belts. Splitters draw no power.
type SplitterExecutor struct {
	splitters []OptimizedSplitter
	ids       []int32
}

func NewSplitterExecutor() *SplitterExecutor {
	return &SplitterExecutor{}
}

// Count is the number of optimized splitters.
func (e *SplitterExecutor) Count() int {
	return len(e.splitters)
}

// Initialize resolves the belts and box of every splitter of g.
func (e *SplitterExecutor) Initialize(planet *world.Planet, g *graph.Graph, traffic *cargo.Traffic, storages *StorageExecutor) {
	f := planet.Factory
	for n := range g.NodesOfType(graph.Splitter) {
		c := f.Splitters.Get(n.EntityTypeIndex.Index)
		if c == nil {
			continue
		}
		s := OptimizedSplitter{
			outFilter:    c.OutFilter,
			storage:      noStorage,
			presets:      c.PrioritySlotPresets,
			inputCursor:  c.InputCursor % 4,
			outputCursor: c.OutputCursor % 4,
		}
		for slot := range 4 {
			s.inputs[slot] = beltIndex(f, traffic, c.Inputs[slot])
			s.outputs[slot] = beltIndex(f, traffic, c.Outputs[slot])
		}
		if idx, ok := storages.Index(c.TopID); ok {
			s.storage = idx
		}
		e.ids = append(e.ids, c.ID)
		e.splitters = append(e.splitters, s)
	}
}

func (e *SplitterExecutor) UpdateSplitters(traffic *cargo.Traffic, storages *StorageExecutor) {
	for i := range e.splitters {
		e.update(&e.splitters[i], traffic, storages)
	}
}

func (e *SplitterExecutor) update(s *OptimizedSplitter, traffic *cargo.Traffic, storages *StorageExecutor) {
	for _, in := range order(s.inputs, s.inputPinned, s.inputCursor) {
		path := traffic.Path(s.inputs[in])
		c, ok := path.PeekCargoAtEnd()
		if !ok {
			continue
		}

		served := false
		for _, out := range order(s.outputs, s.outputPinned, s.outputCursor) {
			if !s.accepts(out, c.Item) {
				continue
			}
			outPath := traffic.Path(s.outputs[out])
			if !outPath.TestBlankAtHead() || !outPath.InsertCargoAtHeadDirect(c) {
				continue
			}
			path.TryPickCargoAtEnd(0, nil)
			s.served(out)
			served = true
			break
		}
		if !served && s.storage != noStorage && storages.add(int(s.storage), c.Item, int32(c.Stack), int32(c.Inc)) {
			path.TryPickCargoAtEnd(0, nil)
			served = true
		}
		if served && !s.inputPinned(in) {
			s.inputCursor = uint8((in + 1) % 4)
		}
	}

	if s.storage == noStorage {
		return
	}
	for _, out := range order(s.outputs, s.outputPinned, s.outputCursor) {
		outPath := traffic.Path(s.outputs[out])
		if !outPath.TestBlankAtHead() {
			continue
		}
		item, inc, ok := storages.take(int(s.storage), func(item int16) bool { return s.accepts(out, item) })
		if !ok {
			continue
		}
		if !outPath.InsertCargoAtHeadDirect(cargo.Cargo{Item: item, Stack: 1, Inc: byte(inc)}) {
			storages.add(int(s.storage), item, 1, inc)
			continue
		}
		s.served(out)
	}
}

// Save writes both cursors back into the splitter pool.
func (e *SplitterExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		if c := planet.Factory.Splitters.Get(id); c != nil {
			c.InputCursor = e.splitters[i].inputCursor
			c.OutputCursor = e.splitters[i].outputCursor
		}
	}
}
