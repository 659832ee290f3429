package world

import "iter"

const (
	poolBlockSize = 64
)

// Record is embedded by every pooled component. A slot is live when the
// record's ID equals the slot index; removed slots have their ID zeroed.
type Record struct {
	ID int32
}

func (r *Record) record() *Record { return r }

type pooled interface {
	record() *Record
}

// Pool stores records of type T in fixed-size blocks so pointers stay valid
// while the pool grows. Slot 0 is never used, which makes 0 a "none" id.
type Pool[T any] struct {
	blocks    [][poolBlockSize]T
	freeSlots []int32
	cursor    int32
}

// NewPool creates an empty pool. T must embed Record.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{
		blocks: make([][poolBlockSize]T, 1),
		cursor: 1,
	}
}

func recordOf[T any](item *T) *Record {
	return any(item).(pooled).record()
}

// Add stores a copy of item and returns its id. Recycled slots are reused.
func (p *Pool[T]) Add(item T) int32 {
	var id int32
	if len(p.freeSlots) > 0 {
		id = p.freeSlots[len(p.freeSlots)-1]
		p.freeSlots = p.freeSlots[:len(p.freeSlots)-1]
	} else {
		id = p.cursor
		p.cursor++
		if blockIdx := int(id) / poolBlockSize; blockIdx >= len(p.blocks) {
			p.blocks = append(p.blocks, [poolBlockSize]T{})
		}
	}

	slot := p.At(id)
	*slot = item
	recordOf(slot).ID = id
	return id
}

// Remove zeroes the slot and queues it for reuse.
func (p *Pool[T]) Remove(id int32) {
	if !p.IsLive(id) {
		return
	}
	var zero T
	*p.At(id) = zero
	p.freeSlots = append(p.freeSlots, id)
}

// At returns the slot at index regardless of liveness, or nil past the cursor.
func (p *Pool[T]) At(index int32) *T {
	if index < 0 || index >= p.cursor {
		return nil
	}
	return &p.blocks[index/poolBlockSize][index%poolBlockSize]
}

// Get returns the live record with the given id, or nil.
func (p *Pool[T]) Get(id int32) *T {
	if !p.IsLive(id) {
		return nil
	}
	return p.At(id)
}

// IsLive reports whether the slot holds a record whose ID matches its index.
func (p *Pool[T]) IsLive(index int32) bool {
	slot := p.At(index)
	return slot != nil && index != 0 && recordOf(slot).ID == index
}

// Cursor is the exclusive upper bound of used slot indices.
func (p *Pool[T]) Cursor() int32 {
	return p.cursor
}

// Len counts live records.
func (p *Pool[T]) Len() int {
	return int(p.cursor) - 1 - len(p.freeSlots)
}

// Live iterates live records in slot order.
func (p *Pool[T]) Live() iter.Seq2[int32, *T] {
	return func(yield func(int32, *T) bool) {
		for i := int32(1); i < p.cursor; i++ {
			slot := p.At(i)
			if recordOf(slot).ID != i {
				continue
			}
			if !yield(i, slot) {
				return
			}
		}
	}
}
