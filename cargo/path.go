package cargo

// Cargo is one stack of items occupying a single belt cell.
type Cargo struct {
	Item  int16
	Stack byte
	Inc   byte
}

// BeltIndex addresses a path inside a Traffic.
type BeltIndex int32

// NoBelt marks an unconnected belt slot.
const NoBelt BeltIndex = -1

const maxHandles = 255

// Path is a belt's byte buffer. A zero cell is blank, any other value is the
// 1-based handle of a cargo in the path's cargo table. Cargo flows from the
// head (cell 0) toward the end (last cell).
type Path struct {
	ID       int32
	Buffer   []byte
	Cargos   []Cargo
	Speed    int
	MaxStack int
	Output   BeltIndex

	nextHandle int
}

// NewPath creates an empty path with the given number of cells.
func NewPath(id int32, length, speed, maxStack int) *Path {
	return &Path{
		ID:       id,
		Buffer:   make([]byte, length),
		Speed:    speed,
		MaxStack: maxStack,
		Output:   NoBelt,
	}
}

// NewPathFromBuffer wraps an existing cell buffer. Non-zero cells are treated
// as handles even when the cargo table does not describe them.
func NewPathFromBuffer(buffer []byte, speed, maxStack int) *Path {
	return &Path{
		Buffer:   buffer,
		Speed:    speed,
		MaxStack: maxStack,
		Output:   NoBelt,
	}
}

// Len returns the number of cells.
func (p *Path) Len() int {
	return len(p.Buffer)
}

// Cargo returns the cargo stored under a handle.
func (p *Path) Cargo(handle byte) Cargo {
	if handle == 0 || int(handle) > len(p.Cargos) {
		return Cargo{}
	}
	return p.Cargos[handle-1]
}

// ItemCount sums the stacks of every cargo currently on the path.
func (p *Path) ItemCount() int {
	total := 0
	for _, cell := range p.Buffer {
		if cell != 0 {
			total += int(p.Cargo(cell).Stack)
		}
	}
	return total
}

// ClearRange blanks cells start..end inclusive and releases their cargo.
func (p *Path) ClearRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end >= len(p.Buffer) {
		end = len(p.Buffer) - 1
	}
	for i := start; i <= end; i++ {
		p.release(p.Buffer[i])
		p.Buffer[i] = 0
	}
}

// Update advances every cargo toward the end by up to Speed cells. Cargo only
// moves into blank cells, so a blocked end makes the cargo behind it queue up.
func (p *Path) Update() {
	last := len(p.Buffer) - 1
	for i := last - 1; i >= 0; i-- {
		cell := p.Buffer[i]
		if cell == 0 {
			continue
		}
		j := i
		for step := 0; step < p.Speed && j < last && p.Buffer[j+1] == 0; step++ {
			j++
		}
		if j != i {
			p.Buffer[j] = cell
			p.Buffer[i] = 0
		}
	}
}

// TestBlankAtHead reports whether a cargo can be placed at cell 0.
func (p *Path) TestBlankAtHead() bool {
	return len(p.Buffer) > 0 && p.Buffer[0] == 0
}

// TryGetCargoIdAtRear returns the item of the cargo waiting at the end cell.
func (p *Path) TryGetCargoIdAtRear() (int16, bool) {
	if len(p.Buffer) == 0 {
		return 0, false
	}
	cell := p.Buffer[len(p.Buffer)-1]
	if cell == 0 {
		return 0, false
	}
	return p.Cargo(cell).Item, true
}

// PeekCargoAtEnd returns the cargo at the end cell without removing it.
func (p *Path) PeekCargoAtEnd() (Cargo, bool) {
	if len(p.Buffer) == 0 {
		return Cargo{}, false
	}
	cell := p.Buffer[len(p.Buffer)-1]
	if cell == 0 {
		return Cargo{}, false
	}
	return p.Cargo(cell), true
}

// TryPickCargoAtEnd removes the cargo at the end cell when it passes the
// filter (0 accepts any item) and, if needs is non-nil, is listed in needs.
func (p *Path) TryPickCargoAtEnd(filter int16, needs []int16) (Cargo, bool) {
	if len(p.Buffer) == 0 {
		return Cargo{}, false
	}
	last := len(p.Buffer) - 1
	cell := p.Buffer[last]
	if cell == 0 {
		return Cargo{}, false
	}
	c := p.Cargo(cell)
	if filter != 0 && c.Item != filter {
		return Cargo{}, false
	}
	if needs != nil && !containsItem(needs, c.Item) {
		return Cargo{}, false
	}
	p.release(cell)
	p.Buffer[last] = 0
	return c, true
}

// TryInsertItemAtHead places a new cargo at cell 0 if it is blank.
func (p *Path) TryInsertItemAtHead(item int16, stack, inc byte) bool {
	if !p.TestBlankAtHead() {
		return false
	}
	handle, ok := p.alloc(Cargo{Item: item, Stack: stack, Inc: inc})
	if !ok {
		return false
	}
	p.Buffer[0] = handle
	return true
}

// TryInsertItemAtHeadAndFillBlank places a new cargo in the furthest blank
// cell of the leading blank run, closing the gap to the cargo ahead of it.
func (p *Path) TryInsertItemAtHeadAndFillBlank(item int16, stack, inc byte) bool {
	slot := p.fillBlankSlot()
	if slot < 0 {
		return false
	}
	handle, ok := p.alloc(Cargo{Item: item, Stack: stack, Inc: inc})
	if !ok {
		return false
	}
	p.Buffer[slot] = handle
	return true
}

// TryUpdateItemAtHeadAndFillBlank stacks onto the cargo sitting at cell 0 when
// it carries the same item and the result stays within maxStack, otherwise it
// inserts a new cargo like TryInsertItemAtHeadAndFillBlank.
func (p *Path) TryUpdateItemAtHeadAndFillBlank(item int16, maxStack int, stack, inc byte) bool {
	if len(p.Buffer) == 0 {
		return false
	}
	if head := p.Buffer[0]; head != 0 {
		c := &p.Cargos[head-1]
		if c.Item != item || int(c.Stack)+int(stack) > maxStack {
			return false
		}
		c.Stack += stack
		c.Inc += inc
		return true
	}
	return p.TryInsertItemAtHeadAndFillBlank(item, stack, inc)
}

// InsertCargoAtHeadDirect writes a cargo to cell 0 without checking that the
// cell is blank; call TestBlankAtHead first. It fails only when every cargo
// handle of the path is in use.
func (p *Path) InsertCargoAtHeadDirect(c Cargo) bool {
	handle, ok := p.alloc(c)
	if !ok {
		return false
	}
	p.Buffer[0] = handle
	return true
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	clone := *p
	clone.Buffer = append([]byte(nil), p.Buffer...)
	clone.Cargos = append([]Cargo(nil), p.Cargos...)
	return &clone
}

func (p *Path) fillBlankSlot() int {
	slot := -1
	for i, cell := range p.Buffer {
		if cell != 0 {
			break
		}
		slot = i
	}
	return slot
}

func (p *Path) alloc(c Cargo) (byte, bool) {
	if p.Cargos == nil {
		p.Cargos = make([]Cargo, maxHandles)
	}
	for n := 0; n < maxHandles; n++ {
		i := (p.nextHandle + n) % maxHandles
		if p.Cargos[i].Stack == 0 && !p.handleInUse(byte(i+1)) {
			p.Cargos[i] = c
			p.nextHandle = (i + 1) % maxHandles
			return byte(i + 1), true
		}
	}
	return 0, false
}

// handleInUse guards against buffers seeded with handles the cargo table does
// not describe.
func (p *Path) handleInUse(handle byte) bool {
	for _, cell := range p.Buffer {
		if cell == handle {
			return true
		}
	}
	return false
}

func (p *Path) release(handle byte) {
	if handle == 0 || int(handle) > len(p.Cargos) {
		return
	}
	p.Cargos[handle-1] = Cargo{}
}

func containsItem(items []int16, item int16) bool {
	for _, it := range items {
		if it == item && it != 0 {
			return true
		}
	}
	return false
}
