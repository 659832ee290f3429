package cargo

import "github.com/kamstrup/intmap"

// Traffic holds every cargo path of one planet in a dense slice. Indices are
// assigned once at optimize time and never alias between sub-factories.
type Traffic struct {
	paths []*Path
	index *intmap.Map[int32, BeltIndex]
}

func NewTraffic(capacity int) *Traffic {
	return &Traffic{
		paths: make([]*Path, 0, capacity),
		index: intmap.New[int32, BeltIndex](capacity),
	}
}

// Add registers a path and returns its dense index. Adding the same path id
// twice returns the existing index.
func (t *Traffic) Add(p *Path) BeltIndex {
	if idx, ok := t.index.Get(p.ID); ok {
		return idx
	}
	idx := BeltIndex(len(t.paths))
	t.paths = append(t.paths, p)
	t.index.Put(p.ID, idx)
	return idx
}

// Link makes from hand its end cargo to the head of to.
func (t *Traffic) Link(from, to BeltIndex) {
	t.paths[from].Output = to
}

// Index resolves a path id to its dense index.
func (t *Traffic) Index(pathID int32) (BeltIndex, bool) {
	return t.index.Get(pathID)
}

func (t *Traffic) Path(i BeltIndex) *Path {
	if i < 0 || int(i) >= len(t.paths) {
		return nil
	}
	return t.paths[i]
}

func (t *Traffic) Len() int {
	return len(t.paths)
}

// UpdatePath moves the end cargo of path i onto its output path when the
// output head is blank, then advances the path.
func (t *Traffic) UpdatePath(i BeltIndex) {
	p := t.paths[i]
	if p.Output != NoBelt && p.Len() > 0 {
		out := t.paths[p.Output]
		last := p.Len() - 1
		if cell := p.Buffer[last]; cell != 0 && out.TestBlankAtHead() && out.InsertCargoAtHeadDirect(p.Cargo(cell)) {
			p.release(cell)
			p.Buffer[last] = 0
		}
	}
	p.Update()
}
