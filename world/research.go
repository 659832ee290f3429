package world

import "sync"

// Tech is one research node. MatrixPoints are the matrix amounts consumed per
// hash in 1/3600 of an item.
type Tech struct {
	ID            int32
	HashNeeded    int64
	HashUploaded  int64
	MatrixPoints  [MaxNeeds]int32
	UnlockRecipes []int32
	Unlocked      bool
}

// Research is the cluster-wide tech state. Labs on every planet upload hashes
// into it, so all mutation happens under its lock.
type Research struct {
	mu sync.Mutex

	// ResearchSpeed multiplies every lab's hash rate.
	ResearchSpeed float32
	HashTotal     int64

	techs     map[int32]*Tech
	queue     []int32
	recipes   map[int32]bool
	listeners []func(Tech)
}

func NewResearch() *Research {
	return &Research{
		ResearchSpeed: 1,
		techs:         make(map[int32]*Tech),
		recipes:       make(map[int32]bool),
	}
}

func (r *Research) Lock()   { r.mu.Lock() }
func (r *Research) Unlock() { r.mu.Unlock() }

func (r *Research) AddTech(t Tech) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tech := t
	r.techs[t.ID] = &tech
}

// Enqueue appends a tech to the research queue.
func (r *Research) Enqueue(techID int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, techID)
}

func (r *Research) UnlockRecipe(recipeID int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[recipeID] = true
}

func (r *Research) IsRecipeUnlocked(recipeID int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recipes[recipeID]
}

// Tech returns a copy of a tech's state.
func (r *Research) Tech(techID int32) (Tech, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.techs[techID]
	if !ok {
		return Tech{}, false
	}
	return *t, true
}

// OnTechUnlocked registers a callback. Callbacks run with the lock held.
func (r *Research) OnTechUnlocked(fn func(Tech)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// CurrentTech returns the head of the queue. The caller must hold the lock.
func (r *Research) CurrentTech() *Tech {
	for len(r.queue) > 0 {
		t, ok := r.techs[r.queue[0]]
		if ok && !t.Unlocked {
			return t
		}
		r.queue = r.queue[1:]
	}
	return nil
}

// UploadHashes adds hashes to the current tech and unlocks it once enough
// have arrived. It reports whether the upload unlocked the tech. The caller
// must hold the lock.
func (r *Research) UploadHashes(hashes int64) bool {
	t := r.CurrentTech()
	if t == nil || hashes <= 0 {
		return false
	}
	t.HashUploaded += hashes
	r.HashTotal += hashes
	if t.HashUploaded < t.HashNeeded {
		return false
	}

	t.HashUploaded = t.HashNeeded
	t.Unlocked = true
	for _, recipeID := range t.UnlockRecipes {
		r.recipes[recipeID] = true
	}
	r.queue = r.queue[1:]
	for _, fn := range r.listeners {
		fn(*t)
	}
	return true
}
