package factory

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/world"
)

const (
	pickIdleTicks   = 9
	insertIdleTicks = 10
)

// InserterGrade holds the parts of an inserter shared by every inserter of
// the same model.
type InserterGrade struct {
	Delay       int32
	StackInput  int32
	StackOutput int32
}

type OptimizedInserter struct {
	grade      int32
	pickFrom   TypedIndex
	insertInto TypedIndex
	filter     int16
	careNeeds  bool
	speed      int32
	stt        int32
}

type inserterState struct {
	stage      world.InserterStage
	time       int32
	idleTick   int32
	itemID     int16
	itemCount  int16
	itemInc    int16
	stackCount int16
}

// inserterSet is the dense store behind both inserter executors.
type inserterSet struct {
	inserters []OptimizedInserter
	states    []inserterState
	grades    []InserterGrade
	consumers []power.Consumer
	ids       []int32
	indexes   *intmap.Map[int32, int32]
}

func newInserterSet() inserterSet {
	return inserterSet{indexes: intmap.New[int32, int32](64)}
}

// Count is the number of optimized inserters.
func (s *inserterSet) Count() int {
	return len(s.inserters)
}

func (s *inserterSet) Index(id int32) (int32, bool) {
	return s.indexes.Get(id)
}

func (s *inserterSet) Stage(i int) world.InserterStage {
	return s.states[i].stage
}

// Grades returns the distinct inserter grades.
func (s *inserterSet) Grades() []InserterGrade {
	return s.grades
}

func (s *inserterSet) gradeIndex(g InserterGrade) int32 {
	for i, existing := range s.grades {
		if existing == g {
			return int32(i)
		}
	}
	s.grades = append(s.grades, g)
	return int32(len(s.grades) - 1)
}

func (s *inserterSet) add(c *world.InserterComponent, pick, insert TypedIndex, consumer power.Consumer) {
	s.indexes.Put(c.ID, int32(len(s.inserters)))
	s.ids = append(s.ids, c.ID)
	s.consumers = append(s.consumers, consumer)
	s.inserters = append(s.inserters, OptimizedInserter{
		grade: s.gradeIndex(InserterGrade{
			Delay:       c.Delay,
			StackInput:  max(c.StackInput, 1),
			StackOutput: max(c.StackOutput, 1),
		}),
		pickFrom:   pick,
		insertInto: insert,
		filter:     c.Filter,
		careNeeds:  c.CareNeeds && insert.Type != graph.Belt && insert.Type != graph.Storage,
		speed:      c.Speed,
		stt:        c.Stt,
	})
	s.states = append(s.states, inserterState{
		stage:      c.Stage,
		time:       c.Time,
		idleTick:   c.IdleTick,
		itemID:     c.ItemID,
		itemCount:  c.ItemCount,
		itemInc:    c.ItemInc,
		stackCount: c.StackCount,
	})
}

// idle consumes one tick of the needs cooldown. It reports true while the
// cooldown is still running.
func (st *inserterState) idle() bool {
	tick := st.idleTick
	st.idleTick--
	return tick >= 1
}

func (s *inserterSet) update(i int, power float32, t *targets) {
	if power < minWorkingPower {
		return
	}
	ins := &s.inserters[i]
	st := &s.states[i]
	grade := &s.grades[ins.grade]
	step := int32(power * float32(ins.speed))

	switch st.stage {
	case world.InserterPicking:
		needs := t.needsOf(ins.insertInto)
		if ins.careNeeds && st.stackCount == 0 {
			if st.idle() {
				return
			}
			if !hasNeeds(needs) {
				st.idleTick = pickIdleTicks
				return
			}
		}
		if int32(st.stackCount) < grade.StackInput {
			filter := ins.filter
			if st.itemID != 0 {
				filter = st.itemID
			}
			if item, count, inc, ok := t.pick(ins.pickFrom, filter, needs); ok {
				st.itemID = item
				st.itemCount += int16(count)
				st.itemInc += int16(inc)
				st.stackCount++
			}
		}
		if st.stackCount == 0 {
			return
		}
		if int32(st.stackCount) >= grade.StackInput || st.time >= grade.Delay {
			st.stage = world.InserterSending
			st.time = 0
			return
		}
		st.time += step
	case world.InserterSending:
		st.time += step
		if st.time >= ins.stt {
			st.stage = world.InserterInserting
			st.time -= ins.stt
		}
	case world.InserterInserting:
		if ins.insertInto.Type == graph.Belt {
			n := min(int32(st.itemCount), grade.StackOutput)
			inc := splitInc(int32(st.itemCount), int32(st.itemInc), n)
			if !t.insert(ins.insertInto, st.itemID, n, inc, grade.StackOutput) {
				return
			}
			st.itemCount -= int16(n)
			st.itemInc -= int16(inc)
		} else {
			if ins.careNeeds {
				if st.idle() {
					return
				}
				if !needsItem(t.needsOf(ins.insertInto), st.itemID) {
					st.idleTick = insertIdleTicks
					return
				}
			}
			if !t.insert(ins.insertInto, st.itemID, int32(st.itemCount), int32(st.itemInc), 0) {
				return
			}
			st.itemCount = 0
			st.itemInc = 0
		}
		if st.itemCount > 0 {
			return
		}
		st.itemID = 0
		st.itemInc = 0
		st.stackCount = 0
		st.stage = world.InserterReturning
		st.time = 0
	case world.InserterReturning:
		st.time += step
		if st.time >= ins.stt {
			st.stage = world.InserterPicking
			st.time -= ins.stt
		}
	}
}

func (s *inserterSet) updateAll(serves []float32, t *targets) {
	for i := range s.inserters {
		s.update(i, serves[s.consumers[i].NetworkID], t)
	}
}

func (s *inserterSet) UpdatePower(system *power.SubFactoryPowerSystem) {
	for i, c := range s.consumers {
		system.Add(c, s.states[i].stage != world.InserterPicking, 1000)
	}
}

// Save writes each inserter's stage and hand back into the pool.
func (s *inserterSet) Save(planet *world.Planet) {
	for i, id := range s.ids {
		c := planet.Factory.Inserters.Get(id)
		if c == nil {
			continue
		}
		st := &s.states[i]
		c.Stage = st.stage
		c.Time = st.time
		c.IdleTick = st.idleTick
		c.ItemID = st.itemID
		c.ItemCount = st.itemCount
		c.ItemInc = st.itemInc
		c.StackCount = st.stackCount
	}
}

// InserterExecutor runs inserters with at least one end on a machine or
// storage box.
type InserterExecutor struct {
	inserterSet
	unoptimized []graph.EntityTypeIndex
}

func NewInserterExecutor() *InserterExecutor {
	return &InserterExecutor{inserterSet: newInserterSet()}
}

// GameTick advances every inserter by one tick.
func (e *InserterExecutor) GameTick(serves []float32, t *targets) {
	e.updateAll(serves, t)
}

func (e *InserterExecutor) Unoptimized() []graph.EntityTypeIndex {
	return e.unoptimized
}

// BiInserterExecutor runs inserters moving items from one belt to another.
// They never consult needs.
type BiInserterExecutor struct {
	inserterSet
}

func NewBiInserterExecutor() *BiInserterExecutor {
	return &BiInserterExecutor{inserterSet: newInserterSet()}
}

func (e *BiInserterExecutor) GameTick(serves []float32, t *targets) {
	e.updateAll(serves, t)
}

// initializeInserters sorts the inserters of g into the belt-to-belt executor
// and the general one. Inserters with an end no executor runs stay with the
// host.
func initializeInserters(planet *world.Planet, g *graph.Graph, t *targets, powerBuilder *power.SubFactoryPowerSystemBuilder, inserters *InserterExecutor, biInserters *BiInserterExecutor) error {
	f := planet.Factory
	for n := range g.NodesOfType(graph.Inserter) {
		c := f.Inserters.Get(n.EntityTypeIndex.Index)
		if c == nil {
			continue
		}
		if c.PickTarget == 0 || c.InsertTarget == 0 {
			inserters.unoptimized = append(inserters.unoptimized, n.EntityTypeIndex)
			continue
		}
		pickNode, err := graph.Resolve(f, c.PickTarget)
		if err != nil {
			return err
		}
		insertNode, err := graph.Resolve(f, c.InsertTarget)
		if err != nil {
			return err
		}
		pick, pickOK := t.resolve(pickNode)
		insert, insertOK := t.resolve(insertNode)
		if !pickOK || !insertOK {
			inserters.unoptimized = append(inserters.unoptimized, n.EntityTypeIndex)
			continue
		}
		consumer := powerBuilder.AddConsumer(c.PcID)
		if pick.Type == graph.Belt && insert.Type == graph.Belt {
			biInserters.add(c, pick, insert, consumer)
			continue
		}
		inserters.add(c, pick, insert, consumer)
	}
	return nil
}
