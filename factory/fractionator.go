package factory

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

const (
	fractionProgressUnit = 10000
	fractionProgressCap  = 100000
	// fractionCargoLimit caps how many buffered cargos drive progress.
	fractionCargoLimit = 30
)

// NextFractionatorSeed advances the fractionator's Park-Miller generator.
// Seeds are stored zero-based.
func NextFractionatorSeed(seed uint32) uint32 {
	return uint32((uint64(seed%2147483646+1)*48271)%2147483647) - 1
}

// FractionatorRoll advances seed and reports whether the roll produced.
func FractionatorRoll(seed uint32, produceProb float32, incLevel int32) (uint32, bool) {
	seed = NextFractionatorSeed(seed)
	bonus := 1 + float64(cargo.AccTableMilli[cargo.ClampIncLevel(incLevel)])/1000
	return seed, float64(seed)/2147483646.0 < float64(produceProb)*bonus
}

// OptimizedFractionator is the immutable part of a fractionator.
type OptimizedFractionator struct {
	belt0            cargo.BeltIndex
	belt1            cargo.BeltIndex
	belt2            cargo.BeltIndex
	isOutput0        bool
	isOutput1        bool
	isOutput2        bool
	fluidID          int16
	productID        int16
	produceProb      float32
	fluidInputMax    int32
	fluidOutputMax   int32
	productOutputMax int32
	fluidRegister    int32
	productRegister  int32
}

type fractionatorState struct {
	fluidInputCount      int32
	fluidInputCargoCount float32
	fluidInputInc        int32
	fluidOutputCount     int32
	fluidOutputInc       int32
	productOutputCount   int32
	progress             int32
	fractionSuccess      bool
	isWorking            bool
	incUsed              bool
	seed                 uint32
}

type FractionatorExecutor struct {
	fractionators []OptimizedFractionator
	states        []fractionatorState
	consumers     []power.Consumer
	needs         *production.GroupNeeds
	ids           []int32
	indexes       *intmap.Map[int32, int32]
}

func NewFractionatorExecutor() *FractionatorExecutor {
	return &FractionatorExecutor{indexes: intmap.New[int32, int32](8)}
}

// Count is the number of optimized fractionators.
func (e *FractionatorExecutor) Count() int {
	return len(e.fractionators)
}

func (e *FractionatorExecutor) Index(id int32) (int32, bool) {
	return e.indexes.Get(id)
}

// Initialize copies the fractionators of g out of the planet and resolves
// their belts in traffic.
func (e *FractionatorExecutor) Initialize(planet *world.Planet, g *graph.Graph, traffic *cargo.Traffic, powerBuilder *power.SubFactoryPowerSystemBuilder, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.SubFactoryNeedsBuilder) {
	f := planet.Factory
	needs := needsBuilder.CreateGroupNeedsBuilder(graph.Fractionator)
	for n := range g.NodesOfType(graph.Fractionator) {
		c := f.Fractionators.Get(n.EntityTypeIndex.Index)
		if c == nil {
			continue
		}
		e.indexes.Put(c.ID, int32(len(e.fractionators)))
		e.ids = append(e.ids, c.ID)
		e.fractionators = append(e.fractionators, OptimizedFractionator{
			belt0:            beltIndex(f, traffic, c.Belt0),
			belt1:            beltIndex(f, traffic, c.Belt1),
			belt2:            beltIndex(f, traffic, c.Belt2),
			isOutput0:        c.IsOutput0,
			isOutput1:        c.IsOutput1,
			isOutput2:        c.IsOutput2,
			fluidID:          c.FluidID,
			productID:        c.ProductID,
			produceProb:      c.ProduceProb,
			fluidInputMax:    c.FluidInputMax,
			fluidOutputMax:   c.FluidOutputMax,
			productOutputMax: c.ProductOutputMax,
			fluidRegister:    registerBuilder.AddItem(c.FluidID),
			productRegister:  registerBuilder.AddItem(c.ProductID),
		})
		e.states = append(e.states, fractionatorState{
			fluidInputCount:      c.FluidInputCount,
			fluidInputCargoCount: c.FluidInputCargoCount,
			fluidInputInc:        c.FluidInputInc,
			fluidOutputCount:     c.FluidOutputCount,
			fluidOutputInc:       c.FluidOutputInc,
			productOutputCount:   c.ProductOutputCount,
			progress:             c.Progress,
			fractionSuccess:      c.FractionSuccess,
			isWorking:            c.IsWorking,
			incUsed:              c.IncUsed,
			seed:                 c.Seed,
		})
		e.consumers = append(e.consumers, powerBuilder.AddConsumer(c.PcID))
		needs.AddNeeds(c.Needs)
	}
}

// beltIndex resolves a belt id to the dense index of its path.
func beltIndex(f *world.Factory, traffic *cargo.Traffic, beltID int32) cargo.BeltIndex {
	belt := f.Belts.Get(beltID)
	if belt == nil {
		return cargo.NoBelt
	}
	idx, ok := traffic.Index(belt.SegPathID)
	if !ok {
		return cargo.NoBelt
	}
	return idx
}

func (e *FractionatorExecutor) bindNeeds(needs *production.SubFactoryNeeds) {
	e.needs = needs.Group(graph.Fractionator)
}

func (e *FractionatorExecutor) GameTick(serves []float32, register *production.SubFactoryProductionRegister) {
	for i := range e.fractionators {
		fr := &e.fractionators[i]
		st := &e.states[i]
		needs := e.needs.Get(i)
		if st.fluidInputCount < fr.fluidInputMax {
			needs[0] = fr.fluidID
		} else {
			needs[0] = 0
		}
		e.update(fr, st, serves[e.consumers[i].NetworkID], register)
	}
}

func (e *FractionatorExecutor) update(fr *OptimizedFractionator, st *fractionatorState, power float32, register *production.SubFactoryProductionRegister) {
	if power < minWorkingPower {
		return
	}

	perCargo := float32(1)
	switch {
	case st.fluidInputCount == 0:
		st.fluidInputCargoCount = 0
	case st.fluidInputCargoCount > 0.0001:
		perCargo = float32(st.fluidInputCount) / st.fluidInputCargoCount
	default:
		perCargo = 4
	}

	st.isWorking = st.fluidInputCount > 0 &&
		st.productOutputCount < fr.productOutputMax &&
		st.fluidOutputCount < fr.fluidOutputMax
	if !st.isWorking {
		st.fractionSuccess = false
		return
	}

	cargos := min(st.fluidInputCargoCount, fractionCargoLimit)
	st.progress += int32(float64(power)*(500.0/3.0)*float64(cargos)*float64(perCargo) + 0.75)
	if st.progress > fractionProgressCap {
		st.progress = fractionProgressCap
	}

	for st.progress >= fractionProgressUnit && st.fluidInputCount > 0 {
		level := int32(0)
		if st.fluidInputInc > 0 {
			level = cargo.ClampIncLevel(st.fluidInputInc / st.fluidInputCount)
		}
		if level > 0 {
			st.incUsed = true
		}

		st.seed, st.fractionSuccess = FractionatorRoll(st.seed, fr.produceProb, level)
		if st.fractionSuccess {
			st.productOutputCount++
			register.AddProduct(fr.productRegister, 1)
			register.AddConsume(fr.fluidRegister, 1)
		} else {
			st.fluidOutputCount++
			st.fluidOutputInc += level
		}

		st.fluidInputInc -= level
		st.fluidInputCount--
		st.fluidInputCargoCount -= 1 / perCargo
		if st.fluidInputCargoCount < 0 {
			st.fluidInputCargoCount = 0
		}
		st.progress -= fractionProgressUnit
	}
}

// InputFromBelt pulls fluid off the input ports.
func (e *FractionatorExecutor) InputFromBelt(traffic *cargo.Traffic) {
	for i := range e.fractionators {
		fr := &e.fractionators[i]
		st := &e.states[i]
		for _, port := range [2]struct {
			belt   cargo.BeltIndex
			output bool
		}{{fr.belt0, fr.isOutput0}, {fr.belt1, fr.isOutput1}} {
			if port.belt == cargo.NoBelt || port.output || st.fluidInputCount >= fr.fluidInputMax {
				continue
			}
			c, ok := traffic.Path(port.belt).TryPickCargoAtEnd(fr.fluidID, nil)
			if !ok {
				continue
			}
			st.fluidInputCount += int32(c.Stack)
			st.fluidInputInc += int32(c.Inc)
			st.fluidInputCargoCount++
		}
	}
}

// OutputToBelt pushes leftover fluid and products onto the output ports.
func (e *FractionatorExecutor) OutputToBelt(traffic *cargo.Traffic) {
	for i := range e.fractionators {
		fr := &e.fractionators[i]
		st := &e.states[i]

		fluidOut := cargo.NoBelt
		switch {
		case fr.isOutput0:
			fluidOut = fr.belt0
		case fr.isOutput1:
			fluidOut = fr.belt1
		}
		if fluidOut != cargo.NoBelt && st.fluidOutputCount > 0 {
			inc := splitInc(st.fluidOutputCount, st.fluidOutputInc, 1)
			if traffic.Path(fluidOut).TryInsertItemAtHeadAndFillBlank(fr.fluidID, 1, byte(inc)) {
				st.fluidOutputCount--
				st.fluidOutputInc -= inc
			}
		}

		if fr.isOutput2 && fr.belt2 != cargo.NoBelt && st.productOutputCount > 0 {
			if traffic.Path(fr.belt2).TryInsertItemAtHeadAndFillBlank(fr.productID, 1, 0) {
				st.productOutputCount--
			}
		}
	}
}

// pick hands out a product first, then waste fluid.
func (e *FractionatorExecutor) pick(i int, filter int16, needs []int16) (int16, int32, bool) {
	fr := &e.fractionators[i]
	st := &e.states[i]
	accept := func(item int16) bool {
		return (filter == 0 || filter == item) && (needs == nil || needsItem(needs, item))
	}
	if st.productOutputCount > 0 && accept(fr.productID) {
		st.productOutputCount--
		return fr.productID, 0, true
	}
	if st.fluidOutputCount > 0 && accept(fr.fluidID) {
		inc := splitInc(st.fluidOutputCount, st.fluidOutputInc, 1)
		st.fluidOutputCount--
		st.fluidOutputInc -= inc
		return fr.fluidID, inc, true
	}
	return 0, 0, false
}

func (e *FractionatorExecutor) insert(i int, item int16, count, inc int32) bool {
	fr := &e.fractionators[i]
	st := &e.states[i]
	if item != fr.fluidID || st.fluidInputCount >= fr.fluidInputMax {
		return false
	}
	st.fluidInputCount += count
	st.fluidInputInc += inc
	st.fluidInputCargoCount++
	return true
}

func (e *FractionatorExecutor) UpdatePower(system *power.SubFactoryPowerSystem) {
	for i := range e.states {
		system.Add(e.consumers[i], e.states[i].isWorking, 1000)
	}
}

// Save writes state back and labels each fractionator with its product.
func (e *FractionatorExecutor) Save(planet *world.Planet) {
	for i, id := range e.ids {
		c := planet.Factory.Fractionators.Get(id)
		if c == nil {
			continue
		}
		st := &e.states[i]
		c.FluidInputCount = st.fluidInputCount
		c.FluidInputCargoCount = st.fluidInputCargoCount
		c.FluidInputInc = st.fluidInputInc
		c.FluidOutputCount = st.fluidOutputCount
		c.FluidOutputInc = st.fluidOutputInc
		c.ProductOutputCount = st.productOutputCount
		c.Progress = st.progress
		c.FractionSuccess = st.fractionSuccess
		c.IsWorking = st.isWorking
		c.IncUsed = st.incUsed
		c.Seed = st.seed
		c.Needs = append(c.Needs[:0], e.needs.Get(i)...)

		sign := planet.Factory.Signs[c.EntityID]
		sign.IconType = 1
		sign.IconID0 = int32(e.fractionators[i].productID)
		planet.Factory.Signs[c.EntityID] = sign
	}
}
