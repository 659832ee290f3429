package factory

import (
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
)

// LabState is the activity of an assembling entity. Inactive entities are
// skipped until an inserter or lab transfer touches them.
type LabState int8

const (
	LabStateActive LabState = iota
	LabStateInactiveOutputFull
	LabStateInactiveInputMissing
)

func (s LabState) String() string {
	switch s {
	case LabStateActive:
		return "Active"
	case LabStateInactiveOutputFull:
		return "InactiveOutputFull"
	case LabStateInactiveInputMissing:
		return "InactiveInputMissing"
	}
	return "Unknown"
}

// maxOutputBatches is how many recipe results may pile up before the output
// counts as full.
const maxOutputBatches = 9

// ProducingRecipe is the recipe data shared by every entity running the same
// recipe at the same speed.
type ProducingRecipe struct {
	RecipeID       int32
	TimeSpend      int32
	ExtraTimeSpend int32
	Speed          int32
	Productive     bool
	Requires       []int16
	RequireCounts  []int32
	Products       []int16
	ProductCounts  []int32

	requireRegister []int32
	productRegister []int32
}

func (r *ProducingRecipe) equal(o *ProducingRecipe) bool {
	return r.RecipeID == o.RecipeID &&
		r.TimeSpend == o.TimeSpend &&
		r.ExtraTimeSpend == o.ExtraTimeSpend &&
		r.Speed == o.Speed &&
		r.Productive == o.Productive &&
		slices.Equal(r.Requires, o.Requires) &&
		slices.Equal(r.RequireCounts, o.RequireCounts) &&
		slices.Equal(r.Products, o.Products) &&
		slices.Equal(r.ProductCounts, o.ProductCounts)
}

type assembling struct {
	recipe          int32
	time            int32
	extraTime       int32
	speedOverride   int32
	extraSpeed      int32
	extraPowerRatio int32
	forceAccMode    bool
	replicating     bool
	incUsed         bool
	servedOffset    int32
	producedOffset  int32
}

// assemblingCore runs the recipe state machine for assemblers and producing
// labs. Served, inc and produced counts of all entities live in three flat
// slices addressed by per-entity offsets.
type assemblingCore struct {
	recipes   []ProducingRecipe
	entities  []assembling
	states    []LabState
	consumers []power.Consumer
	served    []int32
	incServed []int32
	produced  []int32
	needs     *production.GroupNeeds
	ids       []int32
	indexes   *intmap.Map[int32, int32]
}

func newAssemblingCore() assemblingCore {
	return assemblingCore{indexes: intmap.New[int32, int32](16)}
}

// Count is the number of optimized machines.
func (c *assemblingCore) Count() int {
	return len(c.entities)
}

// Index maps a pool id to its dense index.
func (c *assemblingCore) Index(id int32) (int32, bool) {
	return c.indexes.Get(id)
}

func (c *assemblingCore) State(i int) LabState {
	return c.states[i]
}

func (c *assemblingCore) internRecipe(a *world.Assembling, registerBuilder *production.SubFactoryProductionRegisterBuilder) int32 {
	r := ProducingRecipe{
		RecipeID:       a.RecipeID,
		TimeSpend:      a.TimeSpend,
		ExtraTimeSpend: a.ExtraTimeSpend,
		Speed:          a.Speed,
		Productive:     a.Productive,
		Requires:       a.Requires,
		RequireCounts:  a.RequireCounts,
		Products:       a.Products,
		ProductCounts:  a.ProductCounts,
	}
	for i := range c.recipes {
		if c.recipes[i].equal(&r) {
			return int32(i)
		}
	}

	r.Requires = slices.Clone(a.Requires)
	r.RequireCounts = slices.Clone(a.RequireCounts)
	r.Products = slices.Clone(a.Products)
	r.ProductCounts = slices.Clone(a.ProductCounts)
	for _, item := range r.Requires {
		r.requireRegister = append(r.requireRegister, registerBuilder.AddItem(item))
	}
	for _, item := range r.Products {
		r.productRegister = append(r.productRegister, registerBuilder.AddItem(item))
	}
	c.recipes = append(c.recipes, r)
	return int32(len(c.recipes) - 1)
}

func (c *assemblingCore) add(id int32, a *world.Assembling, consumer power.Consumer, registerBuilder *production.SubFactoryProductionRegisterBuilder, needsBuilder *production.GroupNeedsBuilder) {
	recipe := c.internRecipe(a, registerBuilder)
	r := &c.recipes[recipe]

	e := assembling{
		recipe:          recipe,
		time:            a.Time,
		extraTime:       a.ExtraTime,
		speedOverride:   a.SpeedOverride,
		extraSpeed:      a.ExtraSpeed,
		extraPowerRatio: a.ExtraPowerRatio,
		forceAccMode:    a.ForceAccMode,
		replicating:     a.Replicating,
		incUsed:         a.IncUsed,
		servedOffset:    int32(len(c.served)),
		producedOffset:  int32(len(c.produced)),
	}
	for j := range r.Requires {
		// Served counts outside +-5000 are not expected; clamp them.
		c.served = append(c.served, clampServed(valueAt(a.Served, j)))
		c.incServed = append(c.incServed, clampServed(valueAt(a.IncServed, j)))
	}
	for j := range r.Products {
		c.produced = append(c.produced, valueAt(a.Produced, j))
	}

	c.indexes.Put(id, int32(len(c.entities)))
	c.ids = append(c.ids, id)
	c.entities = append(c.entities, e)
	c.states = append(c.states, LabStateActive)
	c.consumers = append(c.consumers, consumer)
	needsBuilder.AddNeeds(a.Needs)
}

func valueAt(values []int32, i int) int32 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func (c *assemblingCore) buffers(i int) (r *ProducingRecipe, served, incServed, produced []int32) {
	e := &c.entities[i]
	r = &c.recipes[e.recipe]
	s := int(e.servedOffset)
	p := int(e.producedOffset)
	return r, c.served[s : s+len(r.Requires)], c.incServed[s : s+len(r.Requires)], c.produced[p : p+len(r.Products)]
}

// needsMultiplier is how many recipe batches of input an entity buffers.
func needsMultiplier(timeSpend, speedOverride int32) int32 {
	if timeSpend > 5400000 {
		return 1
	}
	return 1 + int32(int64(speedOverride)*180/int64(timeSpend))
}

func (c *assemblingCore) updateNeeds(i int) {
	e := &c.entities[i]
	r, served, _, _ := c.buffers(i)
	needs := c.needs.Get(i)
	mult := needsMultiplier(r.TimeSpend, e.speedOverride)
	for j := range needs {
		if j < len(r.Requires) && served[j] < r.RequireCounts[j]*mult {
			needs[j] = r.Requires[j]
		} else {
			needs[j] = 0
		}
	}
}

func (c *assemblingCore) update(i int, power float32, register *production.SubFactoryProductionRegister) LabState {
	if power < minWorkingPower {
		return LabStateActive
	}
	e := &c.entities[i]
	r, served, incServed, produced := c.buffers(i)

	if e.extraTime >= r.ExtraTimeSpend {
		for j, count := range r.ProductCounts {
			produced[j] += count
			register.AddProduct(r.productRegister[j], count)
		}
		e.extraTime -= r.ExtraTimeSpend
	}

	if e.time >= r.TimeSpend {
		e.replicating = false
		for j, count := range r.ProductCounts {
			if produced[j]+count > count*maxOutputBatches {
				return LabStateInactiveOutputFull
			}
		}
		for j, count := range r.ProductCounts {
			produced[j] += count
			register.AddProduct(r.productRegister[j], count)
		}
		e.extraSpeed = 0
		e.speedOverride = r.Speed
		e.extraPowerRatio = 0
		e.time -= r.TimeSpend
	}

	if !e.replicating {
		for j, count := range r.RequireCounts {
			if served[j] < count {
				return LabStateInactiveInputMissing
			}
		}

		level := int32(cargo.MaxIncLevel)
		for j, count := range r.RequireCounts {
			lvl := splitIncLevel(served[j], incServed[j], count)
			incServed[j] -= splitInc(served[j], incServed[j], count)
			served[j] -= count
			level = min(level, lvl)
			register.AddConsume(r.requireRegister[j], count)
		}
		if len(r.RequireCounts) == 0 {
			level = 0
		}

		if level > 0 {
			e.incUsed = true
			if r.Productive && !e.forceAccMode {
				e.extraSpeed = int32(int64(r.Speed) * int64(cargo.IncTableMilli[level]) * 10 / 1000)
				e.speedOverride = r.Speed
			} else {
				e.extraSpeed = 0
				e.speedOverride = int32(int64(r.Speed) * int64(1000+cargo.AccTableMilli[level]) / 1000)
			}
			e.extraPowerRatio = cargo.PowerTableMilli[level]
		} else {
			e.extraSpeed = 0
			e.speedOverride = r.Speed
			e.extraPowerRatio = 0
		}
		e.replicating = true
	}

	if e.replicating && e.time < r.TimeSpend && e.extraTime < r.ExtraTimeSpend {
		e.time += int32(power * float32(e.speedOverride))
		e.extraTime += int32(power * float32(e.extraSpeed))
	}
	return LabStateActive
}

func (c *assemblingCore) updatePower(system *power.SubFactoryPowerSystem) {
	for i := range c.entities {
		e := &c.entities[i]
		system.Add(c.consumers[i], e.replicating, 1000+e.extraPowerRatio)
	}
}

// pick takes one product matching filter and needs.
func (c *assemblingCore) pick(i int, filter int16, needs []int16) (int16, bool) {
	r, _, _, produced := c.buffers(i)
	for j, item := range r.Products {
		if produced[j] <= 0 || (filter != 0 && filter != item) {
			continue
		}
		if needs != nil && !needsItem(needs, item) {
			continue
		}
		produced[j]--
		c.states[i] = LabStateActive
		return item, true
	}
	return 0, false
}

func (c *assemblingCore) insert(i int, item int16, count, inc int32) bool {
	r, served, incServed, _ := c.buffers(i)
	for j, required := range r.Requires {
		if required == item {
			served[j] += count
			incServed[j] += inc
			c.states[i] = LabStateActive
			return true
		}
	}
	return false
}

func (c *assemblingCore) save(i int, a *world.Assembling) {
	e := &c.entities[i]
	_, served, incServed, produced := c.buffers(i)
	a.Time = e.time
	a.ExtraTime = e.extraTime
	a.SpeedOverride = e.speedOverride
	a.ExtraSpeed = e.extraSpeed
	a.ExtraPowerRatio = e.extraPowerRatio
	a.ForceAccMode = e.forceAccMode
	a.Replicating = e.replicating
	a.IncUsed = e.incUsed
	a.Served = append(a.Served[:0], served...)
	a.IncServed = append(a.IncServed[:0], incServed...)
	a.Produced = append(a.Produced[:0], produced...)
	a.Needs = append(a.Needs[:0], c.needs.Get(i)...)
}
