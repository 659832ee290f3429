package production_test

import (
	"testing"

	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/production"
	"github.com/plus3/weaver/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionRegisters(t *testing.T) {
	planetBuilder := production.NewPlanetWideProductionRegisterBuilder()
	first := planetBuilder.GetSubFactoryBuilder()
	second := planetBuilder.GetSubFactoryBuilder()

	gear := first.AddItem(1201)
	ingot := first.AddItem(1101)
	assert.Equal(t, gear, first.AddItem(1201))

	circuit := second.AddItem(1301)
	secondIngot := second.AddItem(1101)
	assert.Equal(t, int32(0), circuit)
	assert.Equal(t, int32(1), secondIngot)
	assert.Equal(t, []int16{1201, 1101, 1301}, planetBuilder.Items())

	firstRegister := first.Build()
	secondRegister := second.Build()
	planetRegister := planetBuilder.Build()

	firstRegister.AddProduct(gear, 2)
	firstRegister.AddConsume(ingot, 2)
	secondRegister.AddConsume(secondIngot, 3)
	secondRegister.AddProduct(circuit, 1)

	firstRegister.FlushInto(planetRegister)
	secondRegister.FlushInto(planetRegister)
	assert.Equal(t, []int32{0, 0}, firstRegister.Products)

	stats := world.NewPlanet(1, nil, nil).Stats
	planetRegister.FlushInto(&stats)
	assert.Equal(t, int64(2), stats.ProductRegister[1201])
	assert.Equal(t, int64(5), stats.ConsumeRegister[1101])
	assert.Equal(t, int64(1), stats.ProductRegister[1301])

	planetRegister.FlushInto(&stats)
	assert.Equal(t, int64(5), stats.ConsumeRegister[1101])
}

func TestNeedsBuilder(t *testing.T) {
	builder := production.NewSubFactoryNeedsBuilder()
	labs := builder.CreateGroupNeedsBuilder(graph.ProducingLab)
	assert.Same(t, labs, builder.CreateGroupNeedsBuilder(graph.ProducingLab))

	labs.AddNeeds([]int16{1101, 1104})
	labs.AddNeeds(nil)

	needs := builder.Build()
	group := needs.Group(graph.ProducingLab)
	require.NotNil(t, group)
	assert.Equal(t, 2, group.Len())
	assert.Equal(t, []int16{1101, 1104, 0, 0, 0, 0}, group.Get(0))
	assert.Equal(t, make([]int16, world.MaxNeeds), group.Get(1))

	group.Get(1)[0] = 6001
	assert.Equal(t, int16(6001), needs.Needs(graph.ProducingLab, 1)[0])
	assert.Nil(t, needs.Needs(graph.Assembler, 0))
	assert.Nil(t, needs.Needs(graph.ProducingLab, 2))
}
