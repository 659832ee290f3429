package power_test

import (
	"testing"

	"github.com/plus3/weaver/power"
	"github.com/plus3/weaver/world"
	"github.com/stretchr/testify/assert"
)

func TestGetRequiredEnergy(t *testing.T) {
	ct := power.ConsumerType{IdleEnergyPerTick: 100, WorkEnergyPerTick: 1000}

	assert.Equal(t, int64(100), ct.GetRequiredEnergy(false, 2000))
	assert.Equal(t, int64(1100), ct.GetRequiredEnergy(true, 1000))
	assert.Equal(t, int64(2100), ct.GetRequiredEnergy(true, 2000))
}

func TestSubFactoryPowerSystem(t *testing.T) {
	planet := world.NewPlanet(1, nil, nil)
	network := planet.AddPowerNetwork(1500)
	f := planet.Factory
	a := f.AddPowerConsumer(world.PowerConsumerComponent{NetworkID: network, PrototypeID: 2303, IdleEnergyPerTick: 100, WorkEnergyPerTick: 1000})
	b := f.AddPowerConsumer(world.PowerConsumerComponent{NetworkID: network, PrototypeID: 2303, IdleEnergyPerTick: 100, WorkEnergyPerTick: 1000})
	c := f.AddPowerConsumer(world.PowerConsumerComponent{NetworkID: network, PrototypeID: 2901, IdleEnergyPerTick: 50, WorkEnergyPerTick: 500})

	builder := power.NewSubFactoryPowerSystemBuilder(planet)
	ca := builder.AddConsumer(a)
	cb := builder.AddConsumer(b)
	cc := builder.AddConsumer(c)
	assert.Equal(t, power.NoConsumer, builder.AddConsumer(0))
	assert.Equal(t, ca, cb)
	assert.NotEqual(t, ca.TypeIndex, cc.TypeIndex)

	system := builder.Build()
	assert.Len(t, system.Types, 2)
	assert.Equal(t, []int32{2303, 2901}, system.Prototypes)

	system.Add(ca, true, 1000)
	system.Add(cb, false, 1000)
	system.Add(cc, true, 1000)
	system.Add(power.NoConsumer, true, 1000)
	assert.Equal(t, int64(1100+100+550), system.NetworkDemand[network])
	assert.Equal(t, []int64{1200, 550}, system.PrototypeDemand)

	serves := make([]float32, len(planet.Networks))
	power.UpdateServes(planet.Networks, system.NetworkDemand, serves)
	assert.Equal(t, float32(0), serves[0])
	assert.InDelta(t, 1500.0/1750.0, serves[network], 1e-6)

	system.Reset()
	power.UpdateServes(planet.Networks, system.NetworkDemand, serves)
	assert.Equal(t, float32(1), serves[network])
}
