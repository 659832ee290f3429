package graph

import (
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
)

var ErrUnknownEntityType = eris.New("unknown entity type")

// Resolve classifies the entity with the given id into the node it maps to.
func Resolve(f *world.Factory, entityID int32) (EntityTypeIndex, error) {
	e := f.Entities.Get(entityID)
	if e == nil {
		return EntityTypeIndex{}, eris.Wrapf(ErrUnknownEntityType, "entity %d is not live", entityID)
	}
	switch {
	case e.BeltID != 0:
		return ResolveBelt(f, e.BeltID)
	case e.AssemblerID != 0:
		return NewEntityTypeIndex(Assembler, e.AssemblerID), nil
	case e.LabID != 0:
		return resolveLab(f, e.LabID)
	case e.FractionatorID != 0:
		return NewEntityTypeIndex(Fractionator, e.FractionatorID), nil
	case e.SiloID != 0:
		return NewEntityTypeIndex(Silo, e.SiloID), nil
	case e.EjectorID != 0:
		return NewEntityTypeIndex(Ejector, e.EjectorID), nil
	case e.StorageID != 0:
		return NewEntityTypeIndex(Storage, e.StorageID), nil
	case e.StationID != 0:
		return NewEntityTypeIndex(Station, e.StationID), nil
	case e.SplitterID != 0:
		return NewEntityTypeIndex(Splitter, e.SplitterID), nil
	case e.InserterID != 0:
		return NewEntityTypeIndex(Inserter, e.InserterID), nil
	case e.MonitorID != 0:
		return NewEntityTypeIndex(Monitor, e.MonitorID), nil
	case e.SpraycoaterID != 0:
		return NewEntityTypeIndex(SprayCoater, e.SpraycoaterID), nil
	case e.PilerID != 0:
		return NewEntityTypeIndex(Piler, e.PilerID), nil
	case e.MinerID != 0:
		return NewEntityTypeIndex(Miner, e.MinerID), nil
	case e.DispenserID != 0:
		return NewEntityTypeIndex(Dispenser, e.DispenserID), nil
	}
	return EntityTypeIndex{}, eris.Wrapf(ErrUnknownEntityType, "entity %d owns no known component", entityID)
}

// ResolveBelt maps a belt id to the node of its cargo path.
func ResolveBelt(f *world.Factory, beltID int32) (EntityTypeIndex, error) {
	belt := f.Belts.Get(beltID)
	if belt == nil {
		return EntityTypeIndex{}, eris.Wrapf(ErrUnknownEntityType, "belt %d is not live", beltID)
	}
	return NewEntityTypeIndex(Belt, belt.SegPathID), nil
}

func resolveLab(f *world.Factory, labID int32) (EntityTypeIndex, error) {
	lab := f.Labs.Get(labID)
	if lab == nil {
		return EntityTypeIndex{}, eris.Wrapf(ErrUnknownEntityType, "lab %d is not live", labID)
	}
	if lab.ResearchMode {
		return NewEntityTypeIndex(ResearchingLab, labID), nil
	}
	return NewEntityTypeIndex(ProducingLab, labID), nil
}

type builder struct {
	factory *world.Factory
	graph   *Graph
}

// Build creates the graph of every live entity in the factory. Edges follow
// the direction items move.
func Build(f *world.Factory) (*Graph, error) {
	b := &builder{factory: f, graph: NewGraph()}
	steps := []func() error{
		b.addInserters,
		b.addAssemblers,
		b.addMonitors,
		b.addSpraycoaters,
		b.addPilers,
		b.addMiners,
		b.addFractionators,
		b.addEjectors,
		b.addSilos,
		b.addLabs,
		b.addStations,
		b.addDispensers,
		b.addBelts,
		b.addSplitters,
		b.addStorages,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.graph, nil
}

func (b *builder) visit(t EntityType, index, entityID int32) *Node {
	n := b.graph.getOrCreate(NewEntityTypeIndex(t, index))
	if n.EntityID == NoEntityIDYet {
		n.EntityID = entityID
	}
	return n
}

func (b *builder) entity(entityID int32) (*Node, error) {
	eti, err := Resolve(b.factory, entityID)
	if err != nil {
		return nil, err
	}
	return b.graph.getOrCreate(eti), nil
}

func (b *builder) belt(beltID int32) (*Node, error) {
	eti, err := ResolveBelt(b.factory, beltID)
	if err != nil {
		return nil, err
	}
	return b.graph.getOrCreate(eti), nil
}

func (b *builder) storage(storageID int32) (*Node, error) {
	if b.factory.Storages.Get(storageID) == nil {
		return nil, eris.Wrapf(ErrUnknownEntityType, "storage %d is not live", storageID)
	}
	return b.graph.getOrCreate(NewEntityTypeIndex(Storage, storageID)), nil
}

// beltPort links n with a belt; output ports send to the belt.
func (b *builder) beltPort(n *Node, beltID int32, output bool) error {
	if beltID == 0 {
		return nil
	}
	belt, err := b.belt(beltID)
	if err != nil {
		return err
	}
	if output {
		n.sendTo(belt)
	} else {
		belt.sendTo(n)
	}
	return nil
}

func (b *builder) addInserters() error {
	for id, ins := range b.factory.Inserters.Live() {
		n := b.visit(Inserter, id, ins.EntityID)
		if ins.PickTarget != 0 {
			from, err := b.entity(ins.PickTarget)
			if err != nil {
				return eris.Wrapf(err, "inserter %d pick target", id)
			}
			from.sendTo(n)
		}
		if ins.InsertTarget != 0 {
			to, err := b.entity(ins.InsertTarget)
			if err != nil {
				return eris.Wrapf(err, "inserter %d insert target", id)
			}
			n.sendTo(to)
		}
	}
	return nil
}

func (b *builder) addAssemblers() error {
	for id, a := range b.factory.Assemblers.Live() {
		b.visit(Assembler, id, a.EntityID)
	}
	return nil
}

func (b *builder) addMonitors() error {
	for id, m := range b.factory.Monitors.Live() {
		n := b.visit(Monitor, id, m.EntityID)
		if err := b.beltPort(n, m.TargetBeltID, false); err != nil {
			return eris.Wrapf(err, "monitor %d", id)
		}
	}
	return nil
}

func (b *builder) addSpraycoaters() error {
	for id, s := range b.factory.Spraycoaters.Live() {
		n := b.visit(SprayCoater, id, s.EntityID)
		if err := b.beltPort(n, s.IncomingBeltID, false); err != nil {
			return eris.Wrapf(err, "spraycoater %d", id)
		}
		if err := b.beltPort(n, s.CargoBeltID, true); err != nil {
			return eris.Wrapf(err, "spraycoater %d", id)
		}
	}
	return nil
}

func (b *builder) addPilers() error {
	for id, p := range b.factory.Pilers.Live() {
		n := b.visit(Piler, id, p.EntityID)
		if err := b.beltPort(n, p.InputBeltID, false); err != nil {
			return eris.Wrapf(err, "piler %d", id)
		}
		if err := b.beltPort(n, p.OutputBeltID, true); err != nil {
			return eris.Wrapf(err, "piler %d", id)
		}
	}
	return nil
}

func (b *builder) addMiners() error {
	for id, m := range b.factory.Miners.Live() {
		n := b.visit(Miner, id, m.EntityID)
		if m.VeinGroup != 0 {
			vein := b.graph.getOrCreate(NewEntityTypeIndex(VeinGroup, m.VeinGroup))
			vein.sendTo(n)
		}
		if m.InsertTarget != 0 {
			to, err := b.entity(m.InsertTarget)
			if err != nil {
				return eris.Wrapf(err, "miner %d insert target", id)
			}
			n.sendTo(to)
		}
	}
	return nil
}

func (b *builder) addFractionators() error {
	for id, f := range b.factory.Fractionators.Live() {
		n := b.visit(Fractionator, id, f.EntityID)
		ports := []struct {
			belt   int32
			output bool
		}{
			{f.Belt0, f.IsOutput0},
			{f.Belt1, f.IsOutput1},
			{f.Belt2, f.IsOutput2},
		}
		for _, port := range ports {
			if err := b.beltPort(n, port.belt, port.output); err != nil {
				return eris.Wrapf(err, "fractionator %d", id)
			}
		}
	}
	return nil
}

func (b *builder) addEjectors() error {
	for id, e := range b.factory.Ejectors.Live() {
		b.visit(Ejector, id, e.EntityID)
	}
	return nil
}

func (b *builder) addSilos() error {
	for id, s := range b.factory.Silos.Live() {
		b.visit(Silo, id, s.EntityID)
	}
	return nil
}

func (b *builder) addLabs() error {
	for id, lab := range b.factory.Labs.Live() {
		eti, err := resolveLab(b.factory, id)
		if err != nil {
			return err
		}
		n := b.visit(eti.EntityType, id, lab.EntityID)
		if lab.NextLabID != 0 {
			nextEti, err := resolveLab(b.factory, lab.NextLabID)
			if err != nil {
				return eris.Wrapf(err, "lab %d next lab", id)
			}
			n.sendTo(b.graph.getOrCreate(nextEti))
		}
	}
	return nil
}

func (b *builder) addStations() error {
	for id, s := range b.factory.Stations.Live() {
		n := b.visit(Station, id, s.EntityID)
		for _, slot := range s.Slots {
			if slot.Direction == world.SlotNone {
				continue
			}
			if err := b.beltPort(n, slot.BeltID, slot.Direction == world.SlotOutput); err != nil {
				return eris.Wrapf(err, "station %d", id)
			}
		}
	}
	return nil
}

func (b *builder) addDispensers() error {
	for id, d := range b.factory.Dispensers.Live() {
		n := b.visit(Dispenser, id, d.EntityID)
		if d.StorageID != 0 {
			storage, err := b.storage(d.StorageID)
			if err != nil {
				return eris.Wrapf(err, "dispenser %d", id)
			}
			storage.sendTo(n)
			n.sendTo(storage)
		}
		for _, other := range d.DeliversTo {
			if b.factory.Dispensers.Get(other) == nil {
				return eris.Wrapf(ErrUnknownEntityType, "dispenser %d delivers to dead dispenser %d", id, other)
			}
			n.sendTo(b.graph.getOrCreate(NewEntityTypeIndex(Dispenser, other)))
		}
	}
	return nil
}

func (b *builder) addBelts() error {
	for _, belt := range b.factory.Belts.Live() {
		b.visit(Belt, belt.SegPathID, belt.EntityID)
	}
	for id, path := range b.factory.CargoPaths.Live() {
		if path.OutputPathID == 0 {
			continue
		}
		from := b.graph.getOrCreate(NewEntityTypeIndex(Belt, id))
		from.sendTo(b.graph.getOrCreate(NewEntityTypeIndex(Belt, path.OutputPathID)))
	}
	return nil
}

func (b *builder) addSplitters() error {
	for id, s := range b.factory.Splitters.Live() {
		n := b.visit(Splitter, id, s.EntityID)
		for _, beltID := range s.Inputs {
			if err := b.beltPort(n, beltID, false); err != nil {
				return eris.Wrapf(err, "splitter %d", id)
			}
		}
		for _, beltID := range s.Outputs {
			if err := b.beltPort(n, beltID, true); err != nil {
				return eris.Wrapf(err, "splitter %d", id)
			}
		}
		if s.TopID != 0 {
			storage, err := b.storage(s.TopID)
			if err != nil {
				return eris.Wrapf(err, "splitter %d", id)
			}
			storage.sendTo(n)
			n.sendTo(storage)
		}
	}
	return nil
}

func (b *builder) addStorages() error {
	for id, s := range b.factory.Storages.Live() {
		b.visit(Storage, id, s.EntityID)
	}
	return nil
}
