package world

import "github.com/plus3/weaver/cargo"

// Factory holds every sparse pool of one planet.
type Factory struct {
	Entities       *Pool[EntityData]
	Inserters      *Pool[InserterComponent]
	Assemblers     *Pool[AssemblerComponent]
	Labs           *Pool[LabComponent]
	Fractionators  *Pool[FractionatorComponent]
	Silos          *Pool[SiloComponent]
	Ejectors       *Pool[EjectorComponent]
	Splitters      *Pool[SplitterComponent]
	Storages       *Pool[StorageComponent]
	Stations       *Pool[StationComponent]
	Dispensers     *Pool[DispenserComponent]
	Monitors       *Pool[MonitorComponent]
	Spraycoaters   *Pool[SpraycoaterComponent]
	Pilers         *Pool[PilerComponent]
	Miners         *Pool[MinerComponent]
	Belts          *Pool[BeltComponent]
	CargoPaths     *Pool[CargoPathComponent]
	PowerConsumers *Pool[PowerConsumerComponent]
	Signs          map[int32]SignData
}

func NewFactory() *Factory {
	return &Factory{
		Entities:       NewPool[EntityData](),
		Inserters:      NewPool[InserterComponent](),
		Assemblers:     NewPool[AssemblerComponent](),
		Labs:           NewPool[LabComponent](),
		Fractionators:  NewPool[FractionatorComponent](),
		Silos:          NewPool[SiloComponent](),
		Ejectors:       NewPool[EjectorComponent](),
		Splitters:      NewPool[SplitterComponent](),
		Storages:       NewPool[StorageComponent](),
		Stations:       NewPool[StationComponent](),
		Dispensers:     NewPool[DispenserComponent](),
		Monitors:       NewPool[MonitorComponent](),
		Spraycoaters:   NewPool[SpraycoaterComponent](),
		Pilers:         NewPool[PilerComponent](),
		Miners:         NewPool[MinerComponent](),
		Belts:          NewPool[BeltComponent](),
		CargoPaths:     NewPool[CargoPathComponent](),
		PowerConsumers: NewPool[PowerConsumerComponent](),
		Signs:          make(map[int32]SignData),
	}
}

func (f *Factory) newEntity(set func(e *EntityData)) int32 {
	var e EntityData
	set(&e)
	return f.Entities.Add(e)
}

// AddCargoPath registers a belt path. Belts are attached with AddBelt.
func (f *Factory) AddCargoPath(path *cargo.Path, outputPathID int32) int32 {
	id := f.CargoPaths.Add(CargoPathComponent{Path: path, OutputPathID: outputPathID})
	path.ID = id
	return id
}

// AddBelt creates a belt entity on the given path. It returns the entity id
// and the belt id.
func (f *Factory) AddBelt(pathID, speed int32) (int32, int32) {
	beltID := f.Belts.Add(BeltComponent{SegPathID: pathID, Speed: speed})
	entityID := f.newEntity(func(e *EntityData) { e.BeltID = beltID })
	f.Belts.Get(beltID).EntityID = entityID
	return entityID, beltID
}

// AddPowerConsumer registers a consumer and returns its pool id.
func (f *Factory) AddPowerConsumer(pc PowerConsumerComponent) int32 {
	return f.PowerConsumers.Add(pc)
}

// AddInserter creates an inserter entity. Like every Add method below it
// returns the entity id and the component's pool id.
func (f *Factory) AddInserter(c InserterComponent) (int32, int32) {
	id := f.Inserters.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.InserterID = id })
	f.Inserters.Get(id).EntityID = entityID
	return entityID, id
}

// AddAssembler creates an assembler entity.
func (f *Factory) AddAssembler(c AssemblerComponent) (int32, int32) {
	id := f.Assemblers.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.AssemblerID = id })
	f.Assemblers.Get(id).EntityID = entityID
	return entityID, id
}

// AddLab creates a lab entity in either mode.
func (f *Factory) AddLab(c LabComponent) (int32, int32) {
	id := f.Labs.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.LabID = id })
	f.Labs.Get(id).EntityID = entityID
	return entityID, id
}

// AddFractionator creates a fractionator entity.
func (f *Factory) AddFractionator(c FractionatorComponent) (int32, int32) {
	id := f.Fractionators.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.FractionatorID = id })
	f.Fractionators.Get(id).EntityID = entityID
	return entityID, id
}

// AddSilo creates a rocket silo entity.
func (f *Factory) AddSilo(c SiloComponent) (int32, int32) {
	id := f.Silos.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.SiloID = id })
	f.Silos.Get(id).EntityID = entityID
	return entityID, id
}

// AddEjector creates an EM rail ejector entity.
func (f *Factory) AddEjector(c EjectorComponent) (int32, int32) {
	id := f.Ejectors.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.EjectorID = id })
	f.Ejectors.Get(id).EntityID = entityID
	return entityID, id
}

// AddSplitter creates a splitter entity.
func (f *Factory) AddSplitter(c SplitterComponent) (int32, int32) {
	id := f.Splitters.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.SplitterID = id })
	f.Splitters.Get(id).EntityID = entityID
	return entityID, id
}

// AddStorage creates a storage box entity.
func (f *Factory) AddStorage(c StorageComponent) (int32, int32) {
	id := f.Storages.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.StorageID = id })
	f.Storages.Get(id).EntityID = entityID
	return entityID, id
}

// AddStation creates a logistics station entity.
func (f *Factory) AddStation(c StationComponent) (int32, int32) {
	id := f.Stations.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.StationID = id })
	f.Stations.Get(id).EntityID = entityID
	return entityID, id
}

// AddDispenser creates a logistics dispenser entity.
func (f *Factory) AddDispenser(c DispenserComponent) (int32, int32) {
	id := f.Dispensers.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.DispenserID = id })
	f.Dispensers.Get(id).EntityID = entityID
	return entityID, id
}

// AddMonitor creates a traffic monitor entity.
func (f *Factory) AddMonitor(c MonitorComponent) (int32, int32) {
	id := f.Monitors.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.MonitorID = id })
	f.Monitors.Get(id).EntityID = entityID
	return entityID, id
}

// AddSpraycoater creates a spray coater entity.
func (f *Factory) AddSpraycoater(c SpraycoaterComponent) (int32, int32) {
	id := f.Spraycoaters.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.SpraycoaterID = id })
	f.Spraycoaters.Get(id).EntityID = entityID
	return entityID, id
}

// AddPiler creates a piler entity.
func (f *Factory) AddPiler(c PilerComponent) (int32, int32) {
	id := f.Pilers.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.PilerID = id })
	f.Pilers.Get(id).EntityID = entityID
	return entityID, id
}

// AddMiner creates a miner entity.
func (f *Factory) AddMiner(c MinerComponent) (int32, int32) {
	id := f.Miners.Add(c)
	entityID := f.newEntity(func(e *EntityData) { e.MinerID = id })
	f.Miners.Get(id).EntityID = entityID
	return entityID, id
}

// RemoveEntity removes an entity row and the component it owns.
func (f *Factory) RemoveEntity(entityID int32) {
	e := f.Entities.Get(entityID)
	if e == nil {
		return
	}
	switch {
	case e.BeltID != 0:
		f.Belts.Remove(e.BeltID)
	case e.AssemblerID != 0:
		f.Assemblers.Remove(e.AssemblerID)
	case e.LabID != 0:
		f.Labs.Remove(e.LabID)
	case e.FractionatorID != 0:
		f.Fractionators.Remove(e.FractionatorID)
	case e.SiloID != 0:
		f.Silos.Remove(e.SiloID)
	case e.EjectorID != 0:
		f.Ejectors.Remove(e.EjectorID)
	case e.StorageID != 0:
		f.Storages.Remove(e.StorageID)
	case e.StationID != 0:
		f.Stations.Remove(e.StationID)
	case e.SplitterID != 0:
		f.Splitters.Remove(e.SplitterID)
	case e.InserterID != 0:
		f.Inserters.Remove(e.InserterID)
	case e.MonitorID != 0:
		f.Monitors.Remove(e.MonitorID)
	case e.SpraycoaterID != 0:
		f.Spraycoaters.Remove(e.SpraycoaterID)
	case e.PilerID != 0:
		f.Pilers.Remove(e.PilerID)
	case e.MinerID != 0:
		f.Miners.Remove(e.MinerID)
	case e.DispenserID != 0:
		f.Dispensers.Remove(e.DispenserID)
	}
	delete(f.Signs, entityID)
	f.Entities.Remove(entityID)
}
