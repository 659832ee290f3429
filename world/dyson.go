package world

import "sync/atomic"

// DysonSphere receives rockets and sails from every planet around one star.
// Counters are atomic since silos and ejectors of different planets launch
// concurrently.
type DysonSphere struct {
	StarID   int32
	hasNodes bool
	orbits   map[int32]struct{}
	rockets  atomic.Int64
	sails    atomic.Int64
}

func NewDysonSphere(starID int32, hasNodes bool, orbits ...int32) *DysonSphere {
	d := &DysonSphere{
		StarID:   starID,
		hasNodes: hasNodes,
		orbits:   make(map[int32]struct{}, len(orbits)),
	}
	for _, orbit := range orbits {
		d.orbits[orbit] = struct{}{}
	}
	return d
}

// HasNodes reports whether silos have a shell node to build.
func (d *DysonSphere) HasNodes() bool {
	return d != nil && d.hasNodes
}

func (d *DysonSphere) HasOrbit(orbitID int32) bool {
	if d == nil || orbitID == 0 {
		return false
	}
	_, ok := d.orbits[orbitID]
	return ok
}

func (d *DysonSphere) LaunchRocket() { d.rockets.Add(1) }
func (d *DysonSphere) LaunchSail()   { d.sails.Add(1) }
func (d *DysonSphere) Rockets() int64 { return d.rockets.Load() }
func (d *DysonSphere) Sails() int64   { return d.sails.Load() }
