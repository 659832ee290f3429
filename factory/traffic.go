package factory

import (
	"github.com/plus3/weaver/cargo"
	"github.com/plus3/weaver/world"
)

// BuildTraffic indexes every live cargo path of a factory and links each path
// to its output.
func BuildTraffic(f *world.Factory) *cargo.Traffic {
	traffic := cargo.NewTraffic(int(f.CargoPaths.Cursor()))
	for _, c := range f.CargoPaths.Live() {
		if c.Path != nil {
			traffic.Add(c.Path)
		}
	}
	for _, c := range f.CargoPaths.Live() {
		if c.Path == nil || c.OutputPathID == 0 {
			continue
		}
		from, _ := traffic.Index(c.Path.ID)
		if to, ok := traffic.Index(c.OutputPathID); ok {
			traffic.Link(from, to)
		}
	}
	return traffic
}
