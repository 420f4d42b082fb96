package sim

import (
	"fmt"
	"net"
)

// ChannelLister is the minimal topology view the global cache walker needs:
// anything that can enumerate its channels. The concrete Topology satisfies
// it; tests may substitute a narrower fixture.
type ChannelLister interface {
	Channels() []*Channel
}

// Topology is the registry of channels and devices making up a simulated
// network. The topology and address-configuration subsystems create and
// destroy these objects; the cache helper only reads them.
type Topology struct {
	channels []*Channel
	byID     map[DeviceID]*Device
}

func NewTopology() *Topology {
	return &Topology{
		byID: make(map[DeviceID]*Device),
	}
}

// AddChannel creates a channel and registers it with the topology.
func (t *Topology) AddChannel(id ChannelID) *Channel {
	ch := &Channel{id: id}
	t.channels = append(t.channels, ch)
	return ch
}

// AddDevice creates a device with the given link address and attaches it to
// ch. Device IDs must be unique within the topology.
func (t *Topology) AddDevice(id DeviceID, linkAddr net.HardwareAddr, ch *Channel) (*Device, error) {
	if _, ok := t.byID[id]; ok {
		return nil, fmt.Errorf("duplicate device %q", id)
	}
	d := &Device{id: id, linkAddr: linkAddr, channel: ch}
	ch.attach(d)
	t.byID[id] = d
	return d, nil
}

// Channels returns every channel in creation order.
func (t *Topology) Channels() []*Channel {
	out := make([]*Channel, len(t.channels))
	copy(out, t.channels)
	return out
}

// Device looks a device up by ID.
func (t *Topology) Device(id DeviceID) (*Device, bool) {
	d, ok := t.byID[id]
	return d, ok
}
