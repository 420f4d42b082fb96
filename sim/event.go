package sim

import (
	"net/netip"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Global event ID counter for deterministic tie-breaking
var globalEventID uint64

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in ticks), a Type used for priority ordering
// among simultaneous events, and an Execute method that advances simulation
// state when invoked.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(sim *Simulator)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp int64, eventType EventType) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   atomic.AddUint64(&globalEventID, 1),
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// AddressAddedEvent configures an address on a device's interface at a
// point on the timeline. With dynamic neighbor cache enabled, peer caches
// pick the address up through the helper's subscriptions.
type AddressAddedEvent struct {
	BaseEvent
	Device *Device
	Family AddressFamily
	Prefix netip.Prefix
}

func NewAddressAddedEvent(timestamp int64, d *Device, family AddressFamily, prefix netip.Prefix) *AddressAddedEvent {
	return &AddressAddedEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeAddressAdded),
		Device:    d,
		Family:    family,
		Prefix:    prefix,
	}
}

func (e *AddressAddedEvent) Execute(sim *Simulator) {
	switch e.Family {
	case FamilyIpv4:
		if iface := e.Device.Ipv4Interface(); iface != nil {
			if err := iface.AddAddress(e.Prefix); err != nil {
				logrus.Warnf("Ignoring address add on %s: %v", e.Device.ID(), err)
			}
			return
		}
	case FamilyIpv6:
		if iface := e.Device.Ipv6Interface(); iface != nil {
			if err := iface.AddAddress(e.Prefix); err != nil {
				logrus.Warnf("Ignoring address add on %s: %v", e.Device.ID(), err)
			}
			return
		}
	}
	// address churn on a device without the protocol stack is expected
	logrus.Debugf("Device %s has no %s interface, nothing to configure", e.Device.ID(), e.Family)
}

// AddressRemovedEvent removes a configured address from a device's
// interface at a point on the timeline.
type AddressRemovedEvent struct {
	BaseEvent
	Device *Device
	Family AddressFamily
	Addr   netip.Addr
}

func NewAddressRemovedEvent(timestamp int64, d *Device, family AddressFamily, addr netip.Addr) *AddressRemovedEvent {
	return &AddressRemovedEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeAddressRemoved),
		Device:    d,
		Family:    family,
		Addr:      addr,
	}
}

func (e *AddressRemovedEvent) Execute(sim *Simulator) {
	switch e.Family {
	case FamilyIpv4:
		if iface := e.Device.Ipv4Interface(); iface != nil {
			iface.RemoveAddress(e.Addr)
			return
		}
	case FamilyIpv6:
		if iface := e.Device.Ipv6Interface(); iface != nil {
			iface.RemoveAddress(e.Addr)
			return
		}
	}
	logrus.Debugf("Device %s has no %s interface, nothing to remove", e.Device.ID(), e.Family)
}

// PopulateEvent re-runs global neighbor cache population.
type PopulateEvent struct {
	BaseEvent
}

func NewPopulateEvent(timestamp int64) *PopulateEvent {
	return &PopulateEvent{BaseEvent: newBaseEvent(timestamp, EventTypePopulate)}
}

func (e *PopulateEvent) Execute(sim *Simulator) {
	sim.Helper.PopulateNeighborCache()
}

// DynamicCacheEvent enables or disables dynamic neighbor cache maintenance.
type DynamicCacheEvent struct {
	BaseEvent
	Enable bool
}

func NewDynamicCacheEvent(timestamp int64, enable bool) *DynamicCacheEvent {
	return &DynamicCacheEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeDynamicCache),
		Enable:    enable,
	}
}

func (e *DynamicCacheEvent) Execute(sim *Simulator) {
	sim.Helper.SetDynamicNeighborCache(e.Enable)
}

// FlushEvent withdraws every auto-generated neighbor cache entry.
type FlushEvent struct {
	BaseEvent
}

func NewFlushEvent(timestamp int64) *FlushEvent {
	return &FlushEvent{BaseEvent: newBaseEvent(timestamp, EventTypeFlush)}
}

func (e *FlushEvent) Execute(sim *Simulator) {
	sim.Helper.FlushAutoGenerated()
}
