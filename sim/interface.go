package sim

import (
	"fmt"
	"net/netip"

	"github.com/google/uuid"
)

// AddressCallback observes a single address being added to or removed from
// an interface. Callbacks run synchronously on the simulation timeline,
// inside the event that mutated the address set.
type AddressCallback func(prefix netip.Prefix)

// SubscriptionID identifies one registered address observer so it can be
// torn down without disturbing others.
type SubscriptionID = uuid.UUID

// ifaceState is the protocol-independent body shared by Ipv4Interface and
// Ipv6Interface: the owning device, the ordered configured addresses, the
// neighbor cache, and the address-change observer registry.
type ifaceState struct {
	device *Device
	family AddressFamily
	addrs  []netip.Prefix
	cache  *NeighborCache

	addedObservers   map[SubscriptionID]AddressCallback
	removedObservers map[SubscriptionID]AddressCallback
}

func newIfaceState(device *Device, family AddressFamily) ifaceState {
	return ifaceState{
		device:           device,
		family:           family,
		cache:            NewNeighborCache(),
		addedObservers:   make(map[SubscriptionID]AddressCallback),
		removedObservers: make(map[SubscriptionID]AddressCallback),
	}
}

// Device returns the device this interface belongs to.
func (i *ifaceState) Device() *Device {
	return i.device
}

// Cache returns the interface's neighbor cache.
func (i *ifaceState) Cache() *NeighborCache {
	return i.cache
}

// Addresses returns the configured addresses in configuration order.
func (i *ifaceState) Addresses() []netip.Prefix {
	out := make([]netip.Prefix, len(i.addrs))
	copy(out, i.addrs)
	return out
}

// AddAddress configures prefix on the interface and notifies observers.
// Configuring an already-present prefix is a silent no-op so that replayed
// configuration never double-fires notifications.
func (i *ifaceState) AddAddress(prefix netip.Prefix) error {
	if err := i.checkFamily(prefix); err != nil {
		return err
	}
	for _, p := range i.addrs {
		if p == prefix {
			return nil
		}
	}
	i.addrs = append(i.addrs, prefix)
	for _, cb := range i.addedObservers {
		cb(prefix)
	}
	return nil
}

// RemoveAddress drops the configured address addr and notifies observers
// with the full prefix it was configured with. Removing an address that is
// not configured reports false and fires nothing.
func (i *ifaceState) RemoveAddress(addr netip.Addr) bool {
	for idx, p := range i.addrs {
		if p.Addr() == addr {
			i.addrs = append(i.addrs[:idx], i.addrs[idx+1:]...)
			for _, cb := range i.removedObservers {
				cb(p)
			}
			return true
		}
	}
	return false
}

// OnAddressAdded registers cb for future address additions.
func (i *ifaceState) OnAddressAdded(cb AddressCallback) SubscriptionID {
	id := uuid.New()
	i.addedObservers[id] = cb
	return id
}

// OnAddressRemoved registers cb for future address removals.
func (i *ifaceState) OnAddressRemoved(cb AddressCallback) SubscriptionID {
	id := uuid.New()
	i.removedObservers[id] = cb
	return id
}

// Unsubscribe tears down the observer registered under id.
func (i *ifaceState) Unsubscribe(id SubscriptionID) {
	delete(i.addedObservers, id)
	delete(i.removedObservers, id)
}

func (i *ifaceState) checkFamily(prefix netip.Prefix) error {
	addr := prefix.Addr()
	switch i.family {
	case FamilyIpv4:
		if !addr.Is4() {
			return fmt.Errorf("address %s is not IPv4", addr)
		}
	case FamilyIpv6:
		if !addr.Is6() || addr.Is4In6() {
			return fmt.Errorf("address %s is not IPv6", addr)
		}
	}
	return nil
}

// Ipv4Interface is the IPv4 protocol endpoint of a device, owning its ARP
// cache.
type Ipv4Interface struct {
	ifaceState
}

// Ipv6Interface is the IPv6 protocol endpoint of a device, owning its NDISC
// cache. A link-local address derived from the device's link address is
// configured at creation, matching what a real IPv6 stack brings up.
type Ipv6Interface struct {
	ifaceState
}
