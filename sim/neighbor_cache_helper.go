package sim

import (
	"net/netip"

	"github.com/sirupsen/logrus"
)

// NeighborCacheHelper pre-populates ARP and NDISC caches so that devices
// can exchange packets without running live address resolution. Entries it
// writes are tagged generated and can be withdrawn in bulk with
// FlushAutoGenerated without disturbing manually configured entries.
//
// The helper must outlive the simulation when dynamic neighbor cache is
// enabled: it is the sole subscriber to address-change notifications.
type NeighborCacheHelper struct {
	topology ChannelLister
	metrics  *Metrics

	// globalNeighborCache is set once the all-channels walker has run, so a
	// later SetDynamicNeighborCache(true) must watch every interface in the
	// topology, not just the ones earlier walks touched.
	globalNeighborCache  bool
	dynamicNeighborCache bool

	// Interfaces ever touched by a walker, with the subscription handles
	// held on them while dynamic neighbor cache is enabled.
	touchedIpv4 map[*Ipv4Interface][]SubscriptionID
	touchedIpv6 map[*Ipv6Interface][]SubscriptionID
}

func NewNeighborCacheHelper(topology ChannelLister) *NeighborCacheHelper {
	return &NeighborCacheHelper{
		topology:    topology,
		metrics:     &Metrics{},
		touchedIpv4: make(map[*Ipv4Interface][]SubscriptionID),
		touchedIpv6: make(map[*Ipv6Interface][]SubscriptionID),
	}
}

// Metrics returns the helper's population counters.
func (h *NeighborCacheHelper) Metrics() *Metrics {
	return h.metrics
}

// PopulateNeighborCache populates ARP and NDISC caches for all devices on
// every channel in the topology.
func (h *NeighborCacheHelper) PopulateNeighborCache() {
	logrus.Infof("Populating neighbor caches globally")
	for _, ch := range h.topology.Channels() {
		h.populateChannel(ch)
	}
	h.globalNeighborCache = true
}

// PopulateNeighborCacheOnChannel populates ARP and NDISC caches for all
// devices attached to ch. A channel with fewer than two devices is a no-op.
func (h *NeighborCacheHelper) PopulateNeighborCacheOnChannel(ch *Channel) {
	logrus.Infof("Populating neighbor caches for channel %s", ch.ID())
	h.populateChannel(ch)
}

// PopulateNeighborCacheOnDevices populates ARP and NDISC caches between the
// given devices. Devices are grouped by the channel they are attached to;
// devices that do not share a channel are never paired.
func (h *NeighborCacheHelper) PopulateNeighborCacheOnDevices(devices []*Device) {
	var order []*Channel
	groups := make(map[*Channel][]*Device)
	for _, d := range devices {
		if _, ok := groups[d.Channel()]; !ok {
			order = append(order, d.Channel())
		}
		groups[d.Channel()] = append(groups[d.Channel()], d)
	}
	for _, ch := range order {
		group := groups[ch]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				h.populateDevicePair(group[i], group[j])
			}
		}
	}
}

// PopulateNeighborCacheOnIpv4 populates ARP caches between the given IPv4
// interfaces. Only pairs whose owning devices share a channel are formed.
func (h *NeighborCacheHelper) PopulateNeighborCacheOnIpv4(ifaces []*Ipv4Interface) {
	for i := 0; i < len(ifaces); i++ {
		for j := i + 1; j < len(ifaces); j++ {
			if ifaces[i].Device().Channel() != ifaces[j].Device().Channel() {
				continue
			}
			h.populateNeighborEntriesIpv4(ifaces[i], ifaces[j])
			h.populateNeighborEntriesIpv4(ifaces[j], ifaces[i])
		}
	}
}

// PopulateNeighborCacheOnIpv6 populates NDISC caches between the given IPv6
// interfaces. Only pairs whose owning devices share a channel are formed.
func (h *NeighborCacheHelper) PopulateNeighborCacheOnIpv6(ifaces []*Ipv6Interface) {
	for i := 0; i < len(ifaces); i++ {
		for j := i + 1; j < len(ifaces); j++ {
			if ifaces[i].Device().Channel() != ifaces[j].Device().Channel() {
				continue
			}
			h.populateNeighborEntriesIpv6(ifaces[i], ifaces[j])
			h.populateNeighborEntriesIpv6(ifaces[j], ifaces[i])
		}
	}
}

// FlushAutoGenerated removes every generated entry from every cache the
// helper has ever touched. Manual entries survive, and dynamic neighbor
// cache maintenance, if enabled, stays enabled.
func (h *NeighborCacheHelper) FlushAutoGenerated() {
	flushed := 0
	for iface := range h.touchedIpv4 {
		flushed += iface.Cache().FlushGenerated()
	}
	for iface := range h.touchedIpv6 {
		flushed += iface.Cache().FlushGenerated()
	}
	h.metrics.EntriesFlushed += flushed
	logrus.Infof("Flushed %d auto-generated neighbor cache entries", flushed)
}

// SetDynamicNeighborCache enables or disables dynamic maintenance of
// auto-generated entries. While enabled, the helper listens for address
// additions and removals on every interface it has populated (every
// interface in the topology, after a global walk) and updates peer caches
// incrementally. Disabling deregisters all listeners and leaves existing
// entries in place.
func (h *NeighborCacheHelper) SetDynamicNeighborCache(enable bool) {
	if enable == h.dynamicNeighborCache {
		return
	}
	h.dynamicNeighborCache = enable
	if !enable {
		for iface, subs := range h.touchedIpv4 {
			for _, id := range subs {
				iface.Unsubscribe(id)
			}
			h.touchedIpv4[iface] = nil
		}
		for iface, subs := range h.touchedIpv6 {
			for _, id := range subs {
				iface.Unsubscribe(id)
			}
			h.touchedIpv6[iface] = nil
		}
		logrus.Infof("Dynamic neighbor cache disabled")
		return
	}
	if h.globalNeighborCache {
		// a global walk has happened, so coverage extends to the whole topology
		for _, ch := range h.topology.Channels() {
			for _, d := range ch.Devices() {
				if i4 := d.Ipv4Interface(); i4 != nil {
					h.touchIpv4(i4)
				}
				if i6 := d.Ipv6Interface(); i6 != nil {
					h.touchIpv6(i6)
				}
			}
		}
	}
	for iface, subs := range h.touchedIpv4 {
		if len(subs) == 0 {
			h.watchIpv4(iface)
		}
	}
	for iface, subs := range h.touchedIpv6 {
		if len(subs) == 0 {
			h.watchIpv6(iface)
		}
	}
	logrus.Infof("Dynamic neighbor cache enabled on %d IPv4 and %d IPv6 interfaces",
		len(h.touchedIpv4), len(h.touchedIpv6))
}

func (h *NeighborCacheHelper) populateChannel(ch *Channel) {
	devices := ch.Devices()
	for i := 0; i < len(devices); i++ {
		for j := i + 1; j < len(devices); j++ {
			h.populateDevicePair(devices[i], devices[j])
		}
	}
}

// populateDevicePair writes the bidirectional entries between two devices,
// independently per protocol family. A device lacking an interface of a
// family contributes no pairs for that family.
func (h *NeighborCacheHelper) populateDevicePair(a, b *Device) {
	if a == b {
		return
	}
	if aIf, bIf := a.Ipv4Interface(), b.Ipv4Interface(); aIf != nil && bIf != nil {
		h.populateNeighborEntriesIpv4(aIf, bIf)
		h.populateNeighborEntriesIpv4(bIf, aIf)
	}
	if aIf, bIf := a.Ipv6Interface(), b.Ipv6Interface(); aIf != nil && bIf != nil {
		h.populateNeighborEntriesIpv6(aIf, bIf)
		h.populateNeighborEntriesIpv6(bIf, aIf)
	}
}

// populateNeighborEntriesIpv4 writes into iface's ARP cache one generated
// entry per eligible address configured on neighbor.
func (h *NeighborCacheHelper) populateNeighborEntriesIpv4(iface, neighbor *Ipv4Interface) {
	if iface == neighbor || iface.Device() == neighbor.Device() {
		return
	}
	h.touchIpv4(iface)
	h.touchIpv4(neighbor)
	linkAddr := neighbor.Device().LinkAddress()
	for _, p := range neighbor.Addresses() {
		if !eligibleIpv4(p) {
			continue
		}
		res := iface.Cache().Add(p.Addr(), linkAddr, OriginGenerated)
		h.metrics.record(res)
		logrus.Debugf("ARP cache of %s: %s -> %s (%s)",
			iface.Device().ID(), p.Addr(), linkAddr, res)
	}
}

// populateNeighborEntriesIpv6 writes into iface's NDISC cache one generated
// entry per eligible address configured on neighbor.
func (h *NeighborCacheHelper) populateNeighborEntriesIpv6(iface, neighbor *Ipv6Interface) {
	if iface == neighbor || iface.Device() == neighbor.Device() {
		return
	}
	h.touchIpv6(iface)
	h.touchIpv6(neighbor)
	linkAddr := neighbor.Device().LinkAddress()
	for _, p := range neighbor.Addresses() {
		if !eligibleIpv6(p) {
			continue
		}
		res := iface.Cache().Add(p.Addr(), linkAddr, OriginGenerated)
		h.metrics.record(res)
		logrus.Debugf("NDISC cache of %s: %s -> %s (%s)",
			iface.Device().ID(), p.Addr(), linkAddr, res)
	}
}

// touchIpv4 records that iface's cache belongs to the helper's flush scope,
// subscribing to its address changes when dynamic maintenance is on.
func (h *NeighborCacheHelper) touchIpv4(iface *Ipv4Interface) {
	if _, ok := h.touchedIpv4[iface]; ok {
		return
	}
	h.touchedIpv4[iface] = nil
	if h.dynamicNeighborCache {
		h.watchIpv4(iface)
	}
}

func (h *NeighborCacheHelper) touchIpv6(iface *Ipv6Interface) {
	if _, ok := h.touchedIpv6[iface]; ok {
		return
	}
	h.touchedIpv6[iface] = nil
	if h.dynamicNeighborCache {
		h.watchIpv6(iface)
	}
}

func (h *NeighborCacheHelper) watchIpv4(iface *Ipv4Interface) {
	h.touchedIpv4[iface] = []SubscriptionID{
		iface.OnAddressAdded(func(p netip.Prefix) { h.onIpv4AddressAdded(iface, p) }),
		iface.OnAddressRemoved(func(p netip.Prefix) { h.onIpv4AddressRemoved(iface, p) }),
	}
}

func (h *NeighborCacheHelper) watchIpv6(iface *Ipv6Interface) {
	h.touchedIpv6[iface] = []SubscriptionID{
		iface.OnAddressAdded(func(p netip.Prefix) { h.onIpv6AddressAdded(iface, p) }),
		iface.OnAddressRemoved(func(p netip.Prefix) { h.onIpv6AddressRemoved(iface, p) }),
	}
}

// onIpv4AddressAdded re-runs pairwise population between iface and every
// IPv4 peer on its channel, so the new address becomes resolvable from, and
// can resolve, its neighbors.
func (h *NeighborCacheHelper) onIpv4AddressAdded(iface *Ipv4Interface, prefix netip.Prefix) {
	logrus.Debugf("Address %s added on %s, updating neighbor ARP caches",
		prefix, iface.Device().ID())
	for _, peer := range iface.Device().Channel().Devices() {
		peerIf := peer.Ipv4Interface()
		if peerIf == nil || peerIf == iface {
			continue
		}
		h.populateNeighborEntriesIpv4(peerIf, iface)
		h.populateNeighborEntriesIpv4(iface, peerIf)
	}
}

// onIpv4AddressRemoved withdraws the generated entries for the removed
// address from every IPv4 peer cache on iface's channel. Manual entries for
// the same address, and entries for the interface's other addresses, are
// untouched.
func (h *NeighborCacheHelper) onIpv4AddressRemoved(iface *Ipv4Interface, prefix netip.Prefix) {
	logrus.Debugf("Address %s removed on %s, updating neighbor ARP caches",
		prefix, iface.Device().ID())
	for _, peer := range iface.Device().Channel().Devices() {
		peerIf := peer.Ipv4Interface()
		if peerIf == nil || peerIf == iface {
			continue
		}
		if peerIf.Cache().RemoveGenerated(prefix.Addr()) {
			h.metrics.EntriesRemoved++
		}
	}
}

func (h *NeighborCacheHelper) onIpv6AddressAdded(iface *Ipv6Interface, prefix netip.Prefix) {
	logrus.Debugf("Address %s added on %s, updating neighbor NDISC caches",
		prefix, iface.Device().ID())
	for _, peer := range iface.Device().Channel().Devices() {
		peerIf := peer.Ipv6Interface()
		if peerIf == nil || peerIf == iface {
			continue
		}
		h.populateNeighborEntriesIpv6(peerIf, iface)
		h.populateNeighborEntriesIpv6(iface, peerIf)
	}
}

func (h *NeighborCacheHelper) onIpv6AddressRemoved(iface *Ipv6Interface, prefix netip.Prefix) {
	logrus.Debugf("Address %s removed on %s, updating neighbor NDISC caches",
		prefix, iface.Device().ID())
	for _, peer := range iface.Device().Channel().Devices() {
		peerIf := peer.Ipv6Interface()
		if peerIf == nil || peerIf == iface {
			continue
		}
		if peerIf.Cache().RemoveGenerated(prefix.Addr()) {
			h.metrics.EntriesRemoved++
		}
	}
}
