package sim

import (
	"net"
	"net/netip"
	"sort"
)

// NeighborEntry is a single resolution mapping: a peer protocol address, the
// link address frames for it should be sent to, and the entry's provenance.
type NeighborEntry struct {
	Addr     netip.Addr
	LinkAddr net.HardwareAddr
	Origin   EntryOrigin
}

// AddResult describes what Add did with an entry.
type AddResult string

const (
	AddInstalled  AddResult = "installed"   // new entry written
	AddRefreshed  AddResult = "refreshed"   // existing entry of the same origin updated
	AddKeptManual AddResult = "kept-manual" // manual entry present, generated write ignored
)

// NeighborCache holds the per-interface address resolution state (the ARP
// cache of an IPv4 interface or the NDISC cache of an IPv6 interface). At
// most one entry exists per peer protocol address.
type NeighborCache struct {
	entries map[netip.Addr]NeighborEntry
}

func NewNeighborCache() *NeighborCache {
	return &NeighborCache{
		entries: make(map[netip.Addr]NeighborEntry),
	}
}

// Add writes or refreshes the entry for addr. A generated write never
// replaces a manual entry; a manual write always wins. This is the
// invariant that makes FlushGenerated safe: helper output can be swept
// without ever disturbing user configuration.
func (c *NeighborCache) Add(addr netip.Addr, linkAddr net.HardwareAddr, origin EntryOrigin) AddResult {
	existing, ok := c.entries[addr]
	if ok && origin == OriginGenerated && existing.Origin == OriginManual {
		return AddKeptManual
	}
	c.entries[addr] = NeighborEntry{Addr: addr, LinkAddr: linkAddr, Origin: origin}
	if ok {
		return AddRefreshed
	}
	return AddInstalled
}

// Lookup returns the entry for addr, if any.
func (c *NeighborCache) Lookup(addr netip.Addr) (NeighborEntry, bool) {
	e, ok := c.entries[addr]
	return e, ok
}

// Remove deletes the entry for addr regardless of origin.
func (c *NeighborCache) Remove(addr netip.Addr) bool {
	if _, ok := c.entries[addr]; !ok {
		return false
	}
	delete(c.entries, addr)
	return true
}

// RemoveGenerated deletes the entry for addr only if it is generated.
// Manual entries for the same address survive.
func (c *NeighborCache) RemoveGenerated(addr netip.Addr) bool {
	e, ok := c.entries[addr]
	if !ok || e.Origin != OriginGenerated {
		return false
	}
	delete(c.entries, addr)
	return true
}

// FlushGenerated removes every generated entry and reports how many were
// dropped. Manual entries are untouched.
func (c *NeighborCache) FlushGenerated() int {
	n := 0
	for addr, e := range c.entries {
		if e.Origin == OriginGenerated {
			delete(c.entries, addr)
			n++
		}
	}
	return n
}

// Entries returns all entries ordered by peer address, for deterministic
// reporting and tests.
func (c *NeighborCache) Entries() []NeighborEntry {
	out := make([]NeighborEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Addr.Compare(out[j].Addr) < 0
	})
	return out
}

// Len returns the number of entries in the cache.
func (c *NeighborCache) Len() int {
	return len(c.entries)
}
