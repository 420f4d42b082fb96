package sim

// Identity types
type ChannelID string
type DeviceID string

// AddressFamily selects between the IPv4 ARP cache and the IPv6 NDISC cache.
type AddressFamily string

const (
	FamilyIpv4 AddressFamily = "ipv4"
	FamilyIpv6 AddressFamily = "ipv6"
)

// EntryOrigin records who wrote a neighbor cache entry. Generated entries
// come from the NeighborCacheHelper and can be bulk-removed; manual entries
// belong to the user and are never touched by the helper.
type EntryOrigin string

const (
	OriginManual    EntryOrigin = "manual"
	OriginGenerated EntryOrigin = "generated"
)

// Event types with priority ordering
type EventType string

const (
	EventTypeAddressAdded   EventType = "AddressAdded"
	EventTypeAddressRemoved EventType = "AddressRemoved"
	EventTypePopulate       EventType = "Populate"
	EventTypeDynamicCache   EventType = "DynamicCache"
	EventTypeFlush          EventType = "Flush"
)

// EventTypePriority defines ordering for simultaneous events
// Lower values are processed first
var EventTypePriority = map[EventType]int{
	EventTypeDynamicCache:   1,
	EventTypeAddressAdded:   2,
	EventTypeAddressRemoved: 3,
	EventTypePopulate:       4,
	EventTypeFlush:          5,
}
