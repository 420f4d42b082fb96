// Package sim provides a discrete-event network simulator core whose
// neighbor caches (IPv4 ARP and IPv6 NDISC) are pre-populated instead of
// resolved by live protocol traffic.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - topology.go, channel.go, device.go, interface.go: the network model
//     (channels → attached devices → per-family interfaces and addresses)
//   - neighbor_cache.go: the per-interface resolution cache and the
//     manual/generated entry provenance that makes bulk removal safe
//   - neighbor_cache_helper.go: the population walkers, the flush
//     operation, and dynamic maintenance under address churn
//
// # Architecture
//
// The helper walks the topology (globally, per channel, per device set, or
// per interface set) and writes symmetric peer-address → link-address
// entries into both sides' caches, tagged generated. FlushAutoGenerated
// withdraws exactly those entries. With dynamic neighbor cache enabled the
// helper subscribes to address add/remove notifications on every interface
// it has populated and keeps peer caches consistent incrementally.
//
// event.go, event_heap.go and simulator.go supply the timeline: a
// deterministic heap of events (address churn, population, flush) executed
// to completion in timestamp order on a single logical thread.
package sim
