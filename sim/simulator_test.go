package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Run_AdvancesClockAndExecutesInOrder(t *testing.T) {
	topo, _, devices := buildLanTopology(t, 2)
	sim := NewSimulator(1000, topo)
	sim.Helper.SetDynamicNeighborCache(true)
	sim.Helper.PopulateNeighborCache()

	sim.Schedule(NewAddressAddedEvent(100, devices[0], FamilyIpv4, mustPrefix(t, "10.0.0.50/24")))
	sim.Schedule(NewAddressRemovedEvent(200, devices[0], FamilyIpv4, mustAddr(t, "10.0.0.50")))
	sim.Run()

	// the add at tick 100 was undone by the remove at tick 200
	_, ok := devices[1].Ipv4Interface().Cache().Lookup(mustAddr(t, "10.0.0.50"))
	assert.False(t, ok)
	assert.Equal(t, int64(200), sim.Clock)
}

func TestSimulator_Run_StopsAtHorizon(t *testing.T) {
	topo, _, devices := buildLanTopology(t, 2)
	sim := NewSimulator(150, topo)
	sim.Helper.SetDynamicNeighborCache(true)
	sim.Helper.PopulateNeighborCache()

	sim.Schedule(NewAddressAddedEvent(100, devices[0], FamilyIpv4, mustPrefix(t, "10.0.0.50/24")))
	sim.Schedule(NewAddressAddedEvent(500, devices[0], FamilyIpv4, mustPrefix(t, "10.0.0.60/24")))
	sim.Run()

	cache := devices[1].Ipv4Interface().Cache()
	_, ok := cache.Lookup(mustAddr(t, "10.0.0.50"))
	assert.True(t, ok, "event inside horizon must run")
	_, ok = cache.Lookup(mustAddr(t, "10.0.0.60"))
	assert.False(t, ok, "event beyond horizon must not run")
}

func TestSimulator_DynamicToggleEvents_GateAddressChurn(t *testing.T) {
	// disable/re-enable window, replayed as timeline events
	topo, _, devices := buildLanTopology(t, 2)
	i1 := devices[0].Ipv4Interface()
	require.NoError(t, i1.AddAddress(mustPrefix(t, "10.0.0.101/24")))
	require.NoError(t, i1.AddAddress(mustPrefix(t, "10.0.0.102/24")))

	sim := NewSimulator(1000, topo)
	sim.Helper.PopulateNeighborCache()
	sim.Helper.SetDynamicNeighborCache(true)

	sim.Schedule(NewDynamicCacheEvent(10, false))
	sim.Schedule(NewAddressRemovedEvent(20, devices[0], FamilyIpv4, mustAddr(t, "10.0.0.101")))
	sim.Schedule(NewDynamicCacheEvent(30, true))
	sim.Schedule(NewAddressRemovedEvent(40, devices[0], FamilyIpv4, mustAddr(t, "10.0.0.102")))
	sim.Run()

	cache := devices[1].Ipv4Interface().Cache()
	_, ok := cache.Lookup(mustAddr(t, "10.0.0.101"))
	assert.True(t, ok, "removal during disabled window must not propagate")
	_, ok = cache.Lookup(mustAddr(t, "10.0.0.102"))
	assert.False(t, ok, "removal during enabled window must propagate")
}

func TestSimulator_PopulateAndFlushEvents(t *testing.T) {
	topo, _, devices := buildLanTopology(t, 3)
	sim := NewSimulator(1000, topo)

	sim.Schedule(NewPopulateEvent(10))
	sim.Schedule(NewFlushEvent(20))
	sim.Run()

	for _, d := range devices {
		assert.Equal(t, 0, d.Ipv4Interface().Cache().Len())
	}
	assert.Equal(t, 6, sim.Helper.Metrics().EntriesInstalled)
	assert.Equal(t, 6, sim.Helper.Metrics().EntriesFlushed)
}

func TestAddressEvents_DeviceWithoutFamilyInterface_NoOp(t *testing.T) {
	// churn on a device that runs no IPv6 stack must not abort the run
	topo, _, devices := buildLanTopology(t, 2)
	sim := NewSimulator(1000, topo)
	sim.Helper.PopulateNeighborCache()
	sim.Helper.SetDynamicNeighborCache(true)

	sim.Schedule(NewAddressAddedEvent(10, devices[0], FamilyIpv6, mustPrefix(t, "2001:db8::1/64")))
	sim.Schedule(NewAddressRemovedEvent(20, devices[0], FamilyIpv6, mustAddr(t, "2001:db8::1")))
	sim.Run()

	assert.Equal(t, int64(20), sim.Clock)
	assert.Equal(t, 1, devices[1].Ipv4Interface().Cache().Len())
}
