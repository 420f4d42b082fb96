package sim

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	topo := NewTopology()
	ch := topo.AddChannel("lan0")
	d, err := topo.AddDevice("d1", mustMAC(t, "02:00:00:00:00:01"), ch)
	require.NoError(t, err)
	return d
}

func TestIpv4Interface_AddAddress_RejectsIpv6(t *testing.T) {
	iface := newTestDevice(t).EnableIpv4()

	err := iface.AddAddress(mustPrefix(t, "2001:db8::1/64"))

	assert.Error(t, err)
	assert.Empty(t, iface.Addresses())
}

func TestIpv6Interface_AddAddress_RejectsIpv4(t *testing.T) {
	iface := newTestDevice(t).EnableIpv6()

	err := iface.AddAddress(mustPrefix(t, "10.0.0.1/24"))

	assert.Error(t, err)
}

func TestIpv6Interface_ComesUpWithLinkLocal(t *testing.T) {
	d := newTestDevice(t)

	iface := d.EnableIpv6()

	addrs := iface.Addresses()
	require.Len(t, addrs, 1)
	assert.Equal(t, Ipv6LinkLocal(d.LinkAddress()), addrs[0])
}

func TestInterface_AddAddress_DuplicateIsSilentNoOp(t *testing.T) {
	iface := newTestDevice(t).EnableIpv4()
	p := mustPrefix(t, "10.0.0.1/24")
	require.NoError(t, iface.AddAddress(p))

	fired := 0
	iface.OnAddressAdded(func(netip.Prefix) { fired++ })
	require.NoError(t, iface.AddAddress(p))

	assert.Equal(t, 0, fired)
	assert.Len(t, iface.Addresses(), 1)
}

func TestInterface_Observers_FireWithConfiguredPrefix(t *testing.T) {
	iface := newTestDevice(t).EnableIpv4()
	p := mustPrefix(t, "10.0.0.1/24")

	var added, removed []netip.Prefix
	iface.OnAddressAdded(func(pfx netip.Prefix) { added = append(added, pfx) })
	iface.OnAddressRemoved(func(pfx netip.Prefix) { removed = append(removed, pfx) })

	require.NoError(t, iface.AddAddress(p))
	assert.True(t, iface.RemoveAddress(p.Addr()))

	// the removal callback sees the prefix the address was configured with
	assert.Equal(t, []netip.Prefix{p}, added)
	assert.Equal(t, []netip.Prefix{p}, removed)
}

func TestInterface_RemoveAddress_NotConfigured_NoNotification(t *testing.T) {
	iface := newTestDevice(t).EnableIpv4()
	fired := false
	iface.OnAddressRemoved(func(netip.Prefix) { fired = true })

	assert.False(t, iface.RemoveAddress(mustAddr(t, "10.0.0.9")))
	assert.False(t, fired)
}

func TestInterface_Unsubscribe_StopsNotifications(t *testing.T) {
	iface := newTestDevice(t).EnableIpv4()
	fired := 0
	id := iface.OnAddressAdded(func(netip.Prefix) { fired++ })
	other := 0
	iface.OnAddressAdded(func(netip.Prefix) { other++ })

	iface.Unsubscribe(id)
	require.NoError(t, iface.AddAddress(mustPrefix(t, "10.0.0.1/24")))

	assert.Equal(t, 0, fired, "unsubscribed observer must not fire")
	assert.Equal(t, 1, other, "remaining observer still fires")
}
