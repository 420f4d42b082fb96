package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology_AddDevice_DuplicateIDRejected(t *testing.T) {
	topo := NewTopology()
	ch := topo.AddChannel("lan0")
	_, err := topo.AddDevice("d1", mustMAC(t, "02:00:00:00:00:01"), ch)
	require.NoError(t, err)

	_, err = topo.AddDevice("d1", mustMAC(t, "02:00:00:00:00:02"), ch)

	assert.Error(t, err)
}

func TestTopology_ChannelsAndDevices_PreserveOrder(t *testing.T) {
	topo := NewTopology()
	lan0 := topo.AddChannel("lan0")
	lan1 := topo.AddChannel("lan1")
	d1, _ := topo.AddDevice("d1", mustMAC(t, "02:00:00:00:00:01"), lan0)
	d2, _ := topo.AddDevice("d2", mustMAC(t, "02:00:00:00:00:02"), lan0)

	chans := topo.Channels()
	require.Len(t, chans, 2)
	assert.Same(t, lan0, chans[0])
	assert.Same(t, lan1, chans[1])

	devs := lan0.Devices()
	require.Len(t, devs, 2)
	assert.Same(t, d1, devs[0])
	assert.Same(t, d2, devs[1])

	got, ok := topo.Device("d2")
	require.True(t, ok)
	assert.Same(t, d2, got)
}

func TestDevice_EnableInterfaces_Idempotent(t *testing.T) {
	topo := NewTopology()
	ch := topo.AddChannel("lan0")
	d, err := topo.AddDevice("d1", mustMAC(t, "02:00:00:00:00:01"), ch)
	require.NoError(t, err)

	assert.Nil(t, d.Ipv4Interface())
	assert.Nil(t, d.Ipv6Interface())

	i4 := d.EnableIpv4()
	i6 := d.EnableIpv6()
	assert.Same(t, i4, d.EnableIpv4())
	assert.Same(t, i6, d.EnableIpv6())
	assert.Same(t, d, i4.Device())
	assert.Same(t, ch, d.Channel())
}
