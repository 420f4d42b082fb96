package sim

import (
	"fmt"
	"net"
	"net/netip"
	"testing"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	if err != nil {
		t.Fatalf("bad MAC %q: %v", s, err)
	}
	return mac
}

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	p, err := netip.ParsePrefix(s)
	if err != nil {
		t.Fatalf("bad prefix %q: %v", s, err)
	}
	return p
}

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	if err != nil {
		t.Fatalf("bad address %q: %v", s, err)
	}
	return a
}

// buildLanTopology creates one channel with n devices d1..dn, link addresses
// 02:00:00:00:00:01.., each running IPv4 with address 10.0.0.<i>/24.
func buildLanTopology(t *testing.T, n int) (*Topology, *Channel, []*Device) {
	t.Helper()
	topo := NewTopology()
	ch := topo.AddChannel("lan0")
	devices := make([]*Device, 0, n)
	for i := 1; i <= n; i++ {
		mac := net.HardwareAddr{0x02, 0, 0, 0, 0, byte(i)}
		d, err := topo.AddDevice(DeviceID(fmt.Sprintf("d%d", i)), mac, ch)
		if err != nil {
			t.Fatalf("add device: %v", err)
		}
		iface := d.EnableIpv4()
		if err := iface.AddAddress(netip.PrefixFrom(netip.AddrFrom4([4]byte{10, 0, 0, byte(i)}), 24)); err != nil {
			t.Fatalf("add address: %v", err)
		}
		devices = append(devices, d)
	}
	return topo, ch, devices
}

// addIpv6 enables IPv6 on d and configures the given global address.
func addIpv6(t *testing.T, d *Device, prefix string) *Ipv6Interface {
	t.Helper()
	iface := d.EnableIpv6()
	if err := iface.AddAddress(mustPrefix(t, prefix)); err != nil {
		t.Fatalf("add IPv6 address: %v", err)
	}
	return iface
}

// cacheAddrs flattens a cache into its peer addresses, in entry order.
func cacheAddrs(c *NeighborCache) []netip.Addr {
	entries := c.Entries()
	out := make([]netip.Addr, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Addr)
	}
	return out
}
