package sim

import (
	"net"
	"net/netip"
)

// Address eligibility rules for neighbor cache population. Only unicast,
// peer-reachable addresses are meaningful resolution targets: loopback,
// unspecified, multicast and broadcast addresses never enter a cache.

// eligibleIpv4 reports whether an IPv4 interface address can appear as a
// neighbor cache entry. The subnet broadcast address is excluded along with
// the limited broadcast 255.255.255.255; /31 and /32 prefixes have no
// broadcast address (RFC 3021).
func eligibleIpv4(p netip.Prefix) bool {
	addr := p.Addr()
	if !addr.Is4() {
		return false
	}
	if addr.IsLoopback() || addr.IsUnspecified() || addr.IsMulticast() {
		return false
	}
	if addr == netip.AddrFrom4([4]byte{255, 255, 255, 255}) {
		return false
	}
	if p.Bits() < 31 && addr == subnetBroadcast(p) {
		return false
	}
	return true
}

// eligibleIpv6 reports whether an IPv6 interface address can appear as a
// NDISC cache entry. Only scopes compatible with direct neighbor
// reachability qualify: global unicast and link-local unicast.
func eligibleIpv6(p netip.Prefix) bool {
	addr := p.Addr()
	if !addr.Is6() || addr.Is4In6() {
		return false
	}
	if addr.IsLoopback() || addr.IsUnspecified() || addr.IsMulticast() {
		return false
	}
	return addr.IsGlobalUnicast() || addr.IsLinkLocalUnicast()
}

// subnetBroadcast returns the all-ones host address of an IPv4 prefix.
func subnetBroadcast(p netip.Prefix) netip.Addr {
	a4 := p.Masked().Addr().As4()
	hostBits := 32 - p.Bits()
	for i := 3; hostBits > 0 && i >= 0; i-- {
		take := hostBits
		if take > 8 {
			take = 8
		}
		a4[i] |= byte(0xff >> (8 - take))
		hostBits -= take
	}
	return netip.AddrFrom4(a4)
}

// Ipv6LinkLocal derives the fe80::/64 link-local address of a device from
// its 48-bit link address using the modified EUI-64 scheme.
func Ipv6LinkLocal(mac net.HardwareAddr) netip.Prefix {
	var a16 [16]byte
	a16[0] = 0xfe
	a16[1] = 0x80
	if len(mac) == 6 {
		a16[8] = mac[0] ^ 0x02
		a16[9] = mac[1]
		a16[10] = mac[2]
		a16[11] = 0xff
		a16[12] = 0xfe
		a16[13] = mac[3]
		a16[14] = mac[4]
		a16[15] = mac[5]
	}
	return netip.PrefixFrom(netip.AddrFrom16(a16), 64)
}
