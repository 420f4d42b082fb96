package sim

import "net"

// Device is a network device attached to exactly one channel, identified by
// its link-layer address. It owns at most one IPv4 and one IPv6 interface.
type Device struct {
	id       DeviceID
	linkAddr net.HardwareAddr
	channel  *Channel
	ipv4     *Ipv4Interface
	ipv6     *Ipv6Interface
}

// ID returns the device identifier.
func (d *Device) ID() DeviceID {
	return d.id
}

// LinkAddress returns the device's link-layer address.
func (d *Device) LinkAddress() net.HardwareAddr {
	return d.linkAddr
}

// Channel returns the channel the device is attached to.
func (d *Device) Channel() *Channel {
	return d.channel
}

// Ipv4Interface returns the device's IPv4 interface, or nil if the device
// does not run the IPv4 stack.
func (d *Device) Ipv4Interface() *Ipv4Interface {
	return d.ipv4
}

// Ipv6Interface returns the device's IPv6 interface, or nil if the device
// does not run the IPv6 stack.
func (d *Device) Ipv6Interface() *Ipv6Interface {
	return d.ipv6
}

// EnableIpv4 creates the device's IPv4 interface. Idempotent.
func (d *Device) EnableIpv4() *Ipv4Interface {
	if d.ipv4 == nil {
		d.ipv4 = &Ipv4Interface{ifaceState: newIfaceState(d, FamilyIpv4)}
	}
	return d.ipv4
}

// EnableIpv6 creates the device's IPv6 interface and configures its
// EUI-64 link-local address. Idempotent.
func (d *Device) EnableIpv6() *Ipv6Interface {
	if d.ipv6 == nil {
		d.ipv6 = &Ipv6Interface{ifaceState: newIfaceState(d, FamilyIpv6)}
		// link-local comes up with the interface, before any observers exist
		_ = d.ipv6.AddAddress(Ipv6LinkLocal(d.linkAddr))
	}
	return d.ipv6
}
