package sim

// Channel is a shared transmission medium. Every device attached to it can
// resolve every other attached device directly; attachment order is
// preserved so walks are deterministic. Membership is fixed once the
// topology is built.
type Channel struct {
	id      ChannelID
	devices []*Device
}

// ID returns the channel identifier.
func (c *Channel) ID() ChannelID {
	return c.id
}

// Devices returns the attached devices in attachment order.
func (c *Channel) Devices() []*Device {
	out := make([]*Device, len(c.devices))
	copy(out, c.devices)
	return out
}

func (c *Channel) attach(d *Device) {
	c.devices = append(c.devices, d)
}
