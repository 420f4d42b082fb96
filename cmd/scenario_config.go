package cmd

import (
	"fmt"
	"net"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/Sakal05/ns3/sim"
)

// ScenarioConfig is the YAML description of a topology plus the timeline
// events to replay against it.
type ScenarioConfig struct {
	Channels      []ChannelConfig     `yaml:"channels"`
	ManualEntries []ManualEntryConfig `yaml:"manual_entries"`
	Events        []EventConfig       `yaml:"events"`
}

type ChannelConfig struct {
	Name    string         `yaml:"name"`
	Devices []DeviceConfig `yaml:"devices"`
}

type DeviceConfig struct {
	Name          string   `yaml:"name"`
	LinkAddress   string   `yaml:"link_address"`
	Ipv4Addresses []string `yaml:"ipv4_addresses"`
	Ipv6Addresses []string `yaml:"ipv6_addresses"`
}

// ManualEntryConfig seeds a user-configured cache entry on a device before
// population runs. The helper never overwrites or flushes these.
type ManualEntryConfig struct {
	Device      string `yaml:"device"`
	Family      string `yaml:"family"`
	Address     string `yaml:"address"`
	LinkAddress string `yaml:"link_address"`
}

// EventConfig is one timed action: add-address, remove-address, populate,
// flush, or dynamic-cache (with enable).
type EventConfig struct {
	At      int64  `yaml:"at"`
	Action  string `yaml:"action"`
	Device  string `yaml:"device"`
	Family  string `yaml:"family"`
	Address string `yaml:"address"`
	Enable  bool   `yaml:"enable"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &cfg, nil
}

// BuildTopology materializes the configured channels, devices, interfaces,
// addresses and manual cache entries.
func (c *ScenarioConfig) BuildTopology() (*sim.Topology, error) {
	topo := sim.NewTopology()
	for _, chCfg := range c.Channels {
		ch := topo.AddChannel(sim.ChannelID(chCfg.Name))
		for _, dCfg := range chCfg.Devices {
			mac, err := net.ParseMAC(dCfg.LinkAddress)
			if err != nil {
				return nil, fmt.Errorf("device %s: bad link address %q: %w", dCfg.Name, dCfg.LinkAddress, err)
			}
			d, err := topo.AddDevice(sim.DeviceID(dCfg.Name), mac, ch)
			if err != nil {
				return nil, err
			}
			if len(dCfg.Ipv4Addresses) > 0 {
				iface := d.EnableIpv4()
				for _, s := range dCfg.Ipv4Addresses {
					p, err := netip.ParsePrefix(s)
					if err != nil {
						return nil, fmt.Errorf("device %s: bad IPv4 address %q: %w", dCfg.Name, s, err)
					}
					if err := iface.AddAddress(p); err != nil {
						return nil, fmt.Errorf("device %s: %w", dCfg.Name, err)
					}
				}
			}
			if len(dCfg.Ipv6Addresses) > 0 {
				iface := d.EnableIpv6()
				for _, s := range dCfg.Ipv6Addresses {
					p, err := netip.ParsePrefix(s)
					if err != nil {
						return nil, fmt.Errorf("device %s: bad IPv6 address %q: %w", dCfg.Name, s, err)
					}
					if err := iface.AddAddress(p); err != nil {
						return nil, fmt.Errorf("device %s: %w", dCfg.Name, err)
					}
				}
			}
		}
	}
	for _, m := range c.ManualEntries {
		if err := seedManualEntry(topo, m); err != nil {
			return nil, err
		}
	}
	return topo, nil
}

func seedManualEntry(topo *sim.Topology, m ManualEntryConfig) error {
	d, ok := topo.Device(sim.DeviceID(m.Device))
	if !ok {
		return fmt.Errorf("manual entry references unknown device %q", m.Device)
	}
	addr, err := netip.ParseAddr(m.Address)
	if err != nil {
		return fmt.Errorf("manual entry for %s: bad address %q: %w", m.Device, m.Address, err)
	}
	mac, err := net.ParseMAC(m.LinkAddress)
	if err != nil {
		return fmt.Errorf("manual entry for %s: bad link address %q: %w", m.Device, m.LinkAddress, err)
	}
	family, err := parseFamily(m.Family)
	if err != nil {
		return fmt.Errorf("manual entry for %s: %w", m.Device, err)
	}
	var cache *sim.NeighborCache
	switch family {
	case sim.FamilyIpv4:
		if d.Ipv4Interface() == nil {
			return fmt.Errorf("manual entry for %s: device has no IPv4 interface", m.Device)
		}
		cache = d.Ipv4Interface().Cache()
	case sim.FamilyIpv6:
		if d.Ipv6Interface() == nil {
			return fmt.Errorf("manual entry for %s: device has no IPv6 interface", m.Device)
		}
		cache = d.Ipv6Interface().Cache()
	}
	cache.Add(addr, mac, sim.OriginManual)
	return nil
}

// ScheduleEvents translates the configured timeline into simulator events.
func (c *ScenarioConfig) ScheduleEvents(s *sim.Simulator) error {
	for _, e := range c.Events {
		switch e.Action {
		case "add-address":
			d, family, err := resolveTarget(s.Topology, e)
			if err != nil {
				return err
			}
			p, err := netip.ParsePrefix(e.Address)
			if err != nil {
				return fmt.Errorf("event at %d: bad address %q: %w", e.At, e.Address, err)
			}
			s.Schedule(sim.NewAddressAddedEvent(e.At, d, family, p))
		case "remove-address":
			d, family, err := resolveTarget(s.Topology, e)
			if err != nil {
				return err
			}
			addr, err := netip.ParseAddr(e.Address)
			if err != nil {
				return fmt.Errorf("event at %d: bad address %q: %w", e.At, e.Address, err)
			}
			s.Schedule(sim.NewAddressRemovedEvent(e.At, d, family, addr))
		case "populate":
			s.Schedule(sim.NewPopulateEvent(e.At))
		case "flush":
			s.Schedule(sim.NewFlushEvent(e.At))
		case "dynamic-cache":
			s.Schedule(sim.NewDynamicCacheEvent(e.At, e.Enable))
		default:
			return fmt.Errorf("event at %d: unknown action %q", e.At, e.Action)
		}
	}
	return nil
}

func resolveTarget(topo *sim.Topology, e EventConfig) (*sim.Device, sim.AddressFamily, error) {
	d, ok := topo.Device(sim.DeviceID(e.Device))
	if !ok {
		return nil, "", fmt.Errorf("event at %d: unknown device %q", e.At, e.Device)
	}
	family, err := parseFamily(e.Family)
	if err != nil {
		return nil, "", fmt.Errorf("event at %d: %w", e.At, err)
	}
	return d, family, nil
}

func parseFamily(s string) (sim.AddressFamily, error) {
	switch s {
	case "ipv4":
		return sim.FamilyIpv4, nil
	case "ipv6":
		return sim.FamilyIpv6, nil
	default:
		return "", fmt.Errorf("unknown address family %q", s)
	}
}
