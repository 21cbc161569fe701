package host

import (
	"fmt"
	"strings"
)

// Capability is a bit set of functions a component body advertises.
type Capability uint32

const (
	CapBeacon Capability = 1 << iota
	CapLaserAntenna
	CapRadioAntenna
	CapUserControllableWeapon
	CapDecoy
	CapReactor
	CapThruster
	CapCargo
	CapCockpit
	CapProduction
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapBeacon, "beacon"},
	{CapLaserAntenna, "laser_antenna"},
	{CapRadioAntenna, "radio_antenna"},
	{CapUserControllableWeapon, "user_controllable_weapon"},
	{CapDecoy, "decoy"},
	{CapReactor, "reactor"},
	{CapThruster, "thruster"},
	{CapCargo, "cargo"},
	{CapCockpit, "cockpit"},
	{CapProduction, "production"},
}

// Has reports whether c contains any bit of other.
func (c Capability) Has(other Capability) bool {
	return c&other != 0
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range capabilityNames {
		if c&n.cap != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCapability maps a name such as "radio_antenna" to its flag.
func ParseCapability(name string) (Capability, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, n := range capabilityNames {
		if n.name == key {
			return n.cap, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", name)
}

// ParseCapabilities ORs together every named capability.
func ParseCapabilities(names []string) (Capability, error) {
	var out Capability
	for _, name := range names {
		c, err := ParseCapability(name)
		if err != nil {
			return 0, err
		}
		out |= c
	}
	return out, nil
}
