package police

import "github.com/undergroundpolice/server/internal/host"

// prohibitedUnderground are the self-sufficient emitters and weapons that
// may not operate buried in terrain.
const prohibitedUnderground = host.CapBeacon |
	host.CapLaserAntenna |
	host.CapRadioAntenna |
	host.CapUserControllableWeapon |
	host.CapDecoy

// IsProhibitedUnderground reports whether body advertises any prohibited
// capability. A nil body is never prohibited.
func IsProhibitedUnderground(body host.Body) bool {
	if body == nil {
		return false
	}
	return body.Capabilities().Has(prohibitedUnderground)
}
