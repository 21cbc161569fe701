package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapabilities(t *testing.T) {
	c, err := ParseCapabilities([]string{"beacon", " Radio_Antenna "})
	require.NoError(t, err)

	assert.True(t, c.Has(CapBeacon))
	assert.True(t, c.Has(CapRadioAntenna))
	assert.False(t, c.Has(CapDecoy))
	assert.Equal(t, "beacon|radio_antenna", c.String())
}

func TestParseCapabilityUnknown(t *testing.T) {
	_, err := ParseCapabilities([]string{"beacon", "warp_drive"})
	assert.ErrorContains(t, err, "warp_drive")
}

func TestCapabilityStringNone(t *testing.T) {
	assert.Equal(t, "none", Capability(0).String())
}
