//go:build unit

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacAddress_Classification(t *testing.T) {
	tests := []struct {
		name   string
		mac    MacAddress
		unset  bool
		blank  bool
		allFF  bool
		usable bool
	}{
		{
			name:   "ProvisionedAddress",
			mac:    MacAddress{0x00, 0x04, 0xA3, 0x12, 0x34, 0x56},
			unset:  false,
			blank:  false,
			allFF:  false,
			usable: true,
		},
		{
			name:   "ErasedSlot",
			mac:    MacAddress{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			unset:  true,
			blank:  false,
			allFF:  true,
			usable: false,
		},
		{
			name:   "NoChipFitted",
			mac:    MacAddress{},
			unset:  false,
			blank:  true,
			allFF:  false,
			usable: false,
		},
		{
			name: "FirstByteErasedRestGarbage",
			// A partially erased slot still counts as unset but is not
			// the all-FF sentinel.
			mac:    MacAddress{0xFF, 0x12, 0x34, 0x56, 0x78, 0x9A},
			unset:  true,
			blank:  false,
			allFF:  false,
			usable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unset, tt.mac.IsUnset())
			assert.Equal(t, tt.blank, tt.mac.IsBlank())
			assert.Equal(t, tt.allFF, tt.mac.IsAllFF())
			assert.Equal(t, tt.usable, tt.mac.Usable())
		})
	}
}

func TestMacAddress_String(t *testing.T) {
	mac := MacAddress{0x00, 0x04, 0xA3, 0x12, 0x34, 0x56}
	assert.Equal(t, "00:04:a3:12:34:56", mac.String())
	assert.Len(t, mac.HardwareAddr(), 6)
}

func TestMacFromBytes(t *testing.T) {
	t.Run("ExactLength", func(t *testing.T) {
		mac := MacFromBytes([]byte{1, 2, 3, 4, 5, 6})
		assert.Equal(t, MacAddress{1, 2, 3, 4, 5, 6}, mac)
	})

	t.Run("TooShort", func(t *testing.T) {
		mac := MacFromBytes([]byte{1, 2, 3})
		assert.True(t, mac.IsBlank())
	})
}

func TestIPv4(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		ip := IPv4{192, 168, 1, 100}
		assert.Equal(t, "192.168.1.100", ip.String())
	})

	t.Run("Zero", func(t *testing.T) {
		assert.True(t, IPv4{}.IsZero())
		assert.False(t, IPv4{10, 0, 0, 1}.IsZero())
	})

	t.Run("FromNetIP", func(t *testing.T) {
		ip := IPv4From([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 10, 1, 2, 3})
		assert.Equal(t, IPv4{10, 1, 2, 3}, ip)
	})
}
