// Package types defines common types used across the application.
package types

import "net"

// MacAddress is an EUI-48 hardware address as stored in the RTC's
// protected EEPROM block. It is passed by value; the zero value is the
// all-zero sentinel.
type MacAddress [6]byte

var (
	macAllFF = MacAddress{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	macBlank = MacAddress{}
)

// IsUnset reports whether the unique-ID slot reads as never written.
// Erased EEPROM cells read 0xFF, so the first byte decides.
func (m MacAddress) IsUnset() bool {
	return m[0] == 0xFF
}

// IsBlank reports whether the slot reads all-zero, which happens when no
// RTC chip answers on the bus.
func (m MacAddress) IsBlank() bool {
	return m == macBlank
}

// IsAllFF reports whether every byte reads 0xFF.
func (m MacAddress) IsAllFF() bool {
	return m == macAllFF
}

// Usable reports whether the address can seed a DHCP exchange: anything
// other than the all-zero and all-0xFF sentinels qualifies.
func (m MacAddress) Usable() bool {
	return !m.IsBlank() && !m.IsAllFF()
}

// HardwareAddr converts to the net package representation.
func (m MacAddress) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(m[:])
}

// String returns the colon-separated hex form.
func (m MacAddress) String() string {
	return m.HardwareAddr().String()
}

// MacFromBytes copies the first six bytes of b into a MacAddress. Short
// input yields the all-zero sentinel.
func MacFromBytes(b []byte) MacAddress {
	var m MacAddress
	if len(b) >= len(m) {
		copy(m[:], b)
	}
	return m
}
