package types

import "net"

// IPv4 is a dotted-quad address stored by value.
type IPv4 [4]byte

// IsZero reports whether the address is still unpopulated.
func (ip IPv4) IsZero() bool {
	return ip == IPv4{}
}

// IP converts to the net package representation.
func (ip IPv4) IP() net.IP {
	return net.IPv4(ip[0], ip[1], ip[2], ip[3])
}

// String returns the dotted decimal form.
func (ip IPv4) String() string {
	return ip.IP().String()
}

// IPv4From copies a net.IP into the value representation. Addresses that
// are not IPv4 yield the zero value.
func IPv4From(ip net.IP) IPv4 {
	var out IPv4
	if v4 := ip.To4(); v4 != nil {
		copy(out[:], v4)
	}
	return out
}

// NetworkConfig is the IPv4 configuration obtained from a DHCP exchange.
// All fields stay zero until a lease is acquired; they are populated in
// one step, never partially.
type NetworkConfig struct {
	Address IPv4 // address assigned to this board
	Netmask IPv4 // subnet mask, /24 when the server sent none
	Gateway IPv4 // default gateway, zero when the server sent none
	DNS     IPv4 // first DNS server, zero when the server sent none
	Server  IPv4 // DHCP server identifier
}
