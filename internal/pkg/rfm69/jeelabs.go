package rfm69

import "fmt"

// GroupSync returns the RF sync bytes for a JeeLabs network group. The first
// sync byte is fixed at 0x2d, the second is the group number.
func GroupSync(group byte) []byte {
	return []byte{0x2d, group}
}

// groupParity returns the two group parity bits in bit positions 7 and 6.
// Bit 7 is the group's b7^b5^b3^b1 and bit 6 the group's b6^b4^b2^b0.
func groupParity(group byte) byte {
	p7 := ((group >> 7) & 1) ^ ((group >> 5) & 1) ^ ((group >> 3) & 1) ^ ((group >> 1) & 1)
	p6 := ((group >> 6) & 1) ^ ((group >> 4) & 1) ^ ((group >> 2) & 1) ^ ((group >> 0) & 1)
	return (p7 << 7) | (p6 << 6)
}

// EncodeFrame encodes a JeeLabs packet.
//
// The JeeLabs native rfm69 frame starts with one byte holding the 6-bit
// destination node id with the two group parity bits on top, followed by one
// byte holding the 6-bit source node id with an ACK request bit in bit 7, and
// then 0..63 bytes of payload. The standard CRC covers the whole frame.
//
// Destination id 0 broadcasts, node id 62 is used by anonymous tx-only nodes,
// and node id 63 denotes a promiscuous receiver.
func EncodeFrame(group, src, dst byte, ack bool, payload []byte) []byte {
	a := byte(0)
	if ack {
		a = 0x80
	}
	frame := make([]byte, len(payload)+2)
	frame[0] = (dst & 0x3f) | groupParity(group)
	frame[1] = (src & 0x3f) | a
	copy(frame[2:], payload)
	return frame
}

// DecodeFrame decodes a JeeLabs packet, see EncodeFrame for the format. The
// returned payload has the header bytes stripped.
func DecodeFrame(group byte, frame []byte) (src, dst byte, ack bool, payload []byte, err error) {
	if len(frame) < 2 {
		err = fmt.Errorf("rfm69: frame too short: %d bytes", len(frame))
		return
	}

	if parity := groupParity(group); frame[0]&0xc0 != parity {
		err = fmt.Errorf("rfm69: bad group parity: got %#x want %#x for group %d",
			frame[0]&0xc0, parity, group)
		return
	}

	dst = frame[0] & 0x3f
	src = frame[1] & 0x3f
	ack = frame[1]&0x80 != 0
	payload = frame[2:]
	return
}
