package port

import "context"

// RadioPacket is a decoded packet received from the radio.
type RadioPacket struct {
	Payload []byte // payload with the frame header stripped
	Src     byte   // source node id
	Dst     byte   // destination node id, 0 for broadcast
	Rssi    int    // signal strength in dBm
	CrcOK   bool   // whether the hardware CRC check passed
}

// Radio is a port for a packet radio.
// This interface abstracts the radio driver and the frame encoding so the
// link test logic can be exercised without hardware.
type Radio interface {
	// Receive polls for a received packet, returning (nil, nil) when none
	// is waiting
	Receive() (*RadioPacket, error)

	// ClearToSend reports whether the channel is currently free to transmit
	ClearToSend() (bool, error)

	// Send starts transmitting a payload to the configured destination
	Send(payload []byte) error

	// WaitSent blocks until the packet handed to Send has left the air
	WaitSent(ctx context.Context) error

	// Sleep puts the radio into its lowest power mode
	Sleep() error

	// Wakeup brings the radio out of sleep and back to listening
	Wakeup() error

	// Close shuts the radio down
	Close() error
}
