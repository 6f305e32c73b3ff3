// Package radio provides the packet radio adapter implementation.
package radio

import (
	"context"
	"fmt"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/pkg/rfm69"
	"nanodectl/internal/port"
)

// driver is the subset of the rfm69 driver the adapter depends on.
type driver interface {
	Receive() (*rfm69.Packet, error)
	ChannelClear() (bool, error)
	Send(payload []byte) error
	WaitSent(ctx context.Context) error
	Sleep() error
	Wakeup() error
	Close() error
}

// Adapter implements the Radio port by combining the rfm69 driver with the
// group/node addressing header. Like the driver it wraps, it is meant to be
// driven from a single goroutine.
type Adapter struct {
	drv   driver
	group byte
	node  byte
	dst   byte
}

// Ensure Adapter implements the Radio port
var _ port.Radio = (*Adapter)(nil)

// NewAdapter wraps an initialized rfm69 radio. Outgoing frames are addressed
// from node to dst within group; dst 0 broadcasts.
func NewAdapter(drv *rfm69.Radio, group, node, dst byte) *Adapter {
	return &Adapter{
		drv:   drv,
		group: group,
		node:  node,
		dst:   dst,
	}
}

// Receive polls the driver and decodes the frame header. Packets that fail
// the hardware CRC are passed up undecoded so the caller can count and drop
// them; packets with a corrupt header are dropped here.
func (a *Adapter) Receive() (*port.RadioPacket, error) {
	pkt, err := a.drv.Receive()
	if err != nil {
		return nil, err
	}
	if pkt == nil {
		return nil, nil
	}

	if !pkt.CrcOK {
		// The header bytes are not trustworthy on a CRC failure.
		bad := &port.RadioPacket{Rssi: pkt.Rssi}
		if len(pkt.Payload) >= 2 {
			bad.Payload = pkt.Payload[2:]
		}
		return bad, nil
	}

	src, dst, _, payload, err := rfm69.DecodeFrame(a.group, pkt.Payload)
	if err != nil {
		logging.WithComponent("radio").WithError(err).Debug("Dropping undecodable frame")
		return nil, nil
	}

	return &port.RadioPacket{
		Payload: payload,
		Src:     src,
		Dst:     dst,
		Rssi:    pkt.Rssi,
		CrcOK:   true,
	}, nil
}

// ClearToSend reports whether the channel is currently free.
func (a *Adapter) ClearToSend() (bool, error) {
	return a.drv.ChannelClear()
}

// Send frames payload for the configured destination and starts
// transmitting it. WaitSent confirms completion.
func (a *Adapter) Send(payload []byte) error {
	frame := rfm69.EncodeFrame(a.group, a.node, a.dst, false, payload)
	if err := a.drv.Send(frame); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

// WaitSent blocks until the frame handed to Send has left the air.
func (a *Adapter) WaitSent(ctx context.Context) error {
	return a.drv.WaitSent(ctx)
}

// Sleep puts the radio into its lowest power mode.
func (a *Adapter) Sleep() error {
	return a.drv.Sleep()
}

// Wakeup brings the radio back to receive mode.
func (a *Adapter) Wakeup() error {
	return a.drv.Wakeup()
}

// Close puts the radio to sleep for good.
func (a *Adapter) Close() error {
	return a.drv.Close()
}
