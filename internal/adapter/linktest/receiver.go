package linktest

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
)

// Receiver listens for counter broadcasts and tracks their progression. It
// implements the LinkTester port.
type Receiver struct {
	radio     port.Radio
	led       port.LED
	publisher port.Publisher
	topic     string
	poll      time.Duration

	last     uint32
	accepted uint64
	missed   uint64
}

// Ensure Receiver implements the LinkTester port
var _ port.LinkTester = (*Receiver)(nil)

// NewReceiver creates the receiving side of the link test. led and publisher
// may be nil to disable blinking and publishing.
func NewReceiver(radio port.Radio, led port.LED, publisher port.Publisher, topic string, poll time.Duration) *Receiver {
	return &Receiver{
		radio:     radio,
		led:       led,
		publisher: publisher,
		topic:     topic,
		poll:      poll,
	}
}

// Run polls the radio for packets until the context is cancelled.
func (r *Receiver) Run(ctx context.Context) error {
	logger := logging.WithComponent("recv")
	logger.Info("Starting link test receiver")
	defer func() {
		logger.WithFields(logrus.Fields{
			"accepted": r.accepted,
			"missed":   r.missed,
		}).Info("Link test receiver stopped")
	}()

	if err := r.radio.Wakeup(); err != nil {
		return fmt.Errorf("failed to wake radio: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pkt, err := r.radio.Receive()
		if err != nil {
			return fmt.Errorf("failed to receive: %w", err)
		}
		if pkt != nil {
			r.accept(pkt)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// accept applies the acceptance rules: the CRC must pass and the payload must
// be exactly four bytes. Rejected packets leave the tracked counter untouched
// and are only visible at debug level.
func (r *Receiver) accept(pkt *port.RadioPacket) bool {
	logger := logging.WithComponent("recv")

	if !pkt.CrcOK {
		logger.WithField("rssi", pkt.Rssi).Debug("Dropping packet with bad CRC")
		return false
	}
	if len(pkt.Payload) != payloadSize {
		logger.WithField("length", len(pkt.Payload)).Debug("Dropping packet with unexpected length")
		return false
	}

	value := binary.LittleEndian.Uint32(pkt.Payload)
	fields := logrus.Fields{
		"counter": value,
		"node":    pkt.Src,
		"rssi":    pkt.Rssi,
	}
	if r.accepted > 0 && value > r.last+1 {
		gap := value - r.last - 1
		r.missed += uint64(gap)
		fields["missed"] = gap
	}
	r.last = value
	r.accepted++

	logger.WithFields(fields).Info("Received counter")
	flashLED(r.led)

	if r.publisher != nil {
		reading := Reading{Counter: value, Node: pkt.Src, Rssi: pkt.Rssi, At: time.Now()}
		if err := r.publisher.Publish(r.topic, reading); err != nil {
			logger.WithError(err).Warn("Failed to publish reading")
		}
	}
	return true
}
