package linktest

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
)

// Sender periodically broadcasts an incrementing counter. It implements the
// LinkTester port.
type Sender struct {
	radio    port.Radio
	led      port.LED
	interval time.Duration
	poll     time.Duration

	counter       uint32
	prevConfirmed bool
}

// Ensure Sender implements the LinkTester port
var _ port.LinkTester = (*Sender)(nil)

// NewSender creates the sending side of the link test. The counter only
// advances once the previous packet was confirmed sent, so an unconfirmed
// value goes out again on the next interval. led may be nil.
func NewSender(radio port.Radio, led port.LED, interval, poll time.Duration) *Sender {
	return &Sender{
		radio:         radio,
		led:           led,
		interval:      interval,
		poll:          poll,
		prevConfirmed: true,
	}
}

// Run broadcasts one counter value per interval until the context is
// cancelled. The radio sleeps between sends.
func (s *Sender) Run(ctx context.Context) error {
	logger := logging.WithComponent("send")
	logger.WithField("interval", s.interval.String()).Info("Starting link test sender")
	defer func() {
		logger.WithField("counter", s.counter).Info("Link test sender stopped")
	}()

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Doze between sends like the battery powered original.
		if err := s.radio.Sleep(); err != nil {
			return fmt.Errorf("failed to sleep radio: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.radio.Wakeup(); err != nil {
			return fmt.Errorf("failed to wake radio: %w", err)
		}
		if err := s.waitClear(ctx); err != nil {
			return err
		}

		if s.prevConfirmed {
			s.counter++
		}
		var payload [payloadSize]byte
		binary.LittleEndian.PutUint32(payload[:], s.counter)

		s.prevConfirmed = false
		if err := s.radio.Send(payload[:]); err != nil {
			return fmt.Errorf("failed to send counter %d: %w", s.counter, err)
		}
		if err := s.radio.WaitSent(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The counter stays put and goes out again next interval.
			logger.WithError(err).WithField("counter", s.counter).Error("Send not confirmed")
		} else {
			s.prevConfirmed = true
			logger.WithField("counter", s.counter).Info("Sent counter")
			flashLED(s.led)
		}

		timer.Reset(s.interval)
	}
}

// waitClear blocks until the channel is quiet, draining any packet that
// arrives in the meantime. There is no upper bound: on a channel that never
// goes quiet, cancellation is the only way out.
func (s *Sender) waitClear(ctx context.Context) error {
	logger := logging.WithComponent("send")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cts, err := s.radio.ClearToSend()
		if err != nil {
			return fmt.Errorf("failed to check channel: %w", err)
		}
		if cts {
			return nil
		}

		// A reception may be in progress, pull it out of the way.
		pkt, err := s.radio.Receive()
		if err != nil {
			return fmt.Errorf("failed to drain receiver: %w", err)
		}
		if pkt != nil {
			logger.WithField("node", pkt.Src).Debug("Drained packet while waiting to send")
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.poll):
		}
	}
}
