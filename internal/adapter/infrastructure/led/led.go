// Package led provides the status LED adapter implementation.
package led

import (
	"fmt"

	"nanodectl/internal/port"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PinAdapter is an adapter that implements the LED port on a single GPIO pin
// using the periph.io GPIO registry.
type PinAdapter struct {
	pin       gpio.PinIO
	activeLow bool
}

// Ensure PinAdapter implements the LED port
var _ port.LED = (*PinAdapter)(nil)

// NewPinAdapter looks the pin up by name and switches the LED off. Set
// activeLow for LEDs wired between the pin and the supply rail.
func NewPinAdapter(name string, activeLow bool) (*PinAdapter, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("failed to find GPIO pin %q", name)
	}

	adapter := &PinAdapter{
		pin:       pin,
		activeLow: activeLow,
	}
	if err := adapter.Set(false); err != nil {
		return nil, err
	}
	return adapter, nil
}

// Set switches the LED on or off.
func (a *PinAdapter) Set(on bool) error {
	level := gpio.Level(on != a.activeLow)
	if err := a.pin.Out(level); err != nil {
		return fmt.Errorf("failed to drive GPIO pin %s: %w", a.pin.Name(), err)
	}
	return nil
}
