// Package i2c provides the I2C device adapter implementation.
package i2c

import (
	"fmt"

	"nanodectl/internal/port"

	i2cconn "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// DeviceAdapter is an adapter that implements the I2CDevice port for one
// device address using the periph.io I2C stack. Both EEPROM-style memories
// and register-mapped devices use the same offset-then-data framing.
type DeviceAdapter struct {
	dev *i2cconn.Dev
}

// Ensure DeviceAdapter implements the I2CDevice port
var _ port.I2CDevice = (*DeviceAdapter)(nil)

// OpenBus opens an I2C bus by name. An empty name selects the first available
// bus. The caller owns the returned bus and closes it when done.
func OpenBus(name string) (i2cconn.BusCloser, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", name, err)
	}
	return bus, nil
}

// NewDeviceAdapter creates an adapter for the device at addr on the bus.
func NewDeviceAdapter(bus i2cconn.Bus, addr uint16) *DeviceAdapter {
	return &DeviceAdapter{
		dev: &i2cconn.Dev{Bus: bus, Addr: addr},
	}
}

// ReadAt fills buf starting at the given register or memory offset.
func (d *DeviceAdapter) ReadAt(offset byte, buf []byte) error {
	if err := d.dev.Tx([]byte{offset}, buf); err != nil {
		return fmt.Errorf("failed to read %d bytes at %#x from device %#x: %w",
			len(buf), offset, d.dev.Addr, err)
	}
	return nil
}

// WriteAt writes data starting at the given register or memory offset.
func (d *DeviceAdapter) WriteAt(offset byte, data ...byte) error {
	w := make([]byte, len(data)+1)
	w[0] = offset
	copy(w[1:], data)
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("failed to write %d bytes at %#x to device %#x: %w",
			len(data), offset, d.dev.Addr, err)
	}
	return nil
}
