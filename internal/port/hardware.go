package port

// I2CDevice is a port for one device on an I2C bus.
// This interface abstracts offset-addressed register and memory access, which
// covers both RTC control registers and EEPROM-style memories.
type I2CDevice interface {
	// ReadAt fills buf starting at the given register or memory offset
	ReadAt(offset byte, buf []byte) error

	// WriteAt writes data starting at the given register or memory offset
	WriteAt(offset byte, data ...byte) error
}

// LED is a port for a status LED.
type LED interface {
	// Set switches the LED on or off
	Set(on bool) error
}
