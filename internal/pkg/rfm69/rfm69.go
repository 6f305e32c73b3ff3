// Package rfm69 drives a HopeRF RFM69 radio module (Semtech SX1231 chip)
// attached to an SPI port.
//
// The driver operates the chip in FSK variable-length packet mode and polls
// the IRQ flag registers instead of requiring an interrupt line, which keeps
// it usable on boards where DIO0 is not wired up. Packets are limited to the
// 66 bytes that fit into the FIFO, so payloads must be 65 bytes or less,
// leaving one byte for the length prefix.
//
// The chip is configured without address filtering and with CRC auto-clear
// disabled: every packet on the configured sync bytes is delivered, and CRC
// failures are reported through the packet's CrcOK flag rather than being
// dropped silently. Callers decide what to discard.
//
// Methods are not safe for concurrent use. The intended usage is a single
// goroutine owning the radio, alternating between Receive polls and
// Send/WaitSent pairs.
package rfm69

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/spi"
)

// Radio represents an RFM69 module on an SPI connection.
type Radio struct {
	conn    spi.Conn
	mode    byte
	paBoost bool
	power   byte
	rate    uint32
	log     LogPrintf
}

// RadioOpts contains options used when initializing a Radio.
type RadioOpts struct {
	Sync    []byte    // RF sync bytes, 1..8 bytes
	Freq    uint32    // center frequency in Hz, kHz, or MHz
	Rate    uint32    // data bitrate in bits per second, must exist in Rates
	Power   byte      // TX output power in dBm
	PABoost bool      // true: use PA1+PA2, false: use PA0
	Logger  LogPrintf // function to use for logging, nil disables
}

// LogPrintf is a function used by the driver to print debug info.
type LogPrintf func(format string, v ...interface{})

// Rate describes the chip configuration to achieve a specific bit rate.
type Rate struct {
	Fdev    int  // TX frequency deviation in Hz
	Shaping byte // 0:none, 1:gaussian BT=1, 2:gaussian BT=0.5, 3:gaussian BT=0.3
	RxBw    byte // value for the RxBw register (0x19)
	AfcBw   byte // value for the AfcBw register (0x1A)
}

// Rates is the table of supported bit rates and their corresponding register
// settings, keyed by the bit rate in bits per second.
var Rates = map[uint32]Rate{
	49230: {45000, 0, 0x4A, 0x42},  // JeeLabs standard for rfm69 (RxBw=100, AfcBw=125)
	49231: {180000, 0, 0x49, 0x49}, // JeeLabs with rf12b compatibility
	50000: {90000, 0, 0x42, 0x42},  // nice round number
}

// Packet is a received packet with reception stats.
type Packet struct {
	Payload []byte    // payload as transmitted, excluding length byte and CRC
	Rssi    int       // signal strength in dBm for the current packet
	CrcOK   bool      // whether the hardware CRC check passed
	At      time.Time // time the packet was pulled out of the FIFO
}

// New initializes an RFM69 radio given an SPI connection and leaves it in
// standby mode. The connection must be configured for SPI mode 0.
func New(conn spi.Conn, opts RadioOpts) (*Radio, error) {
	r := &Radio{
		conn:    conn,
		mode:    255,
		paBoost: opts.PABoost,
		log:     func(format string, v ...interface{}) {},
	}
	if opts.Logger != nil {
		r.log = opts.Logger
	}

	// Synchronize communication with the chip by writing a pattern into the
	// sync value register until it reads back correctly.
	if err := r.syncChip(0xaa); err != nil {
		return nil, err
	}
	if err := r.syncChip(0x55); err != nil {
		return nil, err
	}

	if err := r.setMode(MODE_SLEEP); err != nil {
		return nil, err
	}
	if err := r.setMode(MODE_STANDBY); err != nil {
		return nil, err
	}

	version, err := r.readReg(REG_VERSION)
	if err != nil {
		return nil, err
	}
	r.log("chip version %#x", version)

	for i := 0; i < len(configRegs)-1; i += 2 {
		if err := r.writeReg(configRegs[i], configRegs[i+1]); err != nil {
			return nil, err
		}
	}
	r.mode = 255 // configRegs touched the op mode behind setMode's back
	if err := r.setMode(MODE_STANDBY); err != nil {
		return nil, err
	}

	if err := r.SetRate(opts.Rate); err != nil {
		return nil, err
	}
	if err := r.SetFrequency(opts.Freq); err != nil {
		return nil, err
	}
	if err := r.SetPower(opts.Power); err != nil {
		return nil, err
	}

	if len(opts.Sync) < 1 || len(opts.Sync) > 8 {
		return nil, fmt.Errorf("rfm69: invalid number of sync bytes: %d, must be 1..8", len(opts.Sync))
	}
	syncCfg := make([]byte, len(opts.Sync)+1)
	syncCfg[0] = byte(0x80 + ((len(opts.Sync) - 1) << 3))
	copy(syncCfg[1:], opts.Sync)
	if err := r.writeReg(REG_SYNCCONFIG, syncCfg...); err != nil {
		return nil, err
	}

	return r, nil
}

// syncChip writes pattern into the sync value register and reads it back,
// retrying a few times. A mismatch after all retries means the chip is not
// responding on the SPI bus.
func (r *Radio) syncChip(pattern byte) error {
	for n := 10; n > 0; n-- {
		if err := r.writeReg(REG_SYNCVALUE1, pattern); err != nil {
			return err
		}
		v, err := r.readReg(REG_SYNCVALUE1)
		if err != nil {
			return err
		}
		if v == pattern {
			return nil
		}
	}
	return errors.New("rfm69: cannot sync with chip")
}

// SetFrequency changes the center frequency at which the radio transmits and
// receives. The frequency can be specified at any scale (Hz, kHz, MHz); values
// below 100 MHz are multiplied by 10 until they are in range. The value itself
// is not checked, an invalid frequency simply makes the radio deaf.
func (r *Radio) SetFrequency(freq uint32) error {
	for freq > 0 && freq < 100000000 {
		freq = freq * 10
	}
	r.log("SetFrequency: %dHz", freq)

	mode := r.mode
	if err := r.setMode(MODE_STANDBY); err != nil {
		return err
	}
	// Frequency steps are in units of (32,000,000 >> 19) = 61.03515625 Hz.
	// Use multiples of 64 to avoid multi-precision arithmetic, i.e. 3906.25 Hz.
	// The lower 6 bits of the calculated factor are then always 0, which is
	// still well below the radio's 32 MHz crystal accuracy.
	frf := (freq << 2) / (32000000 >> 11)
	if err := r.writeReg(REG_FRFMSB, byte(frf>>10), byte(frf>>2), byte(frf<<6)); err != nil {
		return err
	}
	return r.setMode(mode)
}

// SetRate sets the bit rate, frequency deviation and bandwidths according to
// the Rates table.
func (r *Radio) SetRate(rate uint32) error {
	params, found := Rates[rate]
	if !found {
		return fmt.Errorf("rfm69: unsupported bit rate %d", rate)
	}
	r.log("SetRate %dbps, Fdev:%dHz, RxBw:%#x, AfcBw:%#x", rate,
		params.Fdev, params.RxBw, params.AfcBw)

	r.rate = rate
	mode := r.mode
	if err := r.setMode(MODE_STANDBY); err != nil {
		return err
	}
	// Program the bit rate, assuming a 32MHz crystal.
	rateVal := (32000000 + rate/2) / rate
	if err := r.writeReg(REG_BITRATEMSB, byte(rateVal>>8), byte(rateVal&0xff)); err != nil {
		return err
	}
	// Program the frequency deviation.
	var fStep float64 = 32000000.0 / 524288 // 32MHz osc / 2^19 = 61.03515625 Hz
	fdevVal := uint32((float64(params.Fdev) + fStep/2) / fStep)
	if err := r.writeReg(REG_FDEVMSB, byte(fdevVal>>8), byte(fdevVal&0xFF)); err != nil {
		return err
	}
	// Program the data modulation register.
	if err := r.writeReg(REG_DATAMODUL, params.Shaping&0x3); err != nil {
		return err
	}
	// Program RX bandwidth and AFC bandwidth.
	if err := r.writeReg(REG_RXBW, params.RxBw, params.AfcBw); err != nil {
		return err
	}
	// Program the AFC offset to be 10% of Fdev.
	if err := r.writeReg(REG_TESTAFC, byte(params.Fdev/10/488)); err != nil {
		return err
	}
	afcCtrl, err := r.readReg(REG_AFCCTRL)
	if err != nil {
		return err
	}
	if afcCtrl != 0x00 {
		// The FS mode requirement for writing REG_AFCCTRL is undocumented.
		if err := r.setMode(MODE_FS); err != nil {
			return err
		}
		if err := r.writeReg(REG_AFCCTRL, 0x00); err != nil {
			return err
		}
	}
	return r.setMode(mode)
}

// SetPower configures the radio for the specified output power in dBm.
func (r *Radio) SetPower(dbm byte) error {
	mode := r.mode
	if err := r.setMode(MODE_STANDBY); err != nil {
		return err
	}

	var err error
	if r.paBoost {
		// rfm69H with external antenna switch.
		if dbm > 20 {
			dbm = 20
		}
		switch {
		case dbm <= 13:
			err = r.writeReg(REG_PALEVEL, 0x40+18+dbm) // PA1
		case dbm <= 17:
			err = r.writeReg(REG_PALEVEL, 0x60+14+dbm) // PA1+PA2
		default:
			err = r.writeReg(REG_PALEVEL, 0x60+11+dbm) // PA1+PA2+HIGH_POWER
		}
	} else {
		// rfm69 without external antenna switch.
		if dbm > 13 {
			dbm = 13
		}
		err = r.writeReg(REG_PALEVEL, 0x80+18+dbm) // PA0
	}
	if err != nil {
		return err
	}
	if err := r.writeReg(REG_TESTPA1, 0x55); err != nil {
		return err
	}
	if err := r.writeReg(REG_TESTPA2, 0x70); err != nil {
		return err
	}
	r.log("SetPower %ddBm", dbm)
	r.power = dbm

	return r.setMode(mode)
}

// Receive polls the radio for a received packet. It returns (nil, nil) when
// no complete packet is waiting in the FIFO.
func (r *Radio) Receive() (*Packet, error) {
	if r.mode != MODE_RECEIVE {
		if err := r.setMode(MODE_RECEIVE); err != nil {
			return nil, err
		}
	}

	irq2, err := r.readReg(REG_IRQFLAGS2)
	if err != nil {
		return nil, err
	}
	if irq2&IRQ2_PAYLOADREADY == 0 {
		// Restart reception if the receiver latched onto noise and is stuck
		// waiting for a sync match that never comes.
		irq1, err := r.readReg(REG_IRQFLAGS1)
		if err != nil {
			return nil, err
		}
		if irq1&IRQ1_TIMEOUT != 0 {
			r.log("rx restart")
			if err := r.writeReg(REG_PKTCONFIG2, 0x16); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	crcOK := irq2&IRQ2_CRCOK != 0
	rssiRaw, err := r.readReg(REG_RSSIVALUE)
	if err != nil {
		return nil, err
	}

	buf, err := r.readFifo()
	if err != nil {
		return nil, err
	}
	length := buf[0]
	if length > 65 {
		r.log("rx packet too long (%d)", length)
		return nil, nil
	}
	return &Packet{
		Payload: buf[1 : 1+length],
		Rssi:    0 - int(rssiRaw)/2,
		CrcOK:   crcOK,
		At:      time.Now(),
	}, nil
}

// ChannelClear reports whether the receiver is ready and no reception is in
// progress, i.e. neither the RSSI threshold has been crossed nor a sync match
// found. The radio is switched to receive mode if it is not there already.
func (r *Radio) ChannelClear() (bool, error) {
	if r.mode != MODE_RECEIVE {
		if err := r.setMode(MODE_RECEIVE); err != nil {
			return false, err
		}
	}
	irq1, err := r.readReg(REG_IRQFLAGS1)
	if err != nil {
		return false, err
	}
	if irq1&IRQ1_RXREADY == 0 {
		return false, nil
	}
	return irq1&(IRQ1_RSSI|IRQ1_SYNCMATCH) == 0, nil
}

// Send pushes one packet into the FIFO and starts transmitting it. WaitSent
// must be called afterwards to wait for completion.
func (r *Radio) Send(payload []byte) error {
	if len(payload) == 0 || len(payload) > 65 {
		return fmt.Errorf("rfm69: invalid payload length %d, must be 1..65", len(payload))
	}
	if err := r.setMode(MODE_FS); err != nil {
		return err
	}
	buf := make([]byte, len(payload)+1)
	buf[0] = byte(len(payload))
	copy(buf[1:], payload)
	if err := r.writeReg(REG_FIFO, buf...); err != nil {
		return err
	}
	return r.setMode(MODE_TRANSMIT)
}

// WaitSent blocks until the packet handed to Send has been fully transmitted,
// then drops the radio back into standby. It polls the IRQ flags once per
// millisecond; at 49kbps a full 66-byte packet takes around 12ms on air.
func (r *Radio) WaitSent(ctx context.Context) error {
	for {
		irq2, err := r.readReg(REG_IRQFLAGS2)
		if err != nil {
			return err
		}
		if irq2&IRQ2_PACKETSENT != 0 {
			return r.setMode(MODE_STANDBY)
		}
		select {
		case <-ctx.Done():
			if err := r.setMode(MODE_STANDBY); err != nil {
				r.log("standby after cancelled send: %v", err)
			}
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// Sleep drops the radio into its lowest power mode.
func (r *Radio) Sleep() error {
	return r.setMode(MODE_SLEEP)
}

// Wakeup brings the radio out of sleep into receive mode.
func (r *Radio) Wakeup() error {
	return r.setMode(MODE_RECEIVE)
}

// Close puts the chip to sleep. The SPI port itself belongs to the caller.
func (r *Radio) Close() error {
	return r.setMode(MODE_SLEEP)
}

// setMode changes the radio's operating mode and waits for the new mode to be
// reached.
func (r *Radio) setMode(mode byte) error {
	mode = mode & 0x1c
	if r.mode == mode {
		return nil
	}

	// The high-power PA test registers must be engaged for TX above 17dBm and
	// must never be left engaged while receiving.
	if r.power > 17 {
		switch mode {
		case MODE_TRANSMIT:
			if err := r.writeReg(REG_TESTPA1, 0x5D); err != nil {
				return err
			}
			if err := r.writeReg(REG_TESTPA2, 0x7C); err != nil {
				return err
			}
		case MODE_RECEIVE:
			if err := r.writeReg(REG_TESTPA1, 0x55); err != nil {
				return err
			}
			if err := r.writeReg(REG_TESTPA2, 0x70); err != nil {
				return err
			}
		}
	}

	if err := r.writeReg(REG_OPMODE, mode); err != nil {
		return err
	}

	for start := time.Now(); time.Since(start) < 100*time.Millisecond; {
		val, err := r.readReg(REG_IRQFLAGS1)
		if err != nil {
			return err
		}
		if val&IRQ1_MODEREADY != 0 {
			r.mode = mode
			return nil
		}
	}
	return fmt.Errorf("rfm69: timeout switching to mode %#x", mode)
}

// writeReg writes one or multiple registers starting at addr, the chip
// auto-increments except for the FIFO register.
func (r *Radio) writeReg(addr byte, data ...byte) error {
	wBuf := make([]byte, len(data)+1)
	rBuf := make([]byte, len(data)+1)
	wBuf[0] = addr | 0x80
	copy(wBuf[1:], data)
	if err := r.conn.Tx(wBuf, rBuf); err != nil {
		return fmt.Errorf("rfm69: write reg %#x: %w", addr, err)
	}
	return nil
}

// readReg reads one register and returns its value.
func (r *Radio) readReg(addr byte) (byte, error) {
	var buf [2]byte
	if err := r.conn.Tx([]byte{addr & 0x7f, 0}, buf[:]); err != nil {
		return 0, fmt.Errorf("rfm69: read reg %#x: %w", addr, err)
	}
	return buf[1], nil
}

// readFifo empties the FIFO in a single transaction. Reading the whole thing
// is faster than first looking at the length byte.
func (r *Radio) readFifo() ([]byte, error) {
	var wBuf, rBuf [67]byte
	wBuf[0] = REG_FIFO
	if err := r.conn.Tx(wBuf[:], rBuf[:]); err != nil {
		return nil, fmt.Errorf("rfm69: read fifo: %w", err)
	}
	return rBuf[1:], nil
}
