// Package linktest implements the two roles of the radio link test: a sender
// that broadcasts an incrementing counter and a receiver that tracks the
// counter and reports gaps.
package linktest

import (
	"time"

	"nanodectl/internal/port"
)

// payloadSize is the wire size of the counter payload, a little-endian
// uint32. Packets of any other length are rejected by the receiver.
const payloadSize = 4

// Reading is the record published for each accepted packet.
type Reading struct {
	Counter uint32    `json:"counter"`
	Node    byte      `json:"node"`
	Rssi    int       `json:"rssi"`
	At      time.Time `json:"at"`
}

// flashLED gives a short visible blink per event. A nil led disables the
// blink; drive errors are ignored.
func flashLED(led port.LED) {
	if led == nil {
		return
	}
	if err := led.Set(true); err != nil {
		return
	}
	time.Sleep(50 * time.Millisecond)
	_ = led.Set(false)
}
