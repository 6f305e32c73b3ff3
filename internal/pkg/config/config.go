package config

import (
	"fmt"
	"os"
	"time"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/pkg/rfm69"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" or "1m" parse directly
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// BoardConfig describes the I2C devices and LEDs fitted on the board
type BoardConfig struct {
	I2CBus       string `yaml:"i2c_bus,omitempty"` // empty selects the first available bus
	RTCAddr      uint16 `yaml:"rtc_addr,omitempty"`
	EEPROMAddr   uint16 `yaml:"eeprom_addr,omitempty"`
	MacROMAddr   uint16 `yaml:"mac_rom_addr,omitempty"`
	StatusLED    string `yaml:"status_led,omitempty"`   // gpio pin name, empty disables
	ActivityLED  string `yaml:"activity_led,omitempty"` // gpio pin name, empty disables
	LEDActiveLow bool   `yaml:"led_active_low,omitempty"`
}

// RadioConfig describes the SPI-attached radio and its framing parameters
type RadioConfig struct {
	SPIPort      string   `yaml:"spi_port,omitempty"` // empty selects the first available port
	Group        uint8    `yaml:"group,omitempty"`
	Node         uint8    `yaml:"node"`
	Destination  uint8    `yaml:"destination,omitempty"` // 0 broadcasts
	Frequency    uint32   `yaml:"frequency,omitempty"`   // Hz
	Rate         uint32   `yaml:"rate,omitempty"`        // bits/sec
	Power        uint8    `yaml:"power,omitempty"`       // dBm
	PABoost      bool     `yaml:"pa_boost,omitempty"`
	SendInterval Duration `yaml:"send_interval,omitempty"`
	PollInterval Duration `yaml:"poll_interval,omitempty"`
}

// NetworkConfig describes the interface brought up after provisioning
type NetworkConfig struct {
	Interface string   `yaml:"interface"`
	Timeout   Duration `yaml:"timeout,omitempty"`
	Apply     bool     `yaml:"apply,omitempty"` // apply the lease via netlink when set
}

// PublishConfig describes the optional MQTT sink for received readings
type PublishConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Config represents the main configuration structure
type Config struct {
	Logging logging.LogConfig `yaml:"logging"`
	Board   *BoardConfig      `yaml:"board,omitempty"`
	Radio   *RadioConfig      `yaml:"radio,omitempty"`
	Network *NetworkConfig    `yaml:"network,omitempty"`
	Publish *PublishConfig    `yaml:"publish,omitempty"`
}

// Load loads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	return &config, nil
}

// applyDefaults fills in defaults for values the file omits
func (c *Config) applyDefaults() {
	if c.Board != nil {
		if c.Board.RTCAddr == 0 {
			c.Board.RTCAddr = 0x6f
		}
		if c.Board.EEPROMAddr == 0 {
			c.Board.EEPROMAddr = 0x57
		}
		if c.Board.MacROMAddr == 0 {
			c.Board.MacROMAddr = 0x50
		}
	}

	if c.Radio != nil {
		if c.Radio.Group == 0 {
			c.Radio.Group = 212
		}
		if c.Radio.Frequency == 0 {
			c.Radio.Frequency = 868000000
		}
		if c.Radio.Rate == 0 {
			c.Radio.Rate = 49230
		}
		if c.Radio.Power == 0 {
			c.Radio.Power = 10
		}
		if c.Radio.SendInterval.Duration == 0 {
			c.Radio.SendInterval.Duration = time.Second
		}
		if c.Radio.PollInterval.Duration == 0 {
			c.Radio.PollInterval.Duration = 2 * time.Millisecond
		}
	}

	if c.Network != nil && c.Network.Timeout.Duration == 0 {
		c.Network.Timeout.Duration = 15 * time.Second
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Board != nil {
		if err := validateBoardConfig(c.Board); err != nil {
			return err
		}
	}

	if c.Radio != nil {
		if err := validateRadioConfig(c.Radio); err != nil {
			return err
		}
	}

	if c.Network != nil && c.Network.Interface == "" {
		return fmt.Errorf("network: interface name is required")
	}

	if c.Publish != nil {
		if c.Publish.Broker == "" {
			return fmt.Errorf("publish: broker is required")
		}
		if c.Publish.Topic == "" {
			return fmt.Errorf("publish: topic is required")
		}
	}

	return nil
}

func validateBoardConfig(board *BoardConfig) error {
	addrs := map[string]uint16{
		"rtc_addr":     board.RTCAddr,
		"eeprom_addr":  board.EEPROMAddr,
		"mac_rom_addr": board.MacROMAddr,
	}
	for name, addr := range addrs {
		if addr > 0x7f {
			return fmt.Errorf("board: %s 0x%x is not a valid 7-bit I2C address", name, addr)
		}
	}
	return nil
}

func validateRadioConfig(radio *RadioConfig) error {
	if radio.Node == 0 || radio.Node > 63 {
		return fmt.Errorf("radio: node id %d must be in 1..63", radio.Node)
	}
	if radio.Destination > 63 {
		return fmt.Errorf("radio: destination id %d must be in 0..63", radio.Destination)
	}
	if _, ok := rfm69.Rates[radio.Rate]; !ok {
		return fmt.Errorf("radio: unsupported rate %d", radio.Rate)
	}
	return nil
}
