//go:build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("ValidConfig", func(t *testing.T) {
		configContent := `logging:
  level: info
  format: simple

board:
  i2c_bus: "1"
  status_led: GPIO17
  activity_led: GPIO27
  led_active_low: true

radio:
  spi_port: SPI0.0
  group: 100
  node: 22
  destination: 1
  frequency: 868000000
  rate: 49230
  power: 13
  send_interval: 2s
  poll_interval: 1ms

network:
  interface: eth0
  timeout: 30s
  apply: true

publish:
  broker: tcp://localhost:1883
  topic: nanode/counter
  client_id: nanodectl
`
		configFile := filepath.Join(tempDir, "valid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "simple", config.Logging.Format)

		require.NotNil(t, config.Board)
		assert.Equal(t, "1", config.Board.I2CBus)
		assert.Equal(t, uint16(0x6f), config.Board.RTCAddr)
		assert.Equal(t, uint16(0x57), config.Board.EEPROMAddr)
		assert.Equal(t, uint16(0x50), config.Board.MacROMAddr)
		assert.Equal(t, "GPIO17", config.Board.StatusLED)
		assert.Equal(t, "GPIO27", config.Board.ActivityLED)
		assert.True(t, config.Board.LEDActiveLow)

		require.NotNil(t, config.Radio)
		assert.Equal(t, "SPI0.0", config.Radio.SPIPort)
		assert.Equal(t, uint8(100), config.Radio.Group)
		assert.Equal(t, uint8(22), config.Radio.Node)
		assert.Equal(t, uint8(1), config.Radio.Destination)
		assert.Equal(t, uint32(868000000), config.Radio.Frequency)
		assert.Equal(t, uint32(49230), config.Radio.Rate)
		assert.Equal(t, uint8(13), config.Radio.Power)
		assert.Equal(t, 2*time.Second, config.Radio.SendInterval.Duration)
		assert.Equal(t, time.Millisecond, config.Radio.PollInterval.Duration)

		require.NotNil(t, config.Network)
		assert.Equal(t, "eth0", config.Network.Interface)
		assert.Equal(t, 30*time.Second, config.Network.Timeout.Duration)
		assert.True(t, config.Network.Apply)

		require.NotNil(t, config.Publish)
		assert.Equal(t, "tcp://localhost:1883", config.Publish.Broker)
		assert.Equal(t, "nanode/counter", config.Publish.Topic)
		assert.Equal(t, "nanodectl", config.Publish.ClientID)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		configContent := `logging:
  level: debug
  format: text

board: {}

radio:
  node: 22

network:
  interface: eth0
`
		configFile := filepath.Join(tempDir, "defaults.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configFile)
		require.NoError(t, err)

		require.NotNil(t, config.Board)
		assert.Equal(t, uint16(0x6f), config.Board.RTCAddr)
		assert.Equal(t, uint16(0x57), config.Board.EEPROMAddr)
		assert.Equal(t, uint16(0x50), config.Board.MacROMAddr)

		require.NotNil(t, config.Radio)
		assert.Equal(t, uint8(212), config.Radio.Group)
		assert.Equal(t, uint8(0), config.Radio.Destination)
		assert.Equal(t, uint32(868000000), config.Radio.Frequency)
		assert.Equal(t, uint32(49230), config.Radio.Rate)
		assert.Equal(t, uint8(10), config.Radio.Power)
		assert.Equal(t, time.Second, config.Radio.SendInterval.Duration)
		assert.Equal(t, 2*time.Millisecond, config.Radio.PollInterval.Duration)

		require.NotNil(t, config.Network)
		assert.Equal(t, 15*time.Second, config.Network.Timeout.Duration)
	})

	t.Run("OmittedSections", func(t *testing.T) {
		configContent := `logging:
  level: info
  format: json
`
		configFile := filepath.Join(tempDir, "minimal.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configFile)
		require.NoError(t, err)
		assert.Nil(t, config.Board)
		assert.Nil(t, config.Radio)
		assert.Nil(t, config.Network)
		assert.Nil(t, config.Publish)
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		configContent := `invalid: yaml: content: [
`
		configFile := filepath.Join(tempDir, "invalid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		configContent := `radio:
  node: 22
  send_interval: soon
`
		configFile := filepath.Join(tempDir, "duration.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})
}

func TestConfig_Validate(t *testing.T) {
	validRadio := func() *RadioConfig {
		return &RadioConfig{
			Group:       212,
			Node:        22,
			Destination: 0,
			Frequency:   868000000,
			Rate:        49230,
		}
	}

	t.Run("ValidConfig", func(t *testing.T) {
		config := &Config{
			Board: &BoardConfig{
				RTCAddr:    0x6f,
				EEPROMAddr: 0x57,
				MacROMAddr: 0x50,
			},
			Radio:   validRadio(),
			Network: &NetworkConfig{Interface: "eth0"},
			Publish: &PublishConfig{Broker: "tcp://localhost:1883", Topic: "nanode/counter"},
		}

		err := config.Validate()
		assert.NoError(t, err)
	})

	t.Run("EmptyConfigIsValid", func(t *testing.T) {
		config := &Config{}

		err := config.Validate()
		assert.NoError(t, err)
	})

	t.Run("BoardAddressOutOfRange", func(t *testing.T) {
		config := &Config{
			Board: &BoardConfig{
				RTCAddr:    0x6f,
				EEPROMAddr: 0x157,
				MacROMAddr: 0x50,
			},
		}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid 7-bit I2C address")
	})

	t.Run("RadioNodeZero", func(t *testing.T) {
		radio := validRadio()
		radio.Node = 0
		config := &Config{Radio: radio}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "node id")
	})

	t.Run("RadioNodeTooLarge", func(t *testing.T) {
		radio := validRadio()
		radio.Node = 64
		config := &Config{Radio: radio}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "node id")
	})

	t.Run("RadioDestinationTooLarge", func(t *testing.T) {
		radio := validRadio()
		radio.Destination = 64
		config := &Config{Radio: radio}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "destination id")
	})

	t.Run("RadioUnsupportedRate", func(t *testing.T) {
		radio := validRadio()
		radio.Rate = 57600
		config := &Config{Radio: radio}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported rate")
	})

	t.Run("NetworkMissingInterface", func(t *testing.T) {
		config := &Config{Network: &NetworkConfig{}}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "interface name is required")
	})

	t.Run("PublishMissingBroker", func(t *testing.T) {
		config := &Config{Publish: &PublishConfig{Topic: "nanode/counter"}}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "broker is required")
	})

	t.Run("PublishMissingTopic", func(t *testing.T) {
		config := &Config{Publish: &PublishConfig{Broker: "tcp://localhost:1883"}}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "topic is required")
	})
}
