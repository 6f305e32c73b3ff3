package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	infraRadio "nanodectl/internal/adapter/infrastructure/radio"
	"nanodectl/internal/adapter/linktest"
	"nanodectl/internal/pkg/config"
	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/pkg/rfm69"
	"nanodectl/internal/port"
)

// openRadio initializes the host drivers and brings the transceiver up with
// the configured group, frequency and rate. The caller closes the radio
// before the SPI port.
func openRadio(cfg *config.RadioConfig) (port.Radio, spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	spiPort, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.SPIPort, err)
	}

	conn, err := spiPort.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		spiPort.Close()
		return nil, nil, fmt.Errorf("failed to connect on SPI port: %w", err)
	}

	drv, err := rfm69.New(conn, rfm69.RadioOpts{
		Sync:    rfm69.GroupSync(cfg.Group),
		Freq:    cfg.Frequency,
		Rate:    cfg.Rate,
		Power:   cfg.Power,
		PABoost: cfg.PABoost,
		Logger:  logging.WithComponent("rfm69").Debugf,
	})
	if err != nil {
		spiPort.Close()
		return nil, nil, fmt.Errorf("failed to initialize radio: %w", err)
	}

	return infraRadio.NewAdapter(drv, cfg.Group, cfg.Node, cfg.Destination), spiPort, nil
}

// activityLED opens the activity pin when a board section is present.
func activityLED(cfg *config.Config) port.LED {
	if cfg.Board == nil {
		return nil
	}
	return openLED(cfg.Board.ActivityLED, cfg.Board.LEDActiveLow)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Broadcast an incrementing counter over the radio",
	Run: func(cmd *cobra.Command, args []string) {
		// Load and validate configuration
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			return
		}

		logger := logging.GetLogger()
		logger.WithField("config_file", configFlag).Info("Starting radio link test sender")

		if cfg.Radio == nil {
			logger.Error("Config section 'radio' is required for the link test")
			return
		}

		ctx, cancel := signalContext()
		defer cancel()

		radio, spiPort, err := openRadio(cfg.Radio)
		if err != nil {
			logger.WithError(err).Error("Failed to open radio")
			return
		}
		defer spiPort.Close()
		defer radio.Close()

		sender := linktest.NewSender(radio, activityLED(cfg),
			cfg.Radio.SendInterval.Duration, cfg.Radio.PollInterval.Duration)
		if err := sender.Run(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Link test sender failed")
		}
	},
}

func init() {
	sendCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	if err := sendCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(sendCmd)
}
