package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3"

	"nanodectl/internal/adapter/bringup"
	infraDhcp "nanodectl/internal/adapter/infrastructure/dhcp"
	"nanodectl/internal/adapter/infrastructure/file"
	"nanodectl/internal/adapter/infrastructure/i2c"
	"nanodectl/internal/adapter/infrastructure/network"
	"nanodectl/internal/adapter/provision"
	"nanodectl/internal/pkg/logging"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the board MAC address and bring up Ethernet via DHCP",
	Run: func(cmd *cobra.Command, args []string) {
		// Load and validate configuration
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			return
		}

		logger := logging.GetLogger()
		logger.WithField("config_file", configFlag).Info("Starting board provisioning")

		if cfg.Board == nil {
			logger.Error("Config section 'board' is required for provisioning")
			return
		}

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := host.Init(); err != nil {
			logger.WithError(err).Error("Failed to initialize host drivers")
			return
		}

		bus, err := i2c.OpenBus(cfg.Board.I2CBus)
		if err != nil {
			logger.WithError(err).Error("Failed to open I2C bus")
			return
		}
		defer bus.Close()

		statusLED := openLED(cfg.Board.StatusLED, cfg.Board.LEDActiveLow)

		// The unique-ID area, the clock control registers and the MAC
		// source ROM are three devices on the same bus.
		provisioner := provision.NewManager(
			i2c.NewDeviceAdapter(bus, cfg.Board.EEPROMAddr),
			i2c.NewDeviceAdapter(bus, cfg.Board.RTCAddr),
			i2c.NewDeviceAdapter(bus, cfg.Board.MacROMAddr),
		)

		result, err := provisioner.Provision(ctx)
		if err != nil {
			logger.WithError(err).Error("MAC provisioning failed")
			return
		}
		logger.WithFields(logrus.Fields{
			"status": result.Status.String(),
			"mac":    result.Mac.String(),
		}).Info("MAC provisioning finished")

		if cfg.Network == nil {
			logger.Info("No network section configured, skipping bring-up")
			setLED(statusLED, result.Mac.Usable())
			return
		}
		if !result.Mac.Usable() {
			logger.Warn("No usable MAC address, skipping network bring-up")
			return
		}

		manager := bringup.NewManager(
			cfg.Network.Interface,
			cfg.Network.Timeout.Duration,
			cfg.Network.Apply,
			infraDhcp.NewClientAdapter(),
			network.NewManagerAdapter(),
			file.NewManagerAdapter(),
		)

		netCfg, err := manager.BringUp(ctx, result.Mac)
		if err != nil {
			logger.WithError(err).Error("Network bring-up failed")
			return
		}

		logger.WithFields(logrus.Fields{
			"ip":      netCfg.Address.String(),
			"netmask": netCfg.Netmask.String(),
			"gateway": netCfg.Gateway.String(),
			"dns":     netCfg.DNS.String(),
			"server":  netCfg.Server.String(),
		}).Info("Board is on the network")
		setLED(statusLED, true)
	},
}

func init() {
	provisionCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	if err := provisionCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(provisionCmd)
}
