package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nanodectl/internal/adapter/infrastructure/mqtt"
	"nanodectl/internal/adapter/linktest"
	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
)

var recvCmd = &cobra.Command{
	Use:   "recv",
	Short: "Receive counter broadcasts and report link quality",
	Run: func(cmd *cobra.Command, args []string) {
		// Load and validate configuration
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			return
		}

		logger := logging.GetLogger()
		logger.WithField("config_file", configFlag).Info("Starting radio link test receiver")

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

		var publisher port.Publisher
		var topic string
		if cfg.Publish != nil {
			clientID := cfg.Publish.ClientID
			if clientID == "" {
				hostname, _ := os.Hostname()
				clientID = "nanodectl-" + hostname
			}

			pub, err := mqtt.NewPublisherAdapter(mqtt.Config{
				Broker:   cfg.Publish.Broker,
				ClientID: clientID,
				Username: cfg.Publish.Username,
				Password: cfg.Publish.Password,
			})
			if err != nil {
				logger.WithError(err).Error("Failed to connect to MQTT broker")
				return
			}
			defer pub.Close()

			publisher = pub
			topic = cfg.Publish.Topic
		}

		receiver := linktest.NewReceiver(radio, activityLED(cfg), publisher, topic,
			cfg.Radio.PollInterval.Duration)
		if err := receiver.Run(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Link test receiver failed")
		}
	},
}

func init() {
	recvCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	if err := recvCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(recvCmd)
}
