package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nanodectl/internal/adapter/infrastructure/led"
	"nanodectl/internal/pkg/config"
	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/pkg/version"
	"nanodectl/internal/port"
)

var (
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:     "nanodectl",
	Short:   "nanodectl provisions Nanode boards and exercises their radio link",
	Version: version.Short(),
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig loads and validates the configuration behind the --config flag
// and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.InitLogger(cfg.Logging)
	return cfg, nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.GetLogger().WithField("signal", sig.String()).Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openLED opens the named pin, tolerating boards without one. A missing or
// unusable pin only costs the blink.
func openLED(name string, activeLow bool) port.LED {
	if name == "" {
		return nil
	}
	l, err := led.NewPinAdapter(name, activeLow)
	if err != nil {
		logging.GetLogger().WithError(err).WithField("pin", name).Warn("LED unavailable")
		return nil
	}
	return l
}

// setLED drives the LED if one is fitted.
func setLED(l port.LED, on bool) {
	if l == nil {
		return
	}
	if err := l.Set(on); err != nil {
		logging.GetLogger().WithError(err).Warn("Failed to drive status LED")
	}
}
