package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikei/hue-cli/internal/config"
	"github.com/kikei/hue-cli/internal/hue"
)

var (
	registerBridge     string
	registerDeviceType string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an application user on a bridge",
	Long: `register performs the push-link handshake: it asks the bridge for a new
username and keeps asking until the round link button on the bridge is
pressed. The issued username authorizes all later requests, so keep it.

Without --bridge the first discovered bridge is used.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerBridge, "bridge", "b", "", "bridge address (overrides config, discovered when absent)")
	registerCmd.Flags().StringVarP(&registerDeviceType, "device-type", "d", "", "label the bridge stores for this application (overrides config)")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	deviceType := registerDeviceType
	if deviceType == "" {
		deviceType = cfg.DeviceType
	}
	if deviceType == "" {
		deviceType = "hue-cli"
	}

	address := registerBridge
	if address == "" {
		address = cfg.Bridge
	}
	if address == "" {
		log.Debug().Msg("No bridge configured, discovering")
		addrs, err := newDiscoverer().Discover(ctx)
		if err != nil {
			return describe(err)
		}
		if len(addrs) == 0 {
			return errors.New("no bridge found: pass --bridge or connect to the bridge's network")
		}
		address = addrs[0]
	}

	fmt.Printf("Registering on bridge %s, press its link button now...\n", address)

	registrar := hue.NewRegistrar(newTransport(), hue.RegisterConfig{
		MaxAttempts:   cfg.Register.MaxAttempts,
		RetryInterval: cfg.Register.RetryInterval.Duration(),
	})
	username, err := registrar.Register(ctx, address, deviceType)
	if err != nil {
		return describe(err)
	}

	fmt.Printf("Registered user %q on bridge %s\n", username, address)
	if path := config.DefaultPath(); path != "" {
		fmt.Printf("\nTo make this the default, put the following in %s:\n\n", path)
		fmt.Printf("bridge: %s\nuser: %s\n", address, username)
	}
	return nil
}
