package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikei/hue-cli/internal/config"
	"github.com/kikei/hue-cli/internal/hue"
)

var (
	cfgFile string
	verbose bool

	// cfg is populated before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "huecli",
	Short: "Control Philips Hue lights from the command line",
	Long: `huecli discovers Philips Hue bridges on the local network, registers an
application user via the bridge's push-link button, and inspects or changes
the state of connected lights.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		setupLogging(level, cfg.Log.Colors)
		return nil
	},
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	defaultPath := config.DefaultPath()
	if defaultPath == "" {
		defaultPath = "<config dir>/hue-cli/config.yaml"
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is "+defaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging(level string, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    !colors,
	})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newTransport() *hue.Transport {
	return hue.NewTransport(hue.TransportConfig{
		Timeout:      cfg.HTTP.Timeout.Duration(),
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
	})
}

func newDiscoverer() *hue.Discoverer {
	return hue.NewDiscoverer(hue.DiscoveryConfig{
		Endpoint:      cfg.Discovery.Endpoint,
		Timeout:       cfg.Discovery.Timeout.Duration(),
		SearchTimeout: cfg.Discovery.SearchTimeout.Duration(),
		LocalFallback: cfg.Discovery.GetLocalFallback(),
	})
}

// newSession builds an authenticated session from flag values, falling back
// to the config file for anything not given on the command line.
func newSession(bridgeFlag, userFlag string) (*hue.Session, error) {
	bridge := bridgeFlag
	if bridge == "" {
		bridge = cfg.Bridge
	}
	user := userFlag
	if user == "" {
		user = cfg.User
	}

	if bridge == "" {
		return nil, errors.New("no bridge address: pass --bridge or set it in the config file")
	}
	if user == "" {
		return nil, errors.New("no username: pass --user or run \"huecli register\" first")
	}
	return hue.NewSession(newTransport(), bridge, user)
}

// describe rewrites well-known failures into actionable messages.
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case hue.IsUnauthorized(err):
		return fmt.Errorf("%w: the bridge rejected the username, run \"huecli register\" to obtain a new one", err)
	case errors.Is(err, hue.ErrPushLinkTimeout):
		return fmt.Errorf("%w: press the round link button on the bridge and run register again", err)
	}

	var netErr *hue.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: check the bridge address and your network", err)
	}
	return err
}
