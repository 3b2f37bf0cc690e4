package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monorkin/hyperview-dit/hyperview/api"
	"github.com/monorkin/hyperview-dit/internal/config"
	"github.com/monorkin/hyperview-dit/internal/globals"
	"github.com/monorkin/hyperview-dit/internal/version"
	"github.com/spf13/cobra"
)

var (
	debugLevel string
	configPath string
)

var debugLevels = []string{"trace", "debug", "info", "warn", "error"}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hyperview-dit",
	Short: "Hyperview device import tool",
	Long: `Lists and creates BACnet and Modbus definitions on a Hyperview instance, and
lists, exports and bulk-imports the numeric and non-numeric sensors attached to them.

Credentials are read from ~/.hyperview/hyperview.toml.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := oneOf("debug-level", debugLevel, debugLevels); err != nil {
			return err
		}

		globals.SetupLogger(debugLevel)
		globals.Logger.Info("Startup options", "debug_level", debugLevel, "version", version.GetVersion())

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		globals.Logger.Error("Command failed", "error", err)
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}

	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&debugLevel, "debug-level", "l", "error", "Debug level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.hyperview/hyperview.toml)")

	rootCmd.AddCommand(newProtocolCmd(api.ProtocolBacnet, "BACnet/IP"))
	rootCmd.AddCommand(newProtocolCmd(api.ProtocolModbus, "Modbus/TCP"))
}

// newClient loads the settings and builds an authenticated API client. The
// token itself is fetched on the first request and reused afterwards.
func newClient(ctx context.Context) (*api.Client, error) {
	path := configPath
	if path == "" {
		path = config.DefaultSettingsPath()
	}

	created, settings, err := config.LoadOrInitializeSettings(path)
	if err != nil {
		return nil, err
	}
	if created {
		globals.Logger.Warn("Created config template, fill in the credentials", "file", path)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	globals.Logger.Debug("Using", "config", settings.Redacted())
	globals.Logger.Info("Hyperview instance", "url", settings.InstanceURL)

	tokens := api.NewTokenSource(ctx, api.Credentials{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		AuthURL:      settings.AuthURL,
		TokenURL:     settings.TokenURL,
		Scope:        settings.Scope,
	})

	client := api.NewClientWithLogger(settings.InstanceURL, tokens, globals.Logger.With(slog.String("component", "api")))
	client.SetRequestTimeout(settings.RequestTimeout)

	return client, nil
}
