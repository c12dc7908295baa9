package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abczzz13/reqguard/config"
	"github.com/abczzz13/reqguard/internal/logging"
)

var (
	configFile string

	settings *viper.Viper
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reqguard",
	Short: "reqguard - request guard for HTTP services",
	Long: `reqguard fronts an HTTP service with an IP allow/deny filter,
named CORS policies, per-request correlation ids and content-negotiated
error responses.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the config file (default: reqguard.yaml in ., $HOME/.reqguard or /etc/reqguard)")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	logger = logging.FromEnv()

	settings = config.New()
	found, err := config.ReadFile(settings, configFile)
	if err != nil {
		return err
	}
	if found {
		logger.Debug().Str("file", settings.ConfigFileUsed()).Msg("loaded config file")
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
