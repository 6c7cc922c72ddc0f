package cmd

import (
	"fmt"
	"os"

	"github.com/glistman/aws-credentials/internal"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevel    string
	endpointURL string
	relativeURI string

	cfg    = internal.DefaultConfig()
	logger = logr.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "awscreds",
	Short: "awscreds keeps AWS container credentials fresh",
	Long: `awscreds fetches temporary AWS credentials from the container credentials
endpoint (169.254.170.2 + AWS_CONTAINER_CREDENTIALS_RELATIVE_URI) and keeps
them refreshed before they expire.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := internal.LoadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, c)

		l, err := internal.NewLogger(c.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

// applyFlagOverrides copies explicitly set global flags over config file values.
func applyFlagOverrides(cmd *cobra.Command, c *internal.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("url") {
		c.URL = endpointURL
	}
	if flags.Changed("relative-uri") {
		c.RelativeURI = relativeURI
	}
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", internal.DefaultConfigPath(), "Path to the config file")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&endpointURL, "url", "", "Full credentials endpoint URL")
	pf.StringVar(&relativeURI, "relative-uri", "", "Endpoint path on the container host (defaults to $AWS_CONTAINER_CREDENTIALS_RELATIVE_URI)")
}
