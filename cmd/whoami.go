package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/glistman/aws-credentials/internal"
	"github.com/glistman/aws-credentials/internal/ui"
	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	whoamiStatic    bool
	whoamiAccessKey string
	whoamiSecret    string
	whoamiToken     string
	whoamiRegion    string
	whoamiJSON      bool
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the AWS identity behind the current credentials",
	Long: `Calls STS GetCallerIdentity with the container credentials, or with static
credentials when --static is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := whoamiProvider(cmd)
		if err != nil {
			return err
		}

		region := cfg.Region
		if whoamiRegion != "" {
			region = whoamiRegion
		}
		client, err := internal.NewSTSClient(ctx, p, region)
		if err != nil {
			return err
		}

		id, err := internal.CallerIdentity(ctx, client)
		if err != nil {
			return err
		}

		if whoamiJSON {
			return encodeJSON(cmd.OutOrStdout(), id)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.Table("AWS identity", []ui.Row{
			{Label: "Account", Value: id.Account},
			{Label: "ARN", Value: id.Arn},
			{Label: "User ID", Value: id.UserID},
		}))
		return nil
	},
}

func whoamiProvider(cmd *cobra.Command) (credentials.Provider, error) {
	if !whoamiStatic {
		return credentials.NewContainerProvider(cmd.Context(), cfg.ProviderOptions(logger)...), nil
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if whoamiAccessKey == "" {
		if !interactive {
			return nil, errors.New("--access-key-id is required with --static")
		}
		id, err := ui.Prompt("Access Key ID", "AKIA...")
		if err != nil {
			return nil, err
		}
		whoamiAccessKey = id
	}
	if whoamiSecret == "" {
		if !interactive {
			return nil, errors.New("--secret-access-key is required with --static")
		}
		secret, err := ui.PromptSecret("Secret Access Key")
		if err != nil {
			return nil, err
		}
		whoamiSecret = secret
	}
	return credentials.NewStaticProvider(whoamiAccessKey, whoamiSecret, whoamiToken), nil
}

func init() {
	f := whoamiCmd.Flags()
	f.BoolVar(&whoamiStatic, "static", false, "Use static credentials instead of the container endpoint")
	f.StringVar(&whoamiAccessKey, "access-key-id", os.Getenv("AWS_ACCESS_KEY_ID"), "Access key ID for --static (prompted when empty)")
	f.StringVar(&whoamiSecret, "secret-access-key", os.Getenv("AWS_SECRET_ACCESS_KEY"), "Secret access key for --static (prompted when empty)")
	f.StringVar(&whoamiToken, "session-token", os.Getenv("AWS_SESSION_TOKEN"), "Session token for --static")
	f.StringVarP(&whoamiRegion, "region", "r", "", "AWS region for STS")
	f.BoolVar(&whoamiJSON, "json", false, "Output identity as JSON")
	rootCmd.AddCommand(whoamiCmd)
}
