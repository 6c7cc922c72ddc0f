package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/glistman/aws-credentials/internal"
	"github.com/glistman/aws-credentials/internal/ui"
	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch once and show the endpoint, expiration and refresh state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := credentials.NewContainerProvider(cmd.Context(), cfg.ProviderOptions(logger)...)

		var keyID string
		if creds, err := p.Retrieve(); err == nil {
			keyID = creds.AccessKeyID
		}
		status := internal.NewProviderStatus(p.State(), keyID)

		if statusJSON {
			return encodeJSON(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

func printStatus(w io.Writer, s internal.ProviderStatus) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = ui.WarnStyle.Render("not configured")
	}

	state := ui.OKStyle.Render("✅ active")
	switch {
	case !s.HasCredentials:
		state = ui.ErrorStyle.Render("❌ no credentials")
	case s.InError:
		state = ui.WarnStyle.Render("⚠️  refresh failing")
	}

	rows := []ui.Row{
		{Label: "Endpoint", Value: endpoint},
		{Label: "State", Value: state},
	}
	if s.HasCredentials {
		rows = append(rows,
			ui.Row{Label: "Access Key ID", Value: s.AccessKeyID},
			ui.Row{Label: "Role ARN", Value: orDash(s.RoleArn)},
			ui.Row{Label: "Expiration", Value: formatExpiration(s.Expiration)},
			ui.Row{Label: "Remaining", Value: internal.FormatRemaining(s.TTL.Duration())},
		)
	}
	rows = append(rows, ui.Row{Label: "Next refresh", Value: "in " + s.NextRefresh.Duration().String()})

	fmt.Fprint(w, ui.Table("AWS container credentials", rows))
}

func formatExpiration(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return internal.FormatLocal(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}
