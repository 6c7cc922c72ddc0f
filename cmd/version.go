package cmd

import (
	"fmt"

	"github.com/glistman/aws-credentials/internal"
	"github.com/spf13/cobra"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "awscreds version %s\n", internal.CurrentVersion)
		if !versionCheck {
			return
		}

		latest, url, err := internal.FetchLatestVersion(cmd.Context(), internal.GitHubAPI)
		if err != nil {
			fmt.Fprintf(out, "Unable to check for updates: %v\n", err)
			return
		}

		if internal.IsNewer(latest, internal.CurrentVersion) {
			fmt.Fprintf(out, "\n💡 Update available: %s → %s\n", internal.CurrentVersion, latest)
			fmt.Fprintf(out, "   Download: %s\n", url)
		} else {
			fmt.Fprintln(out, "✅ You're running the latest version")
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", true, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
