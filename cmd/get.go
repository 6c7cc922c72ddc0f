package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glistman/aws-credentials/internal/ui"
	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	getFormat string
	getWait   time.Duration

	stderrIsTerminal = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch container credentials and print them",
	Long: `Fetches credentials from the container credentials endpoint and prints them.
If the first fetch fails, keeps retrying every retry interval for up to --wait.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := credentials.NewContainerProvider(ctx, cfg.ProviderOptions(logger)...)
		if err := waitForCredentials(ctx, p, getWait); err != nil {
			return err
		}

		creds, err := p.Retrieve()
		if err != nil {
			return err
		}
		return writeCredentials(cmd.OutOrStdout(), getFormat, creds)
	},
}

// waitForCredentials runs the refresh loop until p has credentials or
// timeout elapses. A spinner is shown when stderr is a terminal.
func waitForCredentials(ctx context.Context, p *credentials.ContainerProvider, timeout time.Duration) error {
	select {
	case <-p.Ready():
		return nil
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		p.Run(ctx)
	}()
	defer func() {
		cancel()
		<-loopDone
	}()

	wait := func() error {
		select {
		case <-p.Ready():
			return nil
		case <-ctx.Done():
			return fmt.Errorf("no credentials after %s: %w", timeout, credentials.ErrCredentialsNotFound)
		}
	}

	if stderrIsTerminal() {
		return ui.Spin("Waiting for container credentials...", wait)
	}
	return wait()
}

func init() {
	getCmd.Flags().StringVarP(&getFormat, "format", "f", formatEnv, "Output format: env, json or process")
	getCmd.Flags().DurationVar(&getWait, "wait", 10*time.Second, "How long to keep retrying when no credentials are available")
	rootCmd.AddCommand(getCmd)
}
