package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glistman/aws-credentials/internal"
	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var (
	serveListen string
	serveToken  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep credentials refreshed and serve them over HTTP",
	Long: `Runs the refresh loop in the foreground and serves the current credentials
at /credentials in the container credentials format. Point a child process at
it with AWS_CONTAINER_CREDENTIALS_FULL_URI=http://<listen>/credentials.

Prometheus metrics are exposed at /metrics and a health check at /healthz.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen := cfg.Listen
		if cmd.Flags().Changed("listen") {
			listen = serveListen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		p := credentials.NewContainerProvider(ctx,
			cfg.ProviderOptions(logger, credentials.WithMetrics(credentials.NewMetrics(reg)))...)

		srv := &http.Server{
			Addr:              listen,
			Handler:           newServeMux(p, reg, serveToken),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
		return runServer(ctx, p, srv)
	},
}

func newServeMux(p *credentials.ContainerProvider, gatherer prometheus.Gatherer, token string) *http.ServeMux {
	endpoint := internal.NewEndpointHandler(p, logger.WithName("endpoint"))
	if token != "" {
		endpoint.SetAuthToken(token)
	}

	mux := http.NewServeMux()
	mux.Handle("/credentials", endpoint)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !p.State().HasCredentials {
			http.Error(w, "no credentials", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// runServer runs the refresh loop and the HTTP server until ctx is done.
func runServer(ctx context.Context, p *credentials.ContainerProvider, srv *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("serving credentials", "addr", srv.Addr, "path", "/credentials")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info("stopped")
	return err
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (default from config, 127.0.0.1:9911)")
	serveCmd.Flags().StringVar(&serveToken, "token", os.Getenv("AWSCREDS_SERVE_TOKEN"), "Token clients must send in the Authorization header")
	rootCmd.AddCommand(serveCmd)
}
