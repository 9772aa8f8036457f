// Command riskctl runs Monte-Carlo startup risk scenarios from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"startup-risk-lab/internal/config"
	"startup-risk-lab/internal/observability"
)

// Global flags
var (
	configPath   string
	envFile      string
	logLevel     string
	metricsAddr  string
	outputFormat string
)

// Process state set up by the root command.
var (
	cfg    *config.Config
	logger zerolog.Logger

	// cancelRun cancels the command context; set by main before Execute.
	cancelRun context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Monte-Carlo scenario and shock simulator for startup risk",
	Long: `riskctl samples economic, regulatory and geopolitical shocks, applies them to
startup-sector domain models and reports the distribution of outcomes.

Results are persisted (in memory, or Postgres with optional ClickHouse outcomes)
and seeded runs are memoized in the configured result cache.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "KEY=VALUE file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "Output format (table|json)")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelRun = cancel

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and starts the metrics endpoint.
func setup(cmd *cobra.Command, _ []string) error {
	// 1. Environment and config file
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. Flag overrides
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if metricsAddr != "" {
		c.Metrics.Addr = metricsAddr
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (table|json)", outputFormat)
	}
	cfg = c

	// 3. Logger
	logger = observability.NewLogger(cfg.Log.Level, cfg.Log.Pretty)

	// 4. Shutdown signals; the watcher gets its own copy of the configured logger
	if cancelRun != nil {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go watchSignals(sigCh, cancelRun, logger)
	}

	// 5. Metrics endpoint
	if cfg.Metrics.Addr != "" {
		startMetricsServer(cmd.Context(), cfg.Metrics.Addr, logger)
	}
	return nil
}

// watchSignals cancels the run on the first signal received from sigCh.
func watchSignals(sigCh <-chan os.Signal, cancel context.CancelFunc, l zerolog.Logger) {
	sig, ok := <-sigCh
	if !ok {
		return
	}
	l.Warn().Str("signal", sig.String()).Msg("shutting down, cancelling run")
	cancel()
}

func startMetricsServer(ctx context.Context, addr string, l zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		l.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
