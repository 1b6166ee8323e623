package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/polisai/primecore/pkg/config"
	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/engine"
	"github.com/polisai/primecore/pkg/logging"
	"github.com/polisai/primecore/pkg/telemetry"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// Exit statuses.
const (
	exitOK         = 0
	exitFailure    = 1
	exitInputError = 2
	exitCanceled   = 130
)

// cli holds the state shared by every subcommand.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	logLevel    string
	output      string
	seed        uint64
	metricsAddr string

	cfg       *config.Config
	logger    *slog.Logger
	engine    *engine.Engine
	collector *telemetry.Collector
	callID    string

	metricsServer   *http.Server
	shutdownTracing func(context.Context) error
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "primectl",
		Short: "Primality, factorization and prime progressions over 64-bit integers",
		Long: `primectl answers number theory questions about unsigned 64-bit integers.

Examples:
  primectl is-prime 18446744073709551557
  primectl factor 18446744073709551615
  primectl progression 7 30 --max-terms 100
  seq 1000000 1000100 | primectl batch -`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to configuration file (YAML)")
	flags.StringVarP(&c.logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	flags.StringVarP(&c.output, "output", "o", outputText, "Output format (text, json)")
	flags.Uint64Var(&c.seed, "seed", 0, "Seed for randomized searches (0 uses the configured or a random seed)")
	flags.StringVar(&c.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	rootCmd.AddCommand(
		c.newIsPrimeCmd(),
		c.newProbablePrimeCmd(),
		c.newFactorCmd(),
		c.newProgressionCmd(),
		c.newBatchCmd(),
	)
	return rootCmd
}

// setup loads configuration and builds the logger, telemetry and engine.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.output != outputText && c.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", c.output)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = c.seed
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Address = c.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	c.cfg = cfg

	c.logger = logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.stderr,
	})
	slog.SetDefault(c.logger)

	ctx := cmd.Context()
	shutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Environment:    cfg.Telemetry.Environment,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	c.shutdownTracing = shutdown

	engineCfg := engine.ConfigFrom(cfg.Engine)
	engineCfg.Logger = c.logger
	if cfg.Metrics.Address != "" {
		c.collector = telemetry.NewCollector()
		engineCfg.Collector = c.collector
		srv, addr, err := startMetricsServer(cfg.Metrics.Address, c.collector.Handler(), c.logger)
		if err != nil {
			return err
		}
		c.metricsServer = srv
		c.logger.Info("metrics server listening", "addr", addr)
	}
	c.engine = engine.New(engineCfg)

	c.logger.Debug("primectl started",
		"command", cmd.Name(),
		"version", version,
		"seed", c.engine.Seed(),
		"workers", c.engine.Workers(),
	)
	return nil
}

func (c *cli) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil && c.logger != nil {
			c.logger.Error("metrics server shutdown error", "error", err)
		}
	}
	if c.shutdownTracing != nil {
		if err := c.shutdownTracing(ctx); err != nil && c.logger != nil {
			c.logger.Error("tracing shutdown error", "error", err)
		}
	}
}

// reportError writes err to stderr in the selected output format.
func (c *cli) reportError(err error) {
	if c.output == outputJSON {
		enc := json.NewEncoder(c.stderr)
		_ = enc.Encode(engine.ErrorResponse(err, c.callID))
		return
	}
	fmt.Fprintf(c.stderr, "Error: %v\n", err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.IsInputError(err):
		return exitInputError
	case errors.Is(err, context.Canceled):
		return exitCanceled
	default:
		return exitFailure
	}
}

// startMetricsServer serves handler at /metrics on addr.
func startMetricsServer(addr string, handler http.Handler, logger *slog.Logger) (*http.Server, string, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("bind metrics listener %s: %w", addr, err)
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return server, listener.Addr().String(), nil
}

// withCall tags ctx with a fresh call id, remembered for error reports.
func (c *cli) withCall(ctx context.Context) context.Context {
	c.callID = newCallID()
	return engine.WithCallID(ctx, c.callID)
}
