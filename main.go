package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"erlang-staffing/config"
	"erlang-staffing/formatter"
	"erlang-staffing/logging"
	"erlang-staffing/metrics"
	"erlang-staffing/staffing"
)

const pushJobName = "erlang_staffing"

// options holds the persistent flags shared by every command
type options struct {
	configPath  string
	format      string
	strategy    string
	logLevel    string
	metricsAddr string
	pushURL     string
	wait        bool
}

// App holds the application dependencies
type App struct {
	opts    *options
	cfg     config.Defaults
	calc    *staffing.Calculator
	logger  *zap.Logger
	metrics *http.Server
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &App{opts: &options{}}

	rootCmd := &cobra.Command{
		Use:   "erlang-staffing",
		Short: "Erlang C staffing calculator",
		Long: `Calculates how many agents a call centre needs in an interval to meet a
service level goal, an answer time target and a maximum occupancy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&app.opts.configPath, "config", "c", "", "YAML defaults file (default: ./config.yaml if present)")
	pf.StringVarP(&app.opts.format, "format", "f", "text", "Output format: "+strings.Join(formatter.Formats, "|"))
	pf.StringVar(&app.opts.strategy, "strategy", staffing.LinearStrategy.String(), "Agent search strategy: linear|binary")
	pf.StringVar(&app.opts.logLevel, "log-level", "", "Log level override: debug|info|warn|error")
	pf.StringVar(&app.opts.metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pf.StringVar(&app.opts.pushURL, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	pf.BoolVar(&app.opts.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	rootCmd.AddCommand(calcCmd(app))
	rootCmd.AddCommand(batchCmd(app))

	return rootCmd
}

// init loads configuration and builds the logger and calculator
func (a *App) init(cmd *cobra.Command) error {
	var err error

	a.cfg, err = config.Load(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.opts.logLevel
	}

	a.logger, err = logging.New(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger.Debug("Configuration loaded",
		zap.Int("max_agents", a.cfg.MaxAgents),
		zap.Int("workers", a.cfg.Workers))

	if !slices.Contains(formatter.Formats, a.opts.format) {
		return fmt.Errorf("format must be one of: %s (got: %s)", strings.Join(formatter.Formats, ", "), a.opts.format)
	}
	strategy, err := staffing.ParseStrategy(a.opts.strategy)
	if err != nil {
		return err
	}

	a.calc = staffing.NewCalculator(a.cfg,
		staffing.WithStrategy(strategy),
		staffing.WithLogger(a.logger))

	if a.opts.metricsAddr != "" {
		a.serveMetrics()
	}
	return nil
}

// serveMetrics exposes the metrics registry on a background HTTP server
func (a *App) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Addr: a.opts.metricsAddr, Handler: mux}

	go func() {
		a.logger.Info("Metrics server listening", zap.String("url", a.opts.metricsAddr+"/metrics"))
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server error", zap.Error(err))
		}
	}()
}

// run wraps a command body so that finish runs whether or not the body fails.
// Cobra skips post-run hooks after an error, so this cannot be PersistentPostRunE.
func (a *App) run(body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := body(cmd, args)
		return errors.Join(err, a.finish(cmd.Context()))
	}
}

// finish pushes metrics and, when asked, keeps the process alive for scraping
func (a *App) finish(ctx context.Context) error {
	defer a.logger.Sync()

	if a.opts.pushURL != "" {
		if err := push.New(a.opts.pushURL, pushJobName).Gatherer(metrics.Registry).Push(); err != nil {
			a.logger.Error("Error pushing to Pushgateway", zap.Error(err))
		} else {
			a.logger.Info("Metrics successfully pushed to Pushgateway", zap.String("url", a.opts.pushURL))
		}
	}

	if a.metrics == nil {
		return nil
	}
	if a.opts.wait {
		a.logger.Info("Process kept alive for metric scraping. Press Ctrl+C to exit.")
		<-ctx.Done()
	} else if a.opts.pushURL == "" {
		// Small delay to allow a final scrape when not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metrics.Shutdown(shutdownCtx)
}
