package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/internal/telemetry"
	"github.com/marmos91/dittoserve/pkg/api"
	"github.com/marmos91/dittoserve/pkg/config"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/dittoserve/pkg/metrics/prometheus"
)

var (
	serveRoot  string
	servePort  int
	serveWatch bool
	pidFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the static root over HTTP",
	Long: `Start the HTTP server for the configured static root.

Without a configuration file the current directory is served on port 8080.
Flags override the file, and DITTOSERVE_* environment variables override
both the file and the defaults.

Examples:
  # Serve the current directory
  dittoserve serve

  # Serve a directory on another port
  dittoserve serve --root /srv/www --port 9000

  # Use a config file and reload the log level when it changes
  dittoserve serve --config /etc/dittoserve/config.yaml --watch

  # Environment overrides
  DITTOSERVE_LOGGING_LEVEL=DEBUG dittoserve serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveRoot, "root", "r", "", "Directory to serve (overrides static.root)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the log level when the config file changes")
	serveCmd.Flags().StringVar(&pidFile, "pid-file", "", "Write the process ID to this file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(GetConfigFile())
	if err != nil {
		return err
	}
	if serveRoot != "" {
		cfg.Static.Root = serveRoot
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "dittoserve",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.KeyError, err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dittoserve",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
		Tags:           cfg.Telemetry.Profiling.Tags,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.KeyError, err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", configSource(path))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Metrics first, so the handler is built with its collectors.
	metricsResult := config.InitializeMetrics(cfg)

	files, err := config.NewStaticHandler(cfg, metricsResult.Static)
	if err != nil {
		return err
	}
	logger.Info("Serving static root", logger.KeyFile, files.Root().Path())

	apiServer := api.NewServer(cfg.Server, files)
	apiServer.SetShutdownTimeout(cfg.ShutdownTimeout)

	if metricsResult.Server != nil {
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
		go func() {
			if err := metricsResult.Server.Start(ctx); err != nil {
				logger.Error("Metrics server error", logger.KeyError, err)
			}
		}()
	} else {
		logger.Info("Metrics collection disabled")
	}

	if serveWatch {
		if path == "" {
			logger.Warn("--watch ignored: no configuration file")
		} else {
			go func() {
				err := config.Watch(ctx, path, func(next *config.Config) {
					if next.Logging.Level != logger.GetLevel() {
						logger.SetLevel(next.Logging.Level)
						logger.Info("Log level changed", "level", next.Logging.Level)
					}
				})
				if err != nil {
					logger.Warn("Config watch stopped", logger.KeyError, err)
				}
			}()
		}
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", logger.KeyError, err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", logger.KeyError, err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}
