package commands

import (
	"fmt"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/pkg/config"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the file named by --config, or the default file when it
// exists. Without either, the built-in defaults and environment apply. The
// returned path is empty when no file was read.
func loadConfig(configFile string) (*config.Config, string, error) {
	switch {
	case configFile != "":
		cfg, err := config.MustLoad(configFile)
		return cfg, configFile, err
	case config.DefaultConfigExists():
		cfg, err := config.MustLoad("")
		return cfg, config.GetDefaultConfigPath(), err
	default:
		cfg, err := config.Load("")
		if err != nil {
			return nil, "", fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, "", nil
	}
}

// configSource describes where the configuration came from.
func configSource(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
