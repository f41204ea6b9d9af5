package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/dittoserve/internal/bytesize"
	"github.com/marmos91/dittoserve/pkg/api"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "DITTOSERVE"

// keyDelimiter separates nested viper keys. The default "." would split
// extension keys such as ".md" in static.content_types.
const keyDelimiter = "::"

// Config represents the dittoserve configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DITTOSERVE_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Files written by older releases are upgraded in memory on load; see
// Migrate.
type Config struct {
	// Version is the configuration schema version.
	Version int `mapstructure:"version" yaml:"version"`

	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout is the maximum time to wait for in-flight transfers
	// during graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Server configures the HTTP listener
	Server api.APIConfig `mapstructure:"server" yaml:"server"`

	// Metrics contains Prometheus metrics server configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Static configures the served document tree
	Static StaticConfig `mapstructure:"static" yaml:"static"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317"
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS towards the collector
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL
	// Default: "http://localhost:4040"
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes lists the profiles to collect
	// Valid values: cpu, alloc_objects, alloc_space, inuse_objects, inuse_space,
	//               goroutines, mutex_count, mutex_duration, block_count, block_duration
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`

	// Tags are static labels attached to every profile
	Tags map[string]string `mapstructure:"tags" yaml:"tags,omitempty"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
// When Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the /metrics endpoint
	// Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// StaticConfig configures the document root and how files in it are
// resolved and served.
type StaticConfig struct {
	// Root is the directory served at "/"
	Root string `mapstructure:"root" validate:"required" yaml:"root"`

	// DefaultType is the Content-Type for unknown extensions
	// Default: "text/html"
	DefaultType string `mapstructure:"default_type" validate:"required" yaml:"default_type"`

	// IndexNames are tried in order for a directory request
	// Default: [index, index.html, index.htm, index.trp, index.rpy]
	IndexNames []string `mapstructure:"index_names" validate:"dive,segment" yaml:"index_names"`

	// IgnoredExts are appended to a missing segment, in order, before
	// giving up. "*" accepts any extension.
	IgnoredExts []string `mapstructure:"ignored_exts" validate:"dive,ext" yaml:"ignored_exts,omitempty"`

	// ContentTypes overrides or extends the extension to MIME type table
	ContentTypes map[string]string `mapstructure:"content_types" yaml:"content_types,omitempty"`

	// ContentEncodings overrides or extends the extension to encoding table
	ContentEncodings map[string]string `mapstructure:"content_encodings" yaml:"content_encodings,omitempty"`

	// ChunkSize is the size of each read of a transfer
	// Supports human-readable formats: "64KiB", "1Mi"
	// Default: 64KiB
	ChunkSize bytesize.ByteSize `mapstructure:"chunk_size" validate:"lte=67108864" yaml:"chunk_size"`

	// ReadConcurrency bounds concurrent file reads across all transfers.
	// Zero means unbounded.
	ReadConcurrency int `mapstructure:"read_concurrency" validate:"gte=0" yaml:"read_concurrency"`

	// SniffContentType detects the type from file content when the
	// extension is unknown
	SniffContentType bool `mapstructure:"sniff_content_type" yaml:"sniff_content_type"`

	// Listing renders a directory listing when no index file exists.
	// Use a pointer to distinguish "not set" from "explicitly false".
	Listing *bool `mapstructure:"listing" yaml:"listing,omitempty"`
}

// ListingEnabled reports whether directory listings are on. Defaults to true.
func (c *StaticConfig) ListingEnabled() bool {
	if c.Listing == nil {
		return true
	}
	return *c.Listing
}

// Load loads configuration from file, environment, and defaults.
//
// A missing file is not an error: the default configuration is returned,
// with environment overrides applied. Files of an older schema version
// are migrated before decoding.
func Load(configPath string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	setupViper(v, configPath)
	if err := setDefaults(v, GetDefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to register defaults: %w", err)
	}

	if _, err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
// It checks if the config file exists and provides user-friendly instructions if not.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  dittoserve init\n\n"+
				"Or specify a custom config file:\n"+
				"  dittoserve <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  dittoserve init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// DITTOSERVE_STATIC_ROOT=/srv/www overrides static.root
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
	}
}

// readConfigFile reads, migrates and loads the configuration file into v.
// Returns (fileFound, error).
func readConfigFile(v *viper.Viper, configPath string) (bool, error) {
	path := configPath
	if path == "" {
		path = GetDefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if _, err := Migrate(raw); err != nil {
		return false, fmt.Errorf("failed to migrate config file %s: %w", path, err)
	}

	migrated, err := yaml.Marshal(raw)
	if err != nil {
		return false, fmt.Errorf("failed to re-encode migrated config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(migrated)); err != nil {
		return false, fmt.Errorf("failed to load config file: %w", err)
	}

	return true, nil
}

// setDefaults registers every leaf of cfg as a viper default, so that
// environment overrides apply to keys the file leaves out.
func setDefaults(v *viper.Viper, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return err
	}
	for key, value := range flatten("", m) {
		v.SetDefault(key, value)
	}
	return nil
}

func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + keyDelimiter + k
		}
		if nested, ok := val.(map[string]any); ok && len(nested) > 0 {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = val
	}
	return out
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// byteSizeDecodeHook converts strings and numbers to bytesize.ByteSize so
// config files can use sizes like "64KiB" or plain byte counts.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size: %d", v)
			}
			return bytesize.ByteSize(v), nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size: %d", v)
			}
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size: %v", v)
			}
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook converts strings like "30s" to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Raw integers are nanoseconds
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns $XDG_CONFIG_HOME/dittoserve, ~/.config/dittoserve,
// or "." when no home directory is known.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dittoserve")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "dittoserve")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
