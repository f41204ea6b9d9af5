package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/semaphore"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/pkg/bufpool"
	"github.com/marmos91/dittoserve/pkg/metrics"
	"github.com/marmos91/dittoserve/pkg/static"
)

// MetricsResult holds what InitializeMetrics created. Both fields are nil
// when metrics are disabled.
type MetricsResult struct {
	Server *metrics.Server
	Static static.Metrics
}

// InitializeMetrics creates the Prometheus registry and metrics server
// when cfg.Metrics.Enabled is set. It must run before the static handler
// is built so the handler picks up the collectors.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{}
	}

	metrics.InitRegistry()
	return MetricsResult{
		Server: metrics.NewServer(cfg.Metrics.Port),
		Static: metrics.NewStaticMetrics(),
	}
}

// StaticOptions converts the static section into static.Options.
//
// Content type and encoding overrides are merged over the built-in tables.
// A positive ReadConcurrency creates one limiter shared by every transfer.
// The global buffer pool gains a size class for the chunk size when it
// does not already have one.
func StaticOptions(cfg *StaticConfig, m static.Metrics) static.Options {
	opts := static.Options{
		DefaultType:      cfg.DefaultType,
		IgnoredExts:      slices.Clone(cfg.IgnoredExts),
		IndexNames:       slices.Clone(cfg.IndexNames),
		DirectoryListing: cfg.ListingEnabled(),
		ContentTypes:     static.MergeTable(static.DefaultContentTypes(), cfg.ContentTypes),
		ContentEncodings: static.MergeTable(static.DefaultContentEncodings(), cfg.ContentEncodings),
		ChunkSize:        cfg.ChunkSize.Int(),
		SniffContentType: cfg.SniffContentType,
		Services:         static.NewServices(),
		Metrics:          m,
	}
	if cfg.ReadConcurrency > 0 {
		opts.ReadLimiter = semaphore.NewWeighted(int64(cfg.ReadConcurrency))
	}

	if size := opts.ChunkSize; size > 0 && !slices.Contains(bufpool.DefaultClasses, size) {
		classes := append(slices.Clone(bufpool.DefaultClasses), size)
		bufpool.Configure(classes...)
	}

	return opts
}

// NewStaticHandler builds the HTTP handler serving cfg.Static.Root. The
// root is made absolute so later working-directory changes do not move it.
func NewStaticHandler(cfg *Config, m static.Metrics) (*static.Handler, error) {
	root, err := filepath.Abs(cfg.Static.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve static root %q: %w", cfg.Static.Root, err)
	}

	info, err := os.Stat(root)
	switch {
	case err != nil:
		logger.Warn("Static root not available yet", logger.KeyFile, root, logger.KeyError, err)
	case !info.IsDir():
		return nil, fmt.Errorf("static root %s is not a directory", root)
	}

	opts := StaticOptions(&cfg.Static, m)
	logger.Debug("Static handler configured",
		logger.KeyFile, root,
		"index_names", opts.IndexNames,
		"ignored_exts", opts.IgnoredExts,
		"listing", opts.DirectoryListing,
		"chunk_size", opts.ChunkSize,
		"read_concurrency", cfg.Static.ReadConcurrency)

	return static.NewHandler(static.New(root, opts)), nil
}
