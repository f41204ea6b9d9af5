package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittoserve/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the dittoserve configuration file.

Checks for syntax errors, missing required fields, and invalid values, then
warns about settings that are valid but will not work on this host.

Examples:
  # Validate default config
  dittoserve config validate

  # Validate specific config file
  dittoserve config validate --config /etc/dittoserve/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", configPath(cmd))
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if warnings := Warnings(cfg); len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Static root:     %s\n", cfg.Static.Root)
	_, _ = fmt.Fprintf(out, "  Listen port:     %d\n", cfg.Server.Port)
	_, _ = fmt.Fprintf(out, "  Index names:     %v\n", cfg.Static.IndexNames)
	_, _ = fmt.Fprintf(out, "  Listing:         %t\n", cfg.Static.ListingEnabled())
	_, _ = fmt.Fprintf(out, "  Chunk size:      %s\n", cfg.Static.ChunkSize)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}

// Warnings reports settings that pass validation but will misbehave.
func Warnings(cfg *config.Config) []string {
	var warnings []string

	info, err := os.Stat(cfg.Static.Root)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("static root %s is not accessible: %v", cfg.Static.Root, err))
	case !info.IsDir():
		warnings = append(warnings, fmt.Sprintf("static root %s is not a directory", cfg.Static.Root))
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Server.Port {
		warnings = append(warnings, fmt.Sprintf("metrics and server both use port %d", cfg.Server.Port))
	}

	if len(cfg.Static.IndexNames) == 0 && !cfg.Static.ListingEnabled() {
		warnings = append(warnings, "no index names and listing disabled: every directory answers 404")
	}

	return warnings
}
