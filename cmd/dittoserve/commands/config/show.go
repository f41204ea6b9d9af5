package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/dittoserve/internal/cli/output"
	"github.com/marmos91/dittoserve/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective dittoserve configuration, with defaults and
environment overrides applied.

By default outputs YAML format. Use --output to change format; the table
format lists one dotted key per row.

Examples:
  # Show default config as YAML
  dittoserve config show

  # Show as JSON
  dittoserve config show --output json

  # Show as a key/value table
  dittoserve config show -o table`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json|table)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	format, err := output.ParseFormat(showOutput, output.FormatYAML)
	if err != nil {
		return err
	}

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	p := output.NewPrinter(cmd.OutOrStdout(), format)
	if format == output.FormatTable {
		table, err := settingsTable(cfg)
		if err != nil {
			return err
		}
		return p.Print(table)
	}
	return p.Print(cfg)
}

// settingsTable flattens cfg into one row per dotted key.
func settingsTable(cfg *config.Config) (*output.Table, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	flat := make(map[string]string)
	flattenInto(flat, "", tree)
	return output.MapTable("Key", "Value", flat), nil
}

func flattenInto(dst map[string]string, prefix string, v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(dst, key, child)
		}
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprint(e)
		}
		dst[prefix] = strings.Join(parts, ", ")
	case nil:
		dst[prefix] = ""
	default:
		dst[prefix] = fmt.Sprint(t)
	}
}
