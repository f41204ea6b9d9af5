package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/dittoserve/internal/cli/output"
	"github.com/marmos91/dittoserve/pkg/static"
)

var (
	typesOutput    string
	typesEncodings bool
)

var typesCmd = &cobra.Command{
	Use:   "types [filename...]",
	Short: "Show the extension tables or negotiate filenames",
	Long: `Show the content type and encoding tables in effect, after merging
the configuration's overrides over the built-in tables.

With filename arguments, print the Content-Type and Content-Encoding each
name would be served with instead.

Examples:
  # List content types
  dittoserve types

  # List content encodings as JSON
  dittoserve types --encodings -o json

  # Check how files would be served
  dittoserve types archive.tar.gz README`,
	RunE: runTypes,
}

func init() {
	typesCmd.Flags().StringVarP(&typesOutput, "output", "o", "table", "Output format (table|json|yaml)")
	typesCmd.Flags().BoolVar(&typesEncodings, "encodings", false, "List content encodings instead of types")
}

// negotiation is the result of negotiating one filename.
type negotiation struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

type negotiations []negotiation

func (n negotiations) Headers() []string { return []string{"Name", "Type", "Encoding"} }

func (n negotiations) Rows() [][]string {
	rows := make([][]string, 0, len(n))
	for _, e := range n {
		rows = append(rows, []string{e.Name, e.Type, e.Encoding})
	}
	return rows
}

func runTypes(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(typesOutput, output.FormatTable)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(GetConfigFile())
	if err != nil {
		return err
	}
	types := static.MergeTable(static.DefaultContentTypes(), cfg.Static.ContentTypes)
	encodings := static.MergeTable(static.DefaultContentEncodings(), cfg.Static.ContentEncodings)

	p := output.NewPrinter(cmd.OutOrStdout(), format)

	if len(args) > 0 {
		result := make(negotiations, 0, len(args))
		for _, name := range args {
			typ, enc := static.TypeAndEncoding(name, types, encodings, cfg.Static.DefaultType)
			result = append(result, negotiation{Name: name, Type: typ, Encoding: enc})
		}
		return p.Print(result)
	}

	table := types
	header := "Type"
	if typesEncodings {
		table = encodings
		header = "Encoding"
	}
	if format != output.FormatTable {
		return p.Print(table)
	}
	return p.Print(output.MapTable("Extension", header, table))
}
