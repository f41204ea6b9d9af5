package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittoserve/internal/cli/prompt"
	"github.com/marmos91/dittoserve/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample dittoserve configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/dittoserve/config.yaml.
Use --config to specify a custom path. When the file already exists you are
asked before it is replaced, unless --force is given.

Examples:
  # Initialize with default location
  dittoserve init

  # Initialize with custom path
  dittoserve init --config /etc/dittoserve/config.yaml

  # Force overwrite existing config
  dittoserve init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	err := config.InitConfigToPath(configPath, initForce)
	if errors.Is(err, config.ErrConfigExists) {
		ok, perr := prompt.ConfirmOverwrite(configPath, false)
		if perr != nil || !ok {
			return err
		}
		err = config.InitConfigToPath(configPath, true)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set static.root to the directory you want to serve")
	_, _ = fmt.Fprintln(out, "  2. Start the server with: dittoserve serve")
	_, _ = fmt.Fprintf(out, "  3. Or specify custom config: dittoserve serve --config %s\n", configPath)
	return nil
}
