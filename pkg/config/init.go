package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by InitConfig when the target file exists
// and force is not set.
var ErrConfigExists = errors.New("config file already exists")

const sampleHeader = `# dittoserve configuration file
#
# Every key can be overridden from the environment with the DITTOSERVE_
# prefix and underscores for nesting, e.g.:
#
#   DITTOSERVE_LOGGING_LEVEL=DEBUG
#   DITTOSERVE_STATIC_ROOT=/srv/www
#
# static.chunk_size accepts human-readable sizes ("64KiB", "1Mi").
# static.ignored_exts lists suffixes tried for missing names; "*" matches any.

`

// InitConfig writes a sample configuration to the default location and
// returns its path.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration to path. An existing file
// is only replaced when force is set.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	data, err := SampleConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SampleConfig renders the default configuration as commented YAML.
func SampleConfig() ([]byte, error) {
	body, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sample config: %w", err)
	}
	return append([]byte(sampleHeader), body...), nil
}
