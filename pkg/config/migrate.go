package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dittoserve/internal/logger"
)

// CurrentVersion is the configuration schema version written by this release.
const CurrentVersion = 3

// migration upgrades a raw configuration document from version-1 to version.
type migration struct {
	version int
	name    string
	apply   func(raw map[string]any) error
}

// migrations run in order; each runs once, when the document is older
// than its version.
var migrations = []migration{
	{1, "index_name becomes index_names", migrateIndexName},
	{2, "explicit default_type", migrateDefaultType},
	{3, "allow_ext becomes ignored_exts", migrateAllowExt},
}

// Migrate upgrades raw in place to CurrentVersion and returns the version
// it started from. A document without a version key is version 0.
func Migrate(raw map[string]any) (int, error) {
	from, err := documentVersion(raw)
	if err != nil {
		return 0, err
	}
	if from > CurrentVersion {
		return from, fmt.Errorf("config version %d is newer than supported version %d", from, CurrentVersion)
	}

	for _, m := range migrations {
		if from >= m.version {
			continue
		}
		if err := m.apply(raw); err != nil {
			return from, fmt.Errorf("migrate to version %d (%s): %w", m.version, m.name, err)
		}
		logger.Debug("Config migrated", "version", m.version, "step", m.name)
	}

	raw["version"] = CurrentVersion
	return from, nil
}

// MigrateFile rewrites the file at path at CurrentVersion. It returns the
// version the file had; when it was already current the file is untouched.
func MigrateFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	from, err := Migrate(raw)
	if err != nil {
		return from, err
	}
	if from == CurrentVersion {
		return from, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return from, fmt.Errorf("failed to marshal config: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return from, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return from, fmt.Errorf("failed to write config file: %w", err)
	}
	return from, nil
}

func documentVersion(raw map[string]any) (int, error) {
	v, ok := raw["version"]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("config version must be an integer, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("config version must be an integer, got %T", v)
	}
}

// staticSection returns raw["static"], creating it when absent.
func staticSection(raw map[string]any) (map[string]any, error) {
	v, ok := raw["static"]
	if !ok || v == nil {
		s := map[string]any{}
		raw["static"] = s
		return s, nil
	}
	s, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("static must be a mapping, got %T", v)
	}
	return s, nil
}

// migrateIndexName replaces the single static.index_name with a one
// element static.index_names list.
func migrateIndexName(raw map[string]any) error {
	s, err := staticSection(raw)
	if err != nil {
		return err
	}
	name, ok := s["index_name"]
	if !ok {
		return nil
	}
	delete(s, "index_name")

	str, ok := name.(string)
	if !ok {
		return fmt.Errorf("static.index_name must be a string, got %T", name)
	}
	if _, exists := s["index_names"]; !exists && str != "" {
		s["index_names"] = []any{str}
	}
	return nil
}

// migrateDefaultType pins static.default_type, which used to be implicit.
func migrateDefaultType(raw map[string]any) error {
	s, err := staticSection(raw)
	if err != nil {
		return err
	}
	if v, ok := s["default_type"]; !ok || v == "" || v == nil {
		s["default_type"] = "text/html"
	}
	return nil
}

// migrateAllowExt turns the boolean static.allow_ext into the wildcard
// ignored extension.
func migrateAllowExt(raw map[string]any) error {
	s, err := staticSection(raw)
	if err != nil {
		return err
	}
	v, ok := s["allow_ext"]
	if !ok {
		return nil
	}
	delete(s, "allow_ext")

	allow, ok := v.(bool)
	if !ok {
		return fmt.Errorf("static.allow_ext must be a boolean, got %T", v)
	}
	if !allow {
		return nil
	}

	var exts []any
	switch cur := s["ignored_exts"].(type) {
	case nil:
	case []any:
		exts = cur
	default:
		return fmt.Errorf("static.ignored_exts must be a list, got %T", cur)
	}
	for _, e := range exts {
		if e == "*" {
			return nil
		}
	}
	s["ignored_exts"] = append(exts, "*")
	return nil
}
