package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/marmos91/dittoserve/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version", "--short=false")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, "dittoserve "+Version) {
		t.Errorf("Expected version line, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, runtime.Version()) {
		t.Errorf("Expected Go version, got:\n%s", stdout)
	}

	stdout, err = execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if strings.TrimSpace(stdout) != Version {
		t.Errorf("Expected %q, got %q", Version, stdout)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")

	stdout, err := execute(t, "init", "--config", path, "--force=false")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(stdout, path) {
		t.Errorf("Expected path in output, got:\n%s", stdout)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("Generated config does not load: %v", err)
	}

	if err := os.WriteFile(path, []byte("static:\n  root: /elsewhere\n"), 0644); err != nil {
		t.Fatalf("Failed to modify config: %v", err)
	}
	if _, err := execute(t, "init", "--config", path, "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "/elsewhere") {
		t.Error("Expected --force to replace the file")
	}
}

func TestTypesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "static:\n  root: .\n  content_types:\n    .md: text/markdown\n  content_encodings:\n    .zst: zstd\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Run("Table", func(t *testing.T) {
		stdout, err := execute(t, "types", "--config", path, "-o", "table", "--encodings=false")
		if err != nil {
			t.Fatalf("types failed: %v", err)
		}
		if !strings.Contains(stdout, "text/markdown") || !strings.Contains(stdout, "text/css") {
			t.Errorf("Expected merged type table, got:\n%s", stdout)
		}
	})

	t.Run("EncodingsJSON", func(t *testing.T) {
		stdout, err := execute(t, "types", "--config", path, "-o", "json", "--encodings")
		if err != nil {
			t.Fatalf("types failed: %v", err)
		}
		var encodings map[string]string
		if err := json.Unmarshal([]byte(stdout), &encodings); err != nil {
			t.Fatalf("Output is not JSON: %v\n%s", err, stdout)
		}
		if encodings[".zst"] != "zstd" || encodings[".gz"] != "gzip" {
			t.Errorf("Unexpected encodings %v", encodings)
		}
	})

	t.Run("Negotiate", func(t *testing.T) {
		stdout, err := execute(t, "types", "--config", path, "-o", "json", "--encodings=false", "archive.tar.gz", "notes.MD", "README")
		if err != nil {
			t.Fatalf("types failed: %v", err)
		}
		var result []negotiation
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("Output is not JSON: %v\n%s", err, stdout)
		}
		want := []negotiation{
			{Name: "archive.tar.gz", Type: "application/x-tar", Encoding: "gzip"},
			{Name: "notes.MD", Type: "text/markdown"},
			{Name: "README", Type: "text/html"},
		}
		if len(result) != len(want) {
			t.Fatalf("Expected %d results, got %v", len(want), result)
		}
		for i := range want {
			if result[i] != want[i] {
				t.Errorf("result[%d] = %+v, want %+v", i, result[i], want[i])
			}
		}
	})

	t.Run("BadFormat", func(t *testing.T) {
		if _, err := execute(t, "types", "--config", path, "-o", "csv"); err == nil {
			t.Fatal("Expected error for unknown format")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if path != "" {
		t.Errorf("Expected no file, got %q", path)
	}
	if cfg.Static.Root != "." {
		t.Errorf("Expected default root, got %q", cfg.Static.Root)
	}
	if configSource(path) != "defaults" {
		t.Errorf("Unexpected source %q", configSource(path))
	}

	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for explicit missing file")
	}
}
