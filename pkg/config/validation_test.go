package config

import (
	"strings"
	"testing"

	"github.com/marmos91/dittoserve/internal/bytesize"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Config.Logging.Level") {
		t.Errorf("Expected field namespace in error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidServerPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_InvalidMetricsPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Port = -1

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for negative port")
	}
}

func TestValidate_SampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate above 1")
	}
}

func TestValidate_ShutdownTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ShutdownTimeout = -1

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for negative shutdown timeout")
	}
}

func TestValidate_Static(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StaticConfig)
		wantTag string
	}{
		{"MissingRoot", func(s *StaticConfig) { s.Root = "" }, "required"},
		{"MissingDefaultType", func(s *StaticConfig) { s.DefaultType = "" }, "required"},
		{"IndexNameWithSlash", func(s *StaticConfig) { s.IndexNames = []string{"index.html", "../etc/passwd"} }, "segment"},
		{"IndexNameDotDot", func(s *StaticConfig) { s.IndexNames = []string{".."} }, "segment"},
		{"IndexNameEmpty", func(s *StaticConfig) { s.IndexNames = []string{""} }, "segment"},
		{"IgnoredExtWithoutDot", func(s *StaticConfig) { s.IgnoredExts = []string{"html"} }, "ext"},
		{"IgnoredExtBareDot", func(s *StaticConfig) { s.IgnoredExts = []string{"."} }, "ext"},
		{"IgnoredExtSeparator", func(s *StaticConfig) { s.IgnoredExts = []string{".a/b"} }, "ext"},
		{"ContentTypeNotMIME", func(s *StaticConfig) { s.ContentTypes = map[string]string{".md": "markdown"} }, "mimetype"},
		{"EmptyEncodingKey", func(s *StaticConfig) { s.ContentEncodings = map[string]string{" ": "gzip"} }, "ext"},
		{"ChunkTooLarge", func(s *StaticConfig) { s.ChunkSize = 128 * bytesize.MiB }, "lte"},
		{"NegativeConcurrency", func(s *StaticConfig) { s.ReadConcurrency = -1 }, "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg.Static)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), "'"+tt.wantTag+"'") {
				t.Errorf("Expected %q violation, got: %v", tt.wantTag, err)
			}
		})
	}
}

func TestValidate_StaticAccepted(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Static.IgnoredExts = []string{".html", ".tar.gz", "*"}
	cfg.Static.IndexNames = []string{"index.html", ".index"}
	cfg.Static.ContentTypes = map[string]string{".md": "text/markdown", "wasm": "application/wasm"}
	cfg.Static.ContentEncodings = map[string]string{".zst": "zstd"}

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid static section, got: %v", err)
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"
	cfg.Static.Root = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if lines := strings.Split(err.Error(), "\n"); len(lines) != 2 {
		t.Errorf("Expected 2 violations, got %d: %v", len(lines), err)
	}
}
