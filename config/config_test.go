package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kovanlabs/pogen/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pogen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
brand: ACME
currency: "$"
barcode: code128
compress: false
server:
  addr: 127.0.0.1:9000
log:
  level: debug
defaults:
  company:
    name: Acme Corp
    address: 1 Main St
    phone: "555-0100"
  due_in_days: 7
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Brand != "ACME" || cfg.Currency != "$" || cfg.Compress {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.SequenceStart != 1 {
		t.Errorf("unset key lost its default: sequence_start = %d", cfg.Server.SequenceStart)
	}
	if cfg.Defaults.Company.Phone != "555-0100" {
		t.Errorf("company = %+v", cfg.Defaults.Company)
	}
	if cfg.Defaults.Terms == "" {
		t.Error("default terms were cleared")
	}
	if lvl, err := cfg.SlogLevel(); err != nil || lvl != slog.LevelDebug {
		t.Errorf("level = %v, %v", lvl, err)
	}
	if d := cfg.DraftDefaults(); d.DueInDays != 7 || d.Company.Name != "Acme Corp" {
		t.Errorf("draft defaults = %+v", d)
	}
	if n := len(cfg.ComposerOptions()); n < 5 {
		t.Errorf("%d composer options", n)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "brand: [unterminated", "failed to parse"},
		{"bad barcode", "barcode: qr", "barcode"},
		{"bad level", "log:\n  level: loud", "log.level"},
		{"negative due", "defaults:\n  due_in_days: -1", "due_in_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != config.Default().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg, err := config.LoadOrDefault(""); err != nil || cfg == nil {
		t.Errorf("empty path: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pogen.yaml")
	cfg := config.Default()
	cfg.Brand = "KOVAN LABS"
	cfg.Barcode = "pdf417"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Brand != cfg.Brand || got.Barcode != cfg.Barcode || got.Defaults.Company != cfg.Defaults.Company {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"

	var buf strings.Builder
	log, err := cfg.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}

	t.Setenv("LOG_LEVEL", "debug")
	buf.Reset()
	if log, err = cfg.Logger(&buf); err != nil {
		t.Fatal(err)
	}
	log.Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("LOG_LEVEL=debug ignored: %q", buf.String())
	}
}
