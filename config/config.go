// Package config loads the configuration of the pogen binaries.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/draft"
	"github.com/kovanlabs/pogen/logo"
	"github.com/kovanlabs/pogen/mark"
)

// DefaultPath is where the binaries look for their configuration.
const DefaultPath = "pogen.yaml"

// Config is the root configuration structure.
type Config struct {
	Brand      string         `yaml:"brand"`
	Logo       string         `yaml:"logo"`
	Letterhead string         `yaml:"letterhead"`
	Currency   string         `yaml:"currency"`
	Barcode    string         `yaml:"barcode"`
	Compress   bool           `yaml:"compress"`
	PageSize   string         `yaml:"page_size"`
	Font       FontConfig     `yaml:"font"`
	Server     ServerConfig   `yaml:"server"`
	Log        LogConfig      `yaml:"log"`
	Defaults   DefaultsConfig `yaml:"defaults"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// SequenceStart is the first PO counter value handed out.
	SequenceStart int `yaml:"sequence_start"`
}

// FontConfig names TrueType files to embed in place of Helvetica.
type FontConfig struct {
	Regular string `yaml:"regular"`
	Bold    string `yaml:"bold"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultsConfig seeds new purchase orders.
type DefaultsConfig struct {
	Company   pogen.Party `yaml:"company"`
	Terms     string      `yaml:"terms"`
	DueInDays int         `yaml:"due_in_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logo:     logo.DefaultPath,
		Currency: pogen.DefaultCurrencySymbol,
		Barcode:  "none",
		Compress: true,
		PageSize: "A4",
		Server: ServerConfig{
			Addr:          ":8080",
			SequenceStart: 1,
		},
		Log: LogConfig{Level: "info"},
		Defaults: DefaultsConfig{
			Company: pogen.Party{
				Name:    "Kovan Labs",
				Address: "GF44, Tidel park, Coimbatore, India - 641 014",
				Phone:   "8675955999",
			},
			Terms:     draft.DefaultTerms,
			DueInDays: draft.DefaultDueInDays,
		},
	}
}

// Load reads the configuration at path over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that cannot be checked by the YAML decoder.
func (c *Config) Validate() error {
	if _, err := mark.ParseSymbology(c.Barcode); err != nil {
		return fmt.Errorf("config: barcode: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Defaults.DueInDays < 0 {
		return fmt.Errorf("config: defaults.due_in_days must not be negative, got %d", c.Defaults.DueInDays)
	}
	return nil
}

// SlogLevel parses log.level. An empty level is Info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// Logger returns a text logger on w at log.level. LOG_LEVEL=debug in the
// environment forces debug logging.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// ComposerOptions maps the configuration onto composer options.
func (c *Config) ComposerOptions() []pogen.Option {
	opts := []pogen.Option{
		pogen.WithCompression(c.Compress),
	}
	if c.Brand != "" {
		opts = append(opts, pogen.WithBrandName(c.Brand))
	}
	if c.Logo != "" {
		opts = append(opts, pogen.WithLogoPath(c.Logo))
	}
	if c.Letterhead != "" {
		opts = append(opts, pogen.WithLetterhead(c.Letterhead))
	}
	if c.Currency != "" {
		opts = append(opts, pogen.WithCurrencySymbol(c.Currency))
	}
	if c.Font.Regular != "" {
		opts = append(opts, pogen.WithFont(c.Font.Regular, c.Font.Bold))
	}
	if c.PageSize != "" {
		opts = append(opts, pogen.WithPageSize(c.PageSize))
	}
	if sym, err := mark.ParseSymbology(c.Barcode); err == nil && sym != mark.None {
		opts = append(opts, pogen.WithBarcode(sym))
	}
	return opts
}

// DraftDefaults returns the seed values for new drafts.
func (c *Config) DraftDefaults() draft.Defaults {
	return draft.Defaults{
		Company:   c.Defaults.Company,
		Terms:     c.Defaults.Terms,
		DueInDays: c.Defaults.DueInDays,
	}
}
