package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a ledger repo.
const FileName = "ledgerbook.yaml"

// Storage drivers.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Storage  StorageConfig  `yaml:"storage"`
	Reports  ReportsConfig  `yaml:"reports"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217, display only
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// StorageConfig selects where accounts and journal entries are read from.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // sqlite file, relative to the repo root
}

// ReportsConfig tunes report generation.
type ReportsConfig struct {
	Parallelism     int    `yaml:"parallelism"`
	ReportUngrouped bool   `yaml:"report_ungrouped"`
	CacheTTL        string `yaml:"cache_ttl"`
	LogAnomalies    bool   `yaml:"log_anomalies"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, currency string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: currency,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Storage: StorageConfig{
			Driver: DriverCSV,
			Path:   "ledger.db",
		},
		Reports: ReportsConfig{
			Parallelism:     4,
			ReportUngrouped: true,
			CacheTTL:        "5m",
			LogAnomalies:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the fields that are interpreted rather than copied.
func (c *Config) Validate() error {
	if _, _, err := c.Fiscal.Start(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case "", DriverCSV, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := c.Reports.TTL(); err != nil {
		return err
	}
	if c.Reports.Parallelism < 0 {
		return fmt.Errorf("config: negative parallelism %d", c.Reports.Parallelism)
	}
	return nil
}

// Start returns the month and day the fiscal year begins. An empty
// year_start means January 1.
func (f FiscalConfig) Start() (time.Month, int, error) {
	if f.YearStart == "" {
		return time.January, 1, nil
	}
	t, err := time.Parse("01-02", f.YearStart)
	if err != nil {
		return 0, 0, fmt.Errorf("config: fiscal year_start %q: want MM-DD", f.YearStart)
	}
	return t.Month(), t.Day(), nil
}

// TTL parses cache_ttl. Empty means no caching.
func (r ReportsConfig) TTL() (time.Duration, error) {
	if r.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("config: cache_ttl: %w", err)
	}
	return d, nil
}
