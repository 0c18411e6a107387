/*
Package config loads the INI configuration and sets up logging.

FILE FORMAT:
  [server]
  port = 8080
  read_timeout = 15s
  write_timeout = 15s
  allowed_origins = http://localhost:3000,http://localhost:5173
  rate_qps = 200
  rate_burst = 400

  [database]
  path = ./data/periods.db

  [periods]
  universe_file =              ; empty means the embedded table
  default_fiscal_year_end = 12-31
  date_pattern = %Y-%m-%d
  schedule_workers = 4
  warm_interval = 1h           ; 0 disables the snapshot warmer

  [log]
  level = info                 ; logrus level name
  format = text                ; text or json

A missing file is not an error: every key has a default.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-ini/ini"
	"github.com/sirupsen/logrus"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `ini:"server"`
	Database DatabaseConfig `ini:"database"`
	Periods  PeriodsConfig  `ini:"periods"`
	Log      LogConfig      `ini:"log"`
}

type ServerConfig struct {
	Port           int           `ini:"port"`
	ReadTimeout    time.Duration `ini:"read_timeout"`
	WriteTimeout   time.Duration `ini:"write_timeout"`
	AllowedOrigins []string      `ini:"allowed_origins" delim:","`
	RateQPS        float64       `ini:"rate_qps"`   // 0 disables rate limiting
	RateBurst      int           `ini:"rate_burst"`
}

type DatabaseConfig struct {
	Path string `ini:"path"`
}

type PeriodsConfig struct {
	UniverseFile         string        `ini:"universe_file"`
	DefaultFiscalYearEnd string        `ini:"default_fiscal_year_end"`
	DatePattern          string        `ini:"date_pattern"`
	ScheduleWorkers      int           `ini:"schedule_workers"`
	WarmInterval         time.Duration `ini:"warm_interval"`
}

type LogConfig struct {
	Level  string `ini:"level"`
	Format string `ini:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateQPS:        200,
			RateBurst:      400,
		},
		Database: DatabaseConfig{Path: "./data/periods.db"},
		Periods: PeriodsConfig{
			DefaultFiscalYearEnd: "12-31",
			DatePattern:          calendar.DefaultPattern,
			ScheduleWorkers:      periods.DefaultScheduleWorkers,
			WarmInterval:         time.Hour,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Config file %s not found, using defaults", path)
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := f.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to map config %s: %w", path, err)
	}
	// MapTo skips durations <= 0, so 0 and negative intervals are read here.
	if key := f.Section("periods").Key("warm_interval"); key.String() != "" {
		d, err := key.Duration()
		if err != nil {
			return nil, fmt.Errorf("periods.warm_interval: %w", err)
		}
		cfg.Periods.WarmInterval = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	logrus.Infof("Config loaded from %s", path)
	return cfg, nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateQPS < 0 || c.Server.RateBurst < 0 {
		return errors.New("server rate limits must be non-negative")
	}
	if c.Periods.DefaultFiscalYearEnd != "" {
		if _, err := calendar.ParseFiscalYearEnd(c.Periods.DefaultFiscalYearEnd); err != nil {
			return fmt.Errorf("periods.default_fiscal_year_end: %w", err)
		}
	}
	if c.Periods.ScheduleWorkers < 0 {
		return errors.New("periods.schedule_workers must be non-negative")
	}
	if c.Periods.WarmInterval < 0 {
		return errors.New("periods.warm_interval must be non-negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// DefaultFiscalYearEnd parses the configured fallback fiscal year-end.
// Zero when unset.
func (c *Config) DefaultFiscalYearEnd() calendar.FiscalYearEnd {
	fye, _ := calendar.ParseFiscalYearEnd(c.Periods.DefaultFiscalYearEnd)
	return fye
}

// LoadTable returns the definition table: the configured universe file, or
// the embedded one.
func (c *Config) LoadTable() (*periods.Table, error) {
	if c.Periods.UniverseFile == "" {
		return periods.DefaultTable(), nil
	}
	f, err := os.Open(c.Periods.UniverseFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := periods.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Periods.UniverseFile, err)
	}
	logrus.Infof("Loaded %d period definitions from %s", table.Len(), c.Periods.UniverseFile)
	return table, nil
}

// SetupLogging applies the [log] section to the standard logrus logger.
func (c *Config) SetupLogging() {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
