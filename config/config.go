/*
Package config loads server configuration.

PURPOSE:
  Resolves settings in three layers, later layers winning:
    1. Built-in defaults
    2. Environment variables (an optional .env file is loaded first)
    3. Command-line flags

KEYS:
  PORT               HTTP port (default 8080)
  DB_PATH            SQLite path, ":memory:" for in-memory (default payroll.db)
  LOG_LEVEL          zap level (default info)
  APP_ENV            "development" switches to console logging (default production)
  HOLIDAYS_FILE      Extra official holiday table (JSON), merged over the built-in one
  REPORT_WORKERS     Report worker limit, 0 = GOMAXPROCS
  SNAPSHOT_INTERVAL  Month-close snapshot check interval (default 1h, 0 disables)
  ALLOWED_ORIGINS    Comma-separated CORS origins

SEE ALSO:
  - cmd/server/main.go: Startup
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DBPath           string
	LogLevel         string
	Env              string
	HolidaysFile     string
	ReportWorkers    int
	SnapshotInterval time.Duration
	AllowedOrigins   []string
}

func Defaults() Config {
	return Config{
		Port:             8080,
		DBPath:           "payroll.db",
		LogLevel:         "info",
		Env:              "production",
		SnapshotInterval: time.Hour,
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads envFile (if it exists), the environment, then args.
// A missing envFile is not an error.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv applies environment values over the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	cfg.HolidaysFile = getenv("HOLIDAYS_FILE")
	if v := getenv("REPORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REPORT_WORKERS: %w", err)
		}
		cfg.ReportWorkers = n
	}
	if v := getenv("SNAPSHOT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SNAPSHOT_INTERVAL: %w", err)
		}
		cfg.SnapshotInterval = d
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return cfg, nil
}

func (c *Config) parseFlags(args []string) error {
	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	fset.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fset.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fset.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fset.StringVar(&c.HolidaysFile, "holidays", c.HolidaysFile, "official holiday table (JSON)")
	fset.IntVar(&c.ReportWorkers, "workers", c.ReportWorkers, "report worker limit (0 = GOMAXPROCS)")
	fset.DurationVar(&c.SnapshotInterval, "snapshot-interval", c.SnapshotInterval, "month-close snapshot interval (0 disables)")
	return fset.Parse(args)
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.ReportWorkers < 0 {
		return fmt.Errorf("report workers must be >= 0, got %d", c.ReportWorkers)
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("snapshot interval must be >= 0, got %s", c.SnapshotInterval)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
