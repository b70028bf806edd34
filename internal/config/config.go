package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides validated configuration to the fx graph.
var Module = fx.Provide(New)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string

	OrdersCSV    string
	IPMappingCSV string
	ExportCSV    string

	IPInfoToken string
	BatchSize   int
	Workers     int

	ReportState string
	ReportYear  int
	ReportDir   string

	DBType     string
	DBPath     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

const (
	defaultBatchSize = 1000
	maxWorkers       = 8
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:    getenv("APP_SERVICE", "geotally"),
		AppVersion: getenv("APP_VERSION", "0.1.0"),

		OrdersCSV:    strings.TrimSpace(getenv("ORDERS_CSV", "")),
		IPMappingCSV: strings.TrimSpace(getenv("IP_MAPPING_CSV", "")),
		ExportCSV:    strings.TrimSpace(getenv("EXPORT_CSV", "")),

		IPInfoToken: strings.TrimSpace(getenv("IPINFO_TOKEN", "")),
		BatchSize:   getenvInt("ENRICH_BATCH_SIZE", defaultBatchSize),
		Workers:     getenvInt("ENRICH_WORKERS", defaultWorkers()),

		ReportState: strings.TrimSpace(getenv("REPORT_STATE", "")),
		ReportYear:  getenvInt("REPORT_YEAR", 0),
		ReportDir:   getenv("REPORT_DIR", "."),

		DBType:     getenv("DATABASE_TYPE", "sqlite"),
		DBPath:     getenv("DATABASE_PATH", "orders_db.sqlite"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "geotally"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
	}
}

// New loads configuration and rejects incomplete setups before any
// store mutation happens.
func New() (Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing required inputs. Input files must exist on
// disk, the rest only needs to be non-empty.
func (c Config) Validate() error {
	var errs []error
	if c.OrdersCSV == "" {
		errs = append(errs, errors.New("ORDERS_CSV is required"))
	} else if _, err := os.Stat(c.OrdersCSV); err != nil {
		errs = append(errs, fmt.Errorf("orders file %q: %w", c.OrdersCSV, err))
	}
	if c.IPMappingCSV == "" {
		errs = append(errs, errors.New("IP_MAPPING_CSV is required"))
	} else if _, err := os.Stat(c.IPMappingCSV); err != nil {
		errs = append(errs, fmt.Errorf("ip mapping file %q: %w", c.IPMappingCSV, err))
	}
	if c.IPInfoToken == "" {
		errs = append(errs, errors.New("IPINFO_TOKEN is required"))
	}
	if c.ReportState == "" {
		errs = append(errs, errors.New("REPORT_STATE is required"))
	}
	if c.ReportYear <= 0 {
		errs = append(errs, errors.New("REPORT_YEAR is required"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("ENRICH_BATCH_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
