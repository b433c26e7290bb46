package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Loader     LoaderConfig     `yaml:"loader"`
	Report     ReportConfig     `yaml:"report"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Jobs       JobsConfig       `yaml:"jobs"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
// A DSN starting with postgres://, postgresql:// or host= selects Postgres;
// anything else is a SQLite file path.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// LoaderConfig controls ingestion of the CSV source files.
type LoaderConfig struct {
	DataDir         string        `yaml:"data_dir"`
	LoadOnStart     bool          `yaml:"load_on_start"`
	IntervalSeconds int           `yaml:"interval_seconds"` // 0 disables periodic reloads
	Interval        time.Duration `yaml:"-"`
	BatchSize       int           `yaml:"batch_size"`
}

// ReportConfig controls report generation and output files.
type ReportConfig struct {
	OutputDir       string `yaml:"output_dir"`
	DefaultTimezone string `yaml:"default_timezone"`
	WriteParquet    bool   `yaml:"write_parquet"`
	FailFast        bool   `yaml:"fail_fast"`
}

// WorkerPoolConfig holds the configuration for the report worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// JobsConfig controls how long finished report jobs stay queryable.
type JobsConfig struct {
	TTLMinutes int           `yaml:"ttl_minutes"`
	TTL        time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 5
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "store_monitoring.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Loader.DataDir == "" {
		cfg.Loader.DataDir = "./data"
	}
	if cfg.Loader.IntervalSeconds < 0 {
		cfg.Loader.IntervalSeconds = 0
	}
	cfg.Loader.Interval = time.Duration(cfg.Loader.IntervalSeconds) * time.Second
	if cfg.Loader.BatchSize <= 0 {
		cfg.Loader.BatchSize = 1000
	}

	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "./reports"
	}
	if cfg.Report.DefaultTimezone == "" {
		cfg.Report.DefaultTimezone = "America/Chicago"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 100
	}

	if cfg.Jobs.TTLMinutes <= 0 {
		cfg.Jobs.TTLMinutes = 60
	}
	cfg.Jobs.TTL = time.Duration(cfg.Jobs.TTLMinutes) * time.Minute
}
