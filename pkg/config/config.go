package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for pricebook.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8085"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Uploads configuration (original quotation files)
	Uploads UploadsConfig `yaml:"uploads"`

	// Parser configuration (quotation sheet extraction)
	Parser ParserConfig `yaml:"parser"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"pricebook"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"pricebook"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// URL builds a PostgreSQL connection string from the configuration.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// UploadsConfig holds settings for storing original uploaded files.
type UploadsConfig struct {
	// Dir is the root directory for saved quotation files.
	Dir string `yaml:"dir" env:"UPLOADS_DIR" env-default:"uploads/quotes"`
	// MaxBytes limits the size of a single uploaded file.
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOADS_MAX_BYTES" env-default:"10485760"`
}

// ParserConfig holds tunables for quotation sheet extraction.
type ParserConfig struct {
	// HeaderScanRows is how many leading rows are scanned for a header.
	HeaderScanRows int `yaml:"header_scan_rows" env:"PARSER_HEADER_SCAN_ROWS" env-default:"20"`
	// MaxWarnings bounds how many row-level warnings are returned to the
	// caller; the excess is summarized by count.
	MaxWarnings int `yaml:"max_warnings" env:"PARSER_MAX_WARNINGS" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml is absent, environment variables alone
// are used. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}
