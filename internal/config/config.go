package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"staybase/internal/server"
)

// Config holds the application configuration
type Config struct {
	Server  server.Config `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Seed    SeedConfig    `yaml:"seed"`
}

// StorageConfig selects and parameterizes the store backend.
type StorageConfig struct {
	// Backend is "mongo" or "memory".
	Backend          string        `yaml:"backend"`
	URI              string        `yaml:"uri"`
	Database         string        `yaml:"database"`
	Collection       string        `yaml:"collection"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
}

// SeedConfig controls sample-data loading at startup.
type SeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: server.DefaultConfig(),
		Storage: StorageConfig{
			Backend:          "mongo",
			URI:              "mongodb://localhost:27017",
			Database:         "training",
			Collection:       "listingsAndReviews",
			OperationTimeout: 10 * time.Second,
		},
		Logging: DefaultLoggingConfig(),
		Seed:    SeedConfig{Enabled: true},
	}
}

// LoadConfig loads configuration from files and environment variables.
// Order: defaults -> config.yml -> config.local.yml -> env overrides -> validate.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	loadFile("config/config.yml", cfg)
	loadFile("config/config.local.yml", cfg)

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "mongo" && c.Storage.URI == "" {
		return fmt.Errorf("storage.uri is required for the mongo backend")
	}
	if c.Storage.OperationTimeout <= 0 {
		return fmt.Errorf("storage.operation_timeout must be positive")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STAYBASE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("STAYBASE_MONGO_URI"); v != "" {
		c.Storage.URI = v
	}
	if v := os.Getenv("STAYBASE_DATABASE"); v != "" {
		c.Storage.Database = v
	}
	if v := os.Getenv("STAYBASE_COLLECTION"); v != "" {
		c.Storage.Collection = v
	}
	if v := os.Getenv("STAYBASE_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
	if v := os.Getenv("STAYBASE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STAYBASE_SEED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Seed.Enabled = enabled
		}
	}
}

func loadFile(filename string, cfg *Config) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return // File doesn't exist, skip
		}
		log.Printf("Warning: Error reading %s: %v", filename, err)
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("Warning: Error parsing %s: %v", filename, err)
	}
}
