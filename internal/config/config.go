package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port    string        `yaml:"port"`
	Storage StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	// Backend is one of file, postgres or redis.
	Backend     string `yaml:"backend"`
	DataFile    string `yaml:"data_file"`
	DatabaseURL string `yaml:"database_url"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisKey    string `yaml:"redis_key"`
}

func DefaultConfig() *Config {
	return &Config{
		Port: "8080",
		Storage: StorageConfig{
			Backend:  BackendFile,
			DataFile: "./data/bean.txt",
			RedisKey: "bean:tasks",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// BEAN_CONFIG (if set), then individual environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("BEAN_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getenv("PORT", c.Port)
	c.Storage.Backend = getenv("BEAN_STORE", c.Storage.Backend)
	c.Storage.DataFile = getenv("BEAN_DATA_FILE", c.Storage.DataFile)
	c.Storage.DatabaseURL = getenv("DATABASE_URL", c.Storage.DatabaseURL)
	// Accepts REDIS_ADDR like "localhost:6379" or "redis://localhost:6379"
	c.Storage.RedisAddr = strings.TrimPrefix(getenv("REDIS_ADDR", c.Storage.RedisAddr), "redis://")
	c.Storage.RedisKey = getenv("REDIS_KEY", c.Storage.RedisKey)
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("storage backend %q needs data_file", c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage backend %q needs database_url", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage backend %q needs redis_addr", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// getenv returns environment variable or defaultVal
func getenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
