// Package config loads worker settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "config.yaml"

type Config struct {
	DBURL       string `yaml:"db_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`

	R2 R2Config `yaml:"r2"`

	GoogleAPIKey string  `yaml:"google_api_key"`
	AgentModel   string  `yaml:"agent_model"`
	AgentRPS     float64 `yaml:"agent_rps"`

	Workers        int           `yaml:"workers"`
	PDFTimeout     time.Duration `yaml:"pdf_timeout"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	FetchUserAgent string        `yaml:"fetch_user_agent"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`

	RedisAddr string        `yaml:"redis_addr"`
	RedisPass string        `yaml:"redis_pass"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type R2Config struct {
	AccountID string `yaml:"account_id"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Load reads .env if present, then the YAML file named by CONFIG_FILE
// (default config.yaml) if present, then environment overrides. A missing
// file is not an error; a malformed one is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	path := getEnv("CONFIG_FILE", DefaultFile)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.DBURL = getEnv("DB_URL", cfg.DBURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)

	// R2_ACCCOUNT_ID is the spelling older deployments use.
	cfg.R2.AccountID = getEnv("R2_ACCOUNT_ID", getEnv("R2_ACCCOUNT_ID", cfg.R2.AccountID))
	cfg.R2.Bucket = getEnv("R2_BUCKET", cfg.R2.Bucket)
	cfg.R2.AccessKey = getEnv("R2_ACCESS_KEY", cfg.R2.AccessKey)
	cfg.R2.SecretKey = getEnv("R2_SECRET_KEY", cfg.R2.SecretKey)

	cfg.GoogleAPIKey = getEnv("GOOGLE_API_KEY", cfg.GoogleAPIKey)
	cfg.AgentModel = getEnv("AGENT_MODEL", orString(cfg.AgentModel, "gemini-2.5-pro"))
	cfg.AgentRPS = getEnvAsFloat("AGENT_RPS", orFloat(cfg.AgentRPS, 1))

	cfg.Workers = getEnvAsInt("WORKERS", orInt(cfg.Workers, 3))
	cfg.PDFTimeout = getEnvAsDuration("PDF_TIMEOUT", orDuration(cfg.PDFTimeout, 10*time.Second))
	cfg.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", orDuration(cfg.FetchTimeout, 30*time.Second))
	cfg.FetchUserAgent = getEnv("FETCH_USER_AGENT", cfg.FetchUserAgent)
	cfg.MaxUploadBytes = int64(getEnvAsInt("MAX_UPLOAD_BYTES", int(orInt64(cfg.MaxUploadBytes, 5<<20))))

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPass = getEnv("REDIS_PASS", cfg.RedisPass)
	cfg.CacheTTL = getEnvAsDuration("CACHE_TTL", orDuration(cfg.CacheTTL, 24*time.Hour))

	return cfg, nil
}

// Validate reports the first missing setting the worker cannot run without.
func (c *Config) Validate() error {
	required := []struct {
		name, value string
	}{
		{"DB_URL", c.DBURL},
		{"RABBITMQ_URL", c.RabbitMQURL},
		{"R2_ACCOUNT_ID", c.R2.AccountID},
		{"R2_BUCKET", c.R2.Bucket},
		{"R2_ACCESS_KEY", c.R2.AccessKey},
		{"R2_SECRET_KEY", c.R2.SecretKey},
		{"GOOGLE_API_KEY", c.GoogleAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("empty %s in environment", r.name)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.AgentRPS <= 0 {
		return fmt.Errorf("AGENT_RPS must be positive, got %v", c.AgentRPS)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func orString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func orInt(v, d int) int {
	if v == 0 {
		return d
	}
	return v
}

func orInt64(v, d int64) int64 {
	if v == 0 {
		return d
	}
	return v
}

func orFloat(v, d float64) float64 {
	if v == 0 {
		return d
	}
	return v
}

func orDuration(v, d time.Duration) time.Duration {
	if v == 0 {
		return d
	}
	return v
}
