package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Worker   WorkerConfig
	Pipeline PipelineConfig
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

type LLMConfig struct {
	Provider     string // "gemini", "openai" or "anthropic"
	GeminiKey    string
	OpenAIKey    string
	AnthropicKey string
	Model        string
	MaxTokens    int
}

type WorkerConfig struct {
	Concurrency int
	HealthAddr  string
}

type PipelineConfig struct {
	MinTextLength int
	MaxTextLength int
	LockTTLSec    int
}

func Load() (*Config, error) {
	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxTokens, err := getEnvInt("LLM_MAX_TOKENS", 8192)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}

	concurrency, err := getEnvInt("WORKER_CONCURRENCY", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	minText, err := getEnvInt("PIPELINE_MIN_TEXT_LENGTH", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_MIN_TEXT_LENGTH: %w", err)
	}

	maxText, err := getEnvInt("PIPELINE_MAX_TEXT_LENGTH", 50000)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_MAX_TEXT_LENGTH: %w", err)
	}

	lockTTL, err := getEnvInt("PIPELINE_LOCK_TTL_SECONDS", 600)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_LOCK_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Storage: StorageConfig{
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "cv-documents"),
		},
		LLM: LLMConfig{
			Provider:     getEnv("LLM_PROVIDER", "gemini"),
			GeminiKey:    getEnv("GEMINI_API_KEY", ""),
			OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:        getEnv("LLM_MODEL", "gemini-2.5-flash"),
			MaxTokens:    maxTokens,
		},
		Worker: WorkerConfig{
			Concurrency: concurrency,
			HealthAddr:  getEnv("WORKER_HEALTH_ADDR", ":8081"),
		},
		Pipeline: PipelineConfig{
			MinTextLength: minText,
			MaxTextLength: maxText,
			LockTTLSec:    lockTTL,
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Storage.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Storage.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
