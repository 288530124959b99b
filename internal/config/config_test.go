package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 8192, cfg.LLM.MaxTokens)
	assert.Equal(t, 10, cfg.Worker.Concurrency)
	assert.Equal(t, "cv-documents", cfg.Storage.Bucket)
	assert.Equal(t, 10, cfg.Pipeline.MinTextLength)
	assert.Equal(t, 50000, cfg.Pipeline.MaxTextLength)
	assert.Equal(t, 600, cfg.Pipeline.LockTTLSec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("WORKER_CONCURRENCY", "4")
	t.Setenv("PIPELINE_MIN_TEXT_LENGTH", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 25, cfg.Pipeline.MinTextLength)
}

func TestLoadRejectsBadInts(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_CONCURRENCY")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_SERVICE_KEY")

	cfg.Database.URL = "postgres://localhost/screening"
	cfg.Storage.SupabaseURL = "https://x.supabase.co"
	cfg.Storage.SupabaseKey = "key"
	assert.NoError(t, cfg.Validate())
}
