package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbot/internal/mastery"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORE_BACKEND", "FLUSH_INTERVAL", "SAVE_EVERY", "MISS_POLICY", "DB_DRIVER"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQL, cfg.StoreBackend)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.FlushInterval)
	assert.Equal(t, 5, cfg.SaveEvery)
	assert.Equal(t, mastery.MissReset, cfg.MissPolicy)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("FLUSH_INTERVAL", "1m")
	t.Setenv("SAVE_EVERY", "3")
	t.Setenv("MISS_POLICY", "decrement")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, time.Minute, cfg.FlushInterval)
	assert.Equal(t, 3, cfg.SaveEvery)
	assert.Equal(t, mastery.MissDecrement, cfg.MissPolicy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"STORE_BACKEND":  "mongo",
		"FLUSH_INTERVAL": "soon",
		"SAVE_EVERY":     "0",
		"MISS_POLICY":    "forgive",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
