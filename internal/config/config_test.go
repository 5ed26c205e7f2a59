package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "MYSQL_DSN", "LOCK_TTL", "LOCK_TRIES", "STATS_CACHE_TTL", "MEDIA_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/vidhub")
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 32, cfg.Lock.Tries)
	assert.Equal(t, time.Minute, cfg.Cache.StatsTTL)
	assert.Empty(t, cfg.Media.Endpoint)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("LOCK_TTL", "750ms")
	t.Setenv("LOCK_TRIES", "not-a-number")
	t.Setenv("MEDIA_USE_SSL", "yes")
	t.Setenv("REDIS_DB", "3")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Lock.TTL)
	assert.Equal(t, 32, cfg.Lock.Tries)
	assert.True(t, cfg.Media.UseSSL)
	assert.Equal(t, 3, cfg.Redis.DB)
}
