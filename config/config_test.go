package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ADMIN_ID", "")
	t.Setenv("DRAFT_TTL", "")

	LoadConfig()

	assert.Equal(t, "/api/v1", MAIN_ROUTES)
	assert.Equal(t, "memory", StoreDriver)
	assert.Equal(t, "punit", AdminID)
	assert.Equal(t, 30*time.Minute, DraftTTL)
	assert.True(t, allowedOrigins["http://127.0.0.1:3000"])
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DRAFT_TTL", "60")
	t.Setenv("NG_ALERT_TO", "qa@example.com, plant@example.com ,")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	LoadConfig()

	assert.Equal(t, "redis", StoreDriver)
	assert.Equal(t, 3, RedisDB)
	assert.Equal(t, time.Minute, DraftTTL)
	assert.Equal(t, []string{"qa@example.com", "plant@example.com"}, NGAlertTo)
	assert.True(t, allowedOrigins["http://b.test"])
	assert.False(t, allowedOrigins["http://127.0.0.1:3000"])
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("SOME_NUMBER", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_NUMBER", 7))
}
