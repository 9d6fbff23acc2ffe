package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SCHEDULER_TENANTS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Scheduling.SlotDuration)
	assert.True(t, cfg.Scheduling.EnforceSlotDuration)
	assert.True(t, cfg.Scheduling.RequireWithinSchedule)
	assert.Equal(t, 10*time.Minute, cfg.Scheduling.ScheduleCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Health.Timeout)
	assert.Empty(t, cfg.Scheduler.Tenants)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SLOT_DURATION", "20m")
	t.Setenv("ENFORCE_SLOT_DURATION", "false")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SCHEDULER_TENANTS", "clinic_a, clinic_b")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 20*time.Minute, cfg.Scheduling.SlotDuration)
	assert.False(t, cfg.Scheduling.EnforceSlotDuration)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"clinic_a", "clinic_b"}, cfg.Scheduler.Tenants)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "STORAGE_DRIVER", val: "mongo"},
		{name: "sub-minute slot", key: "SLOT_DURATION", val: "30s"},
		{name: "fractional slot", key: "SLOT_DURATION", val: "90s"},
		{name: "bad timezone", key: "SCHEDULER_TIMEZONE", val: "Mars/Olympus"},
		{name: "bad cron", key: "SCHEDULER_NO_SHOW_CRON", val: "every night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", Name: "clinic", User: "app", Password: "p@ss", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/clinic?sslmode=disable", db.DSN())

	db.URL = "postgres://override"
	assert.Equal(t, "postgres://override", db.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380"}.Addr())
}
