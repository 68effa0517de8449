package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() string { return strings.Repeat("s", 32) }

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "eventbooking_test")
	t.Setenv("SESSION_TIMEOUT", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides.
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "eventbooking_test", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.Security.SessionTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSOrigins)

	// Untouched defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestLoad_RejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret())
	t.Setenv("PORT", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "events", SSLMode: "require",
	}.DSN()
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=events sslmode=require", dsn)
}
