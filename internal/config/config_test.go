package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":        "postgres://localhost/cse",
		"ACCESS_TOKEN_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5500", cfg.HTTPPort)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.Development())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromLookup_NodeEnvDevelopment(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"NODE_ENV": "development"}))
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.NotEmpty(t, cfg.JWTSecret, "development gets a fallback secret")
	assert.Empty(t, cfg.DatabaseURL)
}

func TestFromLookup_AppEnvWins(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"APP_ENV":             "production",
		"NODE_ENV":            "development",
		"ACCESS_TOKEN_SECRET": "x",
		"DATABASE_URL":        "postgres://db",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.Development())
}

func TestFromLookup_MissingSecret(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"DATABASE_URL": "postgres://db"}))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestFromLookup_MissingDatabase(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"ACCESS_TOKEN_SECRET": "x"}))
	assert.Error(t, err)
}

func TestFromLookup_TTL(t *testing.T) {
	base := map[string]string{"APP_ENV": "development"}

	base["JWT_TTL"] = "30m"
	cfg, err := FromLookup(lookupFrom(base))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)

	base["JWT_TTL"] = "soon"
	_, err = FromLookup(lookupFrom(base))
	assert.Error(t, err)
}
