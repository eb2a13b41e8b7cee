package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "DENYLIST_IPS", "FLAG_THRESHOLD", "MAX_SESSION_EVENTS", "RATE_LIMIT_RPM"} {
		setEnv(t, key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultFlagThreshold, cfg.FlagThreshold)
	assert.Equal(t, DefaultRateLimitRPM, cfg.RateLimitRPM)
	assert.Equal(t, 0, cfg.MaxSessionEvents)
	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2"}, cfg.DenylistIPs)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "ENV", "production")
	setEnv(t, "DENYLIST_IPS", "203.0.113.9, 198.51.100.4")
	setEnv(t, "FLAG_THRESHOLD", "80")
	setEnv(t, "MAX_SESSION_EVENTS", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"203.0.113.9", "198.51.100.4"}, cfg.DenylistIPs)
	assert.Equal(t, 80, cfg.FlagThreshold)
	assert.Equal(t, 1000, cfg.MaxSessionEvents)
}

func TestLoad_InvalidDenylistEntry(t *testing.T) {
	setEnv(t, "DENYLIST_IPS", "1.1.1.1,not-an-ip")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-an-ip")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{FlagThreshold: 60, DenylistIPs: []string{"1.1.1.1"}}, false},
		{"negative threshold", Config{FlagThreshold: -1}, true},
		{"negative max events", Config{MaxSessionEvents: -5}, true},
		{"ipv6 denylist entry", Config{DenylistIPs: []string{"2001:db8::1"}}, false},
		{"bad denylist entry", Config{DenylistIPs: []string{"256.0.0.1"}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
