package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Simulated, "paper trading is the default mode")
	assert.Greater(t, cfg.IntervalSeconds, 0)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHARTPILOT_SYMBOL", "EURUSD")
	t.Setenv("CHARTPILOT_INTERVAL_SECONDS", "60")
	t.Setenv("CHARTPILOT_MIN_CONFIDENCE", "80")
	t.Setenv("CHARTPILOT_SIMULATED", "false")

	cfg := DefaultConfig()
	assert.Equal(t, "EURUSD", cfg.Symbol)
	assert.Equal(t, 60, cfg.IntervalSeconds)
	assert.Equal(t, 80.0, cfg.MinConfidence)
	assert.False(t, cfg.Simulated)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("CHARTPILOT_INTERVAL_SECONDS", "not-a-number")
	t.Setenv("CHARTPILOT_RISK_PER_TRADE", "???")

	cfg := DefaultConfig()
	assert.Equal(t, 300, cfg.IntervalSeconds)
	assert.Equal(t, 1.0, cfg.RiskPerTrade)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_interval", func(c *Config) { c.IntervalSeconds = 0 }},
		{"confidence_out_of_range", func(c *Config) { c.MinConfidence = 101 }},
		{"zero_risk", func(c *Config) { c.RiskPerTrade = 0 }},
		{"zero_balance", func(c *Config) { c.InitialBalance = 0 }},
		{"unknown_provider", func(c *Config) { c.LLMProvider = "anthropic" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
