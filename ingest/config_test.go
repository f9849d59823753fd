package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, "images", config.Container)
	assert.Equal(t, 5, config.BatchSize)
	assert.Equal(t, 10, config.ListLimit)
	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"empty container", func(c *Config) { c.Container = "" }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, true},
		{"zero list limit", func(c *Config) { c.ListLimit = 0 }, true},
		{"zero max attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }, true},
		{"zero retry delay is fine", func(c *Config) { c.RetryDelay = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
