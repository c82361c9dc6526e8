package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("DEBUG", "")
	t.Setenv("JWKS_URL", "")
	t.Setenv("LOG_MAX_FILES", "")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 10, cfg.LogMaxFiles)
	assert.False(t, cfg.AuthRequired())
}

func TestLoad_TablePrefix(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		override string
		want     string
	}{
		{name: "prod", env: "prod", want: "prod_"},
		{name: "test", env: "test", want: "test_"},
		{name: "unknown falls back to dev", env: "staging", want: "dev_"},
		{name: "explicit override wins", env: "prod", override: "custom_", want: "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("TABLE_PREFIX", tt.override)

			assert.Equal(t, tt.want, Load().TablePrefix)
		})
	}
}

func TestLoad_ProdRequiresAuth(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("JWKS_URL", "")
	t.Setenv("DEBUG", "")

	cfg := Load()

	assert.False(t, cfg.Debug)
	assert.True(t, cfg.AuthRequired())
}

func TestLoad_InvalidLogMaxFiles(t *testing.T) {
	t.Setenv("LOG_MAX_FILES", "not-a-number")
	assert.Equal(t, 10, Load().LogMaxFiles)

	t.Setenv("LOG_MAX_FILES", "3")
	assert.Equal(t, 3, Load().LogMaxFiles)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory in dev", mutate: func(c *Config) { c.Storage = StorageMemory }},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage = "sqlite" }, wantErr: "Storage"},
		{name: "unknown environment", mutate: func(c *Config) { c.Environment = "staging" }, wantErr: "Environment"},
		{
			name: "memory in prod",
			mutate: func(c *Config) {
				c.Environment = "prod"
				c.Storage = StorageMemory
			},
			wantErr: "prod requires postgres storage",
		},
		{name: "postgres without url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DatabaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "dev")
			t.Setenv("STORAGE", "")
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
