package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_PUBLIC_URL", "")
	t.Setenv("MONGO_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "luxegear-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "luxegear", cfg.Mongo.Database)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.True(t, cfg.HTTP.AuthRateLimitEnabled)
	assert.Equal(t, 20, cfg.HTTP.AuthRateLimitRequests)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_APP_PORT", "9090")
	t.Setenv("STORE_STORE_DRIVER", "memory")
	t.Setenv("STORE_MONGO_DATABASE", "shop")
	t.Setenv("STORE_HTTP_REQUEST_TIMEOUT", "3s")
	t.Setenv("STORE_HTTP_AUTH_RATE_LIMIT_ENABLED", "false")
	t.Setenv("STORE_STORAGE_BUCKET", "images")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "shop", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.HTTP.RequestTimeout)
	assert.False(t, cfg.HTTP.AuthRateLimitEnabled)
	assert.True(t, cfg.StorageEnabled())
}

func TestLoadPlatformMongoURL(t *testing.T) {
	t.Setenv("STORE_MONGO_URI", "")
	t.Setenv("MONGO_PUBLIC_URL", "")
	t.Setenv("MONGO_URL", "mongodb://railway:27017")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://railway:27017", cfg.Mongo.URI)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}, Store: StoreConfig{Driver: "mongo"}}
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.HTTP.CORSAllowOrigins = []string{"https://shop.example.com"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid production", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 characters"},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "jwt.secret is required"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cannot be '*'"},
		{"memory store", func(c *Config) { c.Store.Driver = "memory" }, "not allowed in production"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, "store.driver"},
		{"bad sampling", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "sampling_ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("STORE_APP_ENV", "production")
	t.Setenv("STORE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}
