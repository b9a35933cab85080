package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantErr  error
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults com variáveis obrigatórias",
			env: map[string]string{
				"DATABASE_URL": "postgres://u:p@localhost:5432/adops?sslmode=disable",
				"JWT_SECRET":   "segredo",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 15, cfg.Auth.AccessTokenExpireMinutes)
				assert.Equal(t, 7, cfg.Auth.RefreshTokenExpireDays)
				assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
				assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL())
				assert.Equal(t, "/api/v1", cfg.App.PathPrefix)
				assert.False(t, cfg.Redis.Enabled())
				assert.False(t, cfg.ReconciliationSync.Enabled)
				assert.Equal(t, 10*time.Minute, cfg.ReconciliationSync.LockTTL)
			},
		},
		{
			name: "lista de origens separada por vírgula",
			env: map[string]string{
				"DATABASE_URL":                    "postgres://localhost/adops",
				"JWT_SECRET":                      "segredo",
				"ALLOWED_ORIGINS":                 "http://localhost:3000,https://app.example.com",
				"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "30",
				"REDIS_ADDRESS":                   "localhost:6379",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Cors.AllowedOrigins)
				assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
				assert.True(t, cfg.Redis.Enabled())
			},
		},
		{
			name:    "sem DATABASE_URL",
			env:     map[string]string{"JWT_SECRET": "segredo"},
			wantErr: ErrMissingDatabaseURL,
		},
		{
			name:    "sem JWT_SECRET",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost/adops"},
			wantErr: ErrMissingJWTSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestNewDatabaseConfigDoesNotRequireJWTSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/adops")

	cfg, err := NewDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/adops", cfg.Database.URL)

	viper.Reset()
	t.Setenv("DATABASE_URL", "")
	_, err = NewDatabaseConfig()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}
