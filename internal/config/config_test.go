package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireSSL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"url without mode", "postgres://u:p@db:5432/app", "postgres://u:p@db:5432/app?sslmode=require"},
		{"url with disable", "postgres://u:p@db:5432/app?sslmode=disable", "postgres://u:p@db:5432/app?sslmode=require"},
		{"url keeps verify-full", "postgresql://db/app?sslmode=verify-full", "postgresql://db/app?sslmode=verify-full"},
		{"kv without mode", "host=db user=u dbname=app", "host=db user=u dbname=app sslmode=require"},
		{"kv with prefer", "host=db sslmode=prefer dbname=app", "host=db sslmode=require dbname=app"},
		{"kv keeps verify-ca", "host=db sslmode=verify-ca", "host=db sslmode=verify-ca"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireSSL(tt.dsn))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://db/app")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	assert.Equal(t, "postgres://db/app", cfg.PostgresURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
