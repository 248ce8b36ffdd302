package config

import (
	"log"
	"net/url"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	Port          string
	CORSOrigins   []string
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func Load() Config {
	return Config{
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// InitDB opens the process-wide database handle. Transport encryption is
// always required.
func InitDB(cfg Config) *gorm.DB {
	if cfg.PostgresURL == "" {
		log.Fatal("POSTGRES_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(RequireSSL(cfg.PostgresURL)), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// RequireSSL forces sslmode=require on a postgres connection string unless it
// already asks for certificate verification. Both URL and key=value forms are
// accepted.
func RequireSSL(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if !verifiesCert(q.Get("sslmode")) {
			q.Set("sslmode", "require")
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	fields := strings.Fields(dsn)
	for i, f := range fields {
		if mode, ok := strings.CutPrefix(f, "sslmode="); ok {
			if !verifiesCert(mode) {
				fields[i] = "sslmode=require"
			}
			return strings.Join(fields, " ")
		}
	}
	return strings.Join(append(fields, "sslmode=require"), " ")
}

func verifiesCert(mode string) bool {
	return mode == "verify-ca" || mode == "verify-full"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
