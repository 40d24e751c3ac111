package config

import (
	"os"
	"time"

	"github.com/kybaloo/expense-management/internal/token"
)

type Config struct {
	ProjectID        string
	Port             string
	LogLevel         string
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

func New() *Config {
	return &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		JWTAccessSecret:  os.Getenv("JWTACCESSSECRET"),
		JWTRefreshSecret: os.Getenv("JWTREFRESHSECRET"),
		AccessTokenTTL:   getEnvDuration("ACCESSTOKENTTL", token.DefaultAccessTTL),
		RefreshTokenTTL:  getEnvDuration("REFRESHTOKENTTL", token.DefaultRefreshTTL),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
