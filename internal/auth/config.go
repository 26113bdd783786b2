package auth

import (
	"os"
	"strconv"
	"time"
)

// Config holds token signing settings. Access and refresh tokens use
// separate secrets and lifetimes.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Algorithm is a JWT HMAC algorithm name such as HS256.
	Algorithm string
	Issuer    string
	NodeID    int64
}

// ConfigFromEnv reads token config from env vars.
func ConfigFromEnv() Config {
	return Config{
		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTTL:     time.Duration(envInt("ACCESS_TOKEN_EXPIRES", 3600)) * time.Second,
		RefreshTTL:    time.Duration(envInt("REFRESH_TOKEN_EXPIRES", 86400)) * time.Second,
		Algorithm:     envOr("HASH_ALGORITHM", "HS256"),
		Issuer:        envOr("TOKEN_ISSUER", "gophertalk"),
		NodeID:        int64(envInt("SNOWFLAKE_NODE", 1)),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
