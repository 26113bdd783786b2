package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	DSN      string
	MinConns int
	MaxConns int
	// Timeout bounds the startup ping.
	Timeout        time.Duration
	TimeZone       string
	ClientEncoding string
}

// ConfigFromEnv reads DB config from environment variables. DATABASE_URL
// wins over the individual DATABASE_HOST/PORT/NAME/USER/PASSWORD values.
func ConfigFromEnv() Config {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = buildDSN(
			envOr("DATABASE_HOST", "localhost"),
			envOr("DATABASE_PORT", "5432"),
			envOr("DATABASE_NAME", "gophertalk"),
			envOr("DATABASE_USER", "gophertalk"),
			envOr("DATABASE_PASSWORD", "gophertalk"),
			envOr("DATABASE_SSLMODE", "disable"),
		)
	}
	minConns := envInt("DATABASE_MIN_POOL_SIZE", 4)
	maxConns := envInt("DATABASE_MAX_POOL_SIZE", 10)
	if minConns > maxConns {
		minConns = maxConns
	}
	return Config{
		DSN:            dsn,
		MinConns:       minConns,
		MaxConns:       maxConns,
		Timeout:        time.Duration(envInt("DATABASE_CONNECT_TIMEOUT", 5)) * time.Second,
		TimeZone:       os.Getenv("DATABASE_TIMEZONE"),
		ClientEncoding: os.Getenv("DATABASE_CLIENT_ENCODING"),
	}
}

func buildDSN(host, port, name, user, password, sslmode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
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

// Connect opens a *sql.DB and verifies connectivity with a ping.
// MaxConns caps open connections; callers beyond it wait for a free
// connection until their context ends. TimeZone and ClientEncoding travel
// as startup parameters, so every pooled connection gets them.
func Connect(cfg Config) (*sql.DB, error) {
	dsn, err := withSessionParams(cfg.DSN, cfg.TimeZone, cfg.ClientEncoding)
	if err != nil {
		return nil, fmt.Errorf("build dsn: %w", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// withSessionParams adds timezone and client_encoding to a URL or
// key=value DSN. lib/pq forwards keys it does not know to the server.
func withSessionParams(dsn, timeZone, encoding string) (string, error) {
	params := [][2]string{{"timezone", timeZone}, {"client_encoding", encoding}}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", err
		}
		q := u.Query()
		for _, p := range params {
			if p[1] != "" {
				q.Set(p[0], p[1])
			}
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	for _, p := range params {
		if p[1] != "" {
			dsn += " " + p[0] + "=" + quoteValue(p[1])
		}
	}
	return strings.TrimSpace(dsn), nil
}

// quoteValue quotes a key=value DSN value the way lib/pq parses it.
func quoteValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
