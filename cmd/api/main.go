package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ovaphlow/gophertalk/internal/auth"
	"github.com/ovaphlow/gophertalk/internal/monitoring"
	"github.com/ovaphlow/gophertalk/internal/post"
	postrepo "github.com/ovaphlow/gophertalk/internal/post/repo"
	"github.com/ovaphlow/gophertalk/internal/router"
	"github.com/ovaphlow/gophertalk/internal/user"
	userrepo "github.com/ovaphlow/gophertalk/internal/user/repo"
	"github.com/ovaphlow/gophertalk/pkg/database"
	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

func main() {
	// best-effort: real env vars win and a missing .env is fine
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting gophertalk")

	dbCfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(dbCfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()
	sugar.Infow("database connected", "min_pool", dbCfg.MinConns, "max_pool", dbCfg.MaxConns)

	users := userrepo.NewUserRepo(sqlxDB)
	posts := postrepo.NewPostRepo(sqlxDB)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := users.EnsureTable(schemaCtx); err != nil {
		sugar.Fatalf("ensure users table: %v", err)
	}
	if err := posts.EnsureTable(schemaCtx); err != nil {
		sugar.Fatalf("ensure posts tables: %v", err)
	}
	cancel()

	tokens, err := auth.NewTokenManager(auth.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("token config: %v", err)
	}
	hasher := auth.BcryptHasher{Cost: envInt("BCRYPT_COST", 0)}
	metrics := monitoring.New(prometheus.DefaultRegisterer)

	handler := router.RegisterRoutes(router.Deps{
		Logger:         sugar,
		DB:             sqlxDB,
		Tokens:         tokens,
		Auth:           auth.NewHandler(auth.NewService(users, hasher, tokens), metrics, sugar),
		Users:          user.NewHandler(user.NewService(users, hasher), sugar),
		Posts:          post.NewHandler(post.NewService(posts), metrics, sugar),
		Metrics:        metrics,
		Gatherer:       prometheus.DefaultGatherer,
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT", 10)) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "0.0.0.0:8000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
