package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/cse_motors/internal/config"
	"github.com/Skotchmaster/cse_motors/internal/cookie"
	"github.com/Skotchmaster/cse_motors/internal/db"
	"github.com/Skotchmaster/cse_motors/internal/es"
	"github.com/Skotchmaster/cse_motors/internal/handlers"
	"github.com/Skotchmaster/cse_motors/internal/hash"
	"github.com/Skotchmaster/cse_motors/internal/limiter"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/middleware/csrf"
	"github.com/Skotchmaster/cse_motors/internal/mykafka"
	"github.com/Skotchmaster/cse_motors/internal/repo"
	"github.com/Skotchmaster/cse_motors/internal/search"
	"github.com/Skotchmaster/cse_motors/internal/service"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
	httpserver "github.com/Skotchmaster/cse_motors/internal/transport/http"
)

type eventProducer interface {
	service.EventPublisher
	Close() error
}

func main() {
	config.LoadDotEnv(".env")
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("migrate_failed", "error", err)
			os.Exit(1)
		}
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	store := &repo.GormRepo{DB: gdb}

	codec, err := tokens.NewCodec(tokens.Config{Secret: cfg.SessionSecret, TTL: cfg.SessionTTL})
	if err != nil {
		logger.Error("token_codec_failed", "error", err)
		os.Exit(1)
	}
	sessions := cookie.NewManager(codec, cookie.Options{Secure: !cfg.Development()})

	var events eventProducer = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	auth := &service.AuthService{
		Store:    store,
		Hasher:   hash.Bcrypt{Cost: hash.DefaultCost},
		Sessions: sessions,
		Events:   events,
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis_unreachable", "addr", cfg.RedisAddr, "error", err)
		}
		auth.Limiter = limiter.NewRedis(rdb, cfg.LoginMaxFailures, cfg.LoginLockout)
	} else {
		logger.Info("login_limiter_disabled", "reason", "REDIS_ADDR not set")
	}

	inventory := &service.InventoryService{Store: store, Events: events}
	if cfg.ESURL != "" {
		esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		cancel()
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			inventory.Search = &search.VehicleIndex{ES: client, Index: cfg.ESIndex}
		}
	} else {
		logger.Info("search_disabled", "reason", "ES_URL not set")
	}

	e := httpserver.New(&httpserver.Deps{
		DB:         gdb,
		Logger:     logger,
		Tokens:     codec,
		CookieName: sessions.Name(),
		CSRF: csrf.Config{
			Secure:    !cfg.Development(),
			SkipPaths: []string{"/metrics", "/health/live", "/health/ready"},
		},
		AccountHandler:   &handlers.AccountHandler{Auth: auth, Accounts: store},
		InventoryHandler: &handlers.InventoryHandler{Inventory: inventory},
		FavoriteHandler:  &handlers.FavoriteHandler{Favorites: &service.FavoriteService{Store: store}},
		SearchHandler:    &handlers.SearchHandler{Inventory: inventory},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
