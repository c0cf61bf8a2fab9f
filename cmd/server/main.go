package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jengzang/location-history-go/internal/api"
	"github.com/jengzang/location-history-go/internal/config"
	"github.com/jengzang/location-history-go/internal/database"
	"github.com/jengzang/location-history-go/internal/geocoding"
	"github.com/jengzang/location-history-go/internal/handler"
	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/overrides"
	"github.com/jengzang/location-history-go/internal/repository"
	"github.com/jengzang/location-history-go/internal/service"
	"github.com/jengzang/location-history-go/internal/summary"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.ValidateServer(); err != nil {
		logging.Fatal().Err(err).Msg("invalid server configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	rules, err := overrides.Load(cfg.Overrides.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Overrides.Path).Msg("failed to load overrides")
	}

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	store := repository.NewSnapshotRepository(db)
	cache, err := geocoding.OpenCache(cfg.Geocoding.CacheDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open geocoding cache")
	}
	defer cache.Close()

	client := geocoding.NewClient(geocoding.Config{
		BaseURL:     cfg.Geocoding.BaseURL,
		TimezoneURL: cfg.Geocoding.TimezoneURL,
		UserAgent:   cfg.Geocoding.UserAgent,
		Timeout:     cfg.Geocoding.Timeout,
		RetryCount:  cfg.Geocoding.RetryCount,
	})
	geocoder := geocoding.NewCachedClient(
		geocoding.NewBreakerClient(client, geocoding.DefaultBreakerSettings()),
		cache,
		cfg.Geocoding.CacheTTL,
	)
	engine := summary.NewEngine(summary.NewRules(rules), summary.WithParams(summary.Params{
		BreakDistance:    cfg.Summary.BreakDistance,
		LayoverThreshold: cfg.Summary.LayoverThreshold,
	}))

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Location: handler.NewLocationHandler(service.NewLocationService(store, geocoder, cfg.Update.MinInterval)),
		History:  handler.NewHistoryHandler(service.NewSummaryService(store, engine, nil)),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		// 启动服务器
		logging.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
}
