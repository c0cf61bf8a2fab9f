package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/jengzang/location-history-go/internal/config"
	"github.com/jengzang/location-history-go/internal/database"
	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/overrides"
	"github.com/jengzang/location-history-go/internal/repository"
	"github.com/jengzang/location-history-go/internal/service"
	"github.com/jengzang/location-history-go/internal/summary"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	output := flag.String("output", cfg.Summary.OutputDir, "directory for the history files")
	overridesPath := flag.String("overrides", cfg.Overrides.Path, "override file")
	flag.Parse()

	rules, err := overrides.Load(*overridesPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", *overridesPath).Msg("failed to load overrides")
	}

	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	engine := summary.NewEngine(summary.NewRules(rules), summary.WithParams(summary.Params{
		BreakDistance:    cfg.Summary.BreakDistance,
		LayoverThreshold: cfg.Summary.LayoverThreshold,
	}))
	svc := service.NewSummaryService(
		repository.NewSnapshotRepository(db),
		engine,
		repository.NewHistoryWriter(*output),
	)

	files, err := svc.Publish(context.Background())
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Msg("summary failed")
	}
	logging.Info().Strs("files", files).Msg("history written")
}
