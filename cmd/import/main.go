package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/jengzang/location-history-go/internal/config"
	"github.com/jengzang/location-history-go/internal/database"
	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/repository"
	"github.com/jengzang/location-history-go/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	input := flag.String("input", "locations.json", "JSON array of location results")
	flag.Parse()

	f, err := os.Open(*input)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open input")
	}
	results, err := service.DecodeLocationResults(f)
	f.Close()
	if err != nil {
		logging.Fatal().Err(err).Str("input", *input).Msg("failed to read input")
	}

	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	n, err := service.NewImportService(repository.NewSnapshotRepository(db)).Import(context.Background(), results)
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Int("imported", n).Msg("import failed")
	}
	logging.Info().Int("imported", n).Msg("import finished")
}
