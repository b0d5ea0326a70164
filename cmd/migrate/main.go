// Command migrate creates or updates the catalog schema and can seed the
// rating scale.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/core/repository"
)

func main() {
	configPath := flag.String("config", os.Getenv("CATALOG_CONFIG_PATH"), "path to a YAML or JSON config file")
	seedStars := flag.String("seed-stars", "", "comma separated star values to create, e.g. 1,2,3,4,5")
	flag.Parse()

	if err := run(*configPath, *seedStars); err != nil {
		logger.Error("Migration failed: %v", err)
		os.Exit(1)
	}
}

func run(configPath, seedStars string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := config.Load(configPath); err != nil {
		return err
	}
	cfg := config.Get()
	logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	values, err := parseStars(seedStars)
	if err != nil {
		return err
	}

	// Initialize migrates as part of opening
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if len(values) == 0 {
		return nil
	}
	created, err := repository.NewRatingStarRepository(db).Seed(context.Background(), values...)
	if err != nil {
		return err
	}
	logger.Info("Seeded %d rating stars", created)
	return nil
}

func parseStars(raw string) ([]int16, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []int16
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid star value %q: %w", part, err)
		}
		out = append(out, int16(v))
	}
	return out, nil
}
