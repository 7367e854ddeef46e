package main

import (
	"context"
	"fmt"
	"time"

	"github.com/glintfin/glint/internal/common"
	"github.com/glintfin/glint/internal/config"
	"github.com/glintfin/glint/internal/engine"
	"github.com/glintfin/glint/internal/recognize"
	"github.com/glintfin/glint/internal/service"
	"github.com/glintfin/glint/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the snapshot database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initRecognizer builds the Gemini-backed text recognizer from config.
func initRecognizer(ctx context.Context) (*recognize.Gemini, error) {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key (set gemini.api_key or GLINT_GEMINI_API_KEY)", common.ErrMissingConfig)
	}

	return recognize.NewGemini(ctx, apiKey, viper.GetString("gemini.model"))
}

// engineConfig reads analysis tuning knobs from config, falling back to
// defaults for anything unset.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if d := viper.GetDuration("analysis.recognition_timeout"); d > 0 {
		cfg.RecognitionTimeout = d
	}
	if t := viper.GetFloat64("analysis.match_threshold"); t > 0 {
		cfg.MatchThreshold = t
	}
	return cfg
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil // absent flag means open bound
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return &t, nil
}
