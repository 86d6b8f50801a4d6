package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	twominute "github.com/necrop/twominuteoed-build"
	"github.com/necrop/twominuteoed-build/internal/config"
)

// App runs one preparation pass: load reference data and entries, then
// write the visualization artifacts.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.Config, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Resources loads the region index and dither table. A zero seed seeds
// from the clock, so only runs with an explicit seed are reproducible.
func (a *App) Resources() (*twominute.Resources, error) {
	seed := a.cfg.Sampling.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.logger.Infow("random source", "seed", seed)
	rng := rand.New(rand.NewSource(seed))

	regions, err := twominute.LoadRegionIndexFile(a.cfg.Paths.LanguageCoordinates, rng)
	if err != nil {
		return nil, fmt.Errorf("loading coordinates: %w", err)
	}
	a.logger.Infow("loaded language coordinates", "languages", regions.Len())

	dither, err := twominute.NewDitherTable(a.cfg.Dithers, twominute.MinEntryYear, a.cfg.Timeline.EndYear)
	if err != nil {
		return nil, err
	}

	return &twominute.Resources{
		Regions: regions,
		Dither:  dither,
		Rand:    rng,
		Logger:  a.logger,
	}, nil
}

// overrides deduces dialect overrides from the etymology file, if any, and
// lays the explicit override file over them.
func (a *App) overrides() (twominute.Overrides, error) {
	overrides := twominute.Overrides{}
	if a.cfg.Paths.Etymologies != "" {
		records, err := twominute.LoadEtymologyRecordsFile(a.cfg.Paths.Etymologies)
		if err != nil {
			return nil, err
		}
		overrides = twominute.BuildOverrides(records)
		a.logger.Infow("deduced dialect overrides", "records", len(records), "count", len(overrides))
	}
	if a.cfg.Paths.Overrides != "" {
		explicit, err := twominute.LoadOverridesFile(a.cfg.Paths.Overrides)
		if err != nil {
			return nil, err
		}
		a.logger.Infow("loaded language overrides", "count", len(explicit))
		overrides = overrides.Merge(explicit)
	}
	return overrides, nil
}

// Run performs the preparation and writes into the configured directory.
func (a *App) Run(ctx context.Context) error {
	res, err := a.Resources()
	if err != nil {
		return err
	}

	overrides, err := a.overrides()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	coll, err := twominute.LoadCollectionFile(a.cfg.Paths.SourceData, res, a.cfg.EntryFilters(), overrides)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	format, err := twominute.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	winnower := twominute.NewWinnower(res.Rand,
		twominute.WithCap(a.cfg.Sampling.Cap),
		twominute.WithReferencePoint(a.cfg.ReferencePoint()),
		twominute.WithExcludedLanguages(a.cfg.Sampling.ExcludedLanguages...),
		twominute.WithBlocklist(a.cfg.Sampling.Blocklist...),
	)
	prep := twominute.NewPreparer(res, coll,
		twominute.WithTimeline(a.cfg.AnimationTimeline()),
		twominute.WithLanguageGroups(a.cfg.Sampling.LanguageGroups...),
		twominute.WithWinnower(winnower),
		twominute.WithFormat(format),
	)
	artifacts, err := prep.Write(a.cfg.Paths.OutDir)
	if err != nil {
		return fmt.Errorf("writing artifacts: %w", err)
	}
	a.logger.Infow("preparation complete", "languages", len(artifacts.Languages), "years", len(artifacts.Words))
	return nil
}
