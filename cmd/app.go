package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"ghostsets/internal/config"
	"ghostsets/internal/ddragon"
	"ghostsets/internal/files"
	"ghostsets/internal/lcu"
	"ghostsets/internal/logger"
	"ghostsets/internal/source"
	"ghostsets/internal/stats"
	"ghostsets/internal/store"
	"ghostsets/internal/ugg"

	"go.uber.org/zap"
)

// ErrUnknownSource is returned when --source names a source that is not configured
var ErrUnknownSource = errors.New("unknown source")

// app holds everything a command needs
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.VersionStore
	ddragon *ddragon.Client
	sources map[string]source.Source
	closers []func()
}

// newApp loads configuration and wires the configured sources
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	versionStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		log:   logg,
		store: versionStore,
		ddragon: ddragon.NewClient(
			ddragon.WithBaseURL(cfg.DDragon.BaseURL),
			ddragon.WithTimeout(seconds(cfg.DDragon.TimeoutSeconds)),
		),
		sources: make(map[string]source.Source),
	}
	a.closers = append(a.closers, func() { versionStore.Close() })

	a.sources["ugg"] = ugg.NewFetcher(a.ddragon,
		ugg.WithPatchesURL(cfg.UGG.PatchesURL),
		ugg.WithStatsURL(cfg.UGG.StatsURL),
		ugg.WithTier(cfg.UGG.Tier),
		ugg.WithMinGames(cfg.UGG.MinGames),
		ugg.WithTimeout(seconds(cfg.UGG.TimeoutSeconds)),
		ugg.WithLogger(logg.With(zap.String("source", "ugg"))),
	)

	if cfg.Stats.DatabaseURL != "" {
		sp, err := stats.NewProvider(cfg.Stats.DatabaseURL, a.ddragon, logg.With(zap.String("source", "stats")))
		if err != nil {
			logg.Warn("Stats source disabled", zap.Error(err))
		} else {
			sp.SetMinGames(cfg.Stats.MinGames)
			a.sources["stats"] = sp
			a.closers = append(a.closers, sp.Close)
		}
	}

	return a, nil
}

// close releases database connections and flushes the logger
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}

// selected returns the sources chosen with --source, all of them by default
func (a *app) selected() ([]string, error) {
	if len(sourceNames) == 0 {
		names := make([]string, 0, len(a.sources))
		for name := range a.sources {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}

	for _, name := range sourceNames {
		if _, ok := a.sources[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
		}
	}
	return sourceNames, nil
}

// leagueDir returns the configured League directory or discovers it
func (a *app) leagueDir() (string, error) {
	if a.cfg.League.Dir != "" {
		return a.cfg.League.Dir, nil
	}

	dir, err := lcu.FindInstallDir()
	if err != nil {
		return "", fmt.Errorf("%w (set LEAGUE_DIR)", err)
	}
	a.log.Info("Found League installation", zap.String("dir", dir))
	return dir, nil
}

// providers builds an import/delete provider for every selected source
func (a *app) providers() ([]*source.Provider, error) {
	names, err := a.selected()
	if err != nil {
		return nil, err
	}

	dir, err := a.leagueDir()
	if err != nil {
		return nil, err
	}

	writer := files.NewWriter(dir, a.log)

	providers := make([]*source.Provider, 0, len(names))
	for _, name := range names {
		providers = append(providers, source.NewProvider(name, a.sources[name], a.store, writer, a.log))
	}
	return providers, nil
}

func seconds(n int) time.Duration {
	if n <= 0 {
		n = 10
	}
	return time.Duration(n) * time.Second
}
