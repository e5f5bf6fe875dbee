package main

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/artifact"
	"github.com/ironsheep/a11y-scan-mcp/internal/config"
	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/render"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
	"github.com/ironsheep/a11y-scan-mcp/internal/store/memory"
	"github.com/ironsheep/a11y-scan-mcp/internal/store/sqlite"
)

// deps holds everything a command needs to scan.
type deps struct {
	store     scan.Store
	artifacts artifact.Store
	orch      *scan.Orchestrator
	closers   []func() error
}

func (d *deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func buildDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	d := &deps{}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		d.store = memory.New()
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		d.store = db
		d.closers = append(d.closers, db.Close)
	default:
		return nil, goerr.Wrap(config.ErrInvalidConfig, "unknown store driver", goerr.V("driver", cfg.Store.Driver))
	}

	switch cfg.Artifacts.Driver {
	case config.ArtifactsFilesystem:
		d.artifacts = artifact.NewFilesystem(cfg.Artifacts.Dir)
	case config.ArtifactsMinIO:
		m, err := artifact.NewMinIO(ctx, cfg.Artifacts.MinIO)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.artifacts = m
	default:
		_ = d.Close()
		return nil, goerr.Wrap(config.ErrInvalidConfig, "unknown artifacts driver", goerr.V("driver", cfg.Artifacts.Driver))
	}

	d.orch = scan.New(render.NewChrome(cfg.Render), d.store, d.artifacts,
		scan.WithViewport(cfg.Viewport),
		scan.WithAnalyzers(
			detection.NewContrastAnalyzer(cfg.Contrast),
			detection.NewTargetSizeAnalyzer(cfg.TargetSize),
		),
	)

	logging.From(ctx).Debug("dependencies ready",
		"store", cfg.Store.Driver,
		"artifacts", cfg.Artifacts.Driver,
	)
	return d, nil
}
