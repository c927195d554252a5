package app

import (
	"log/slog"

	"moonlabel.dev/internal/appconf"
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/snapshotdb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Manager *dataset.Manager
	// Store is nil when snapshot history is disabled.
	Store *snapshotdb.Client
}

// DatasetConfig maps the application settings onto the dataset manager.
func DatasetConfig(cfg appconf.Config) dataset.Config {
	return dataset.Config{
		Source:          cfg.Source,
		Encoding:        cfg.Encoding,
		CodeColumn:      cfg.CodeColumn,
		LabelColumn:     cfg.LabelColumn,
		Marker:          cfg.Marker,
		CacheTTL:        cfg.CacheTTL,
		RefreshInterval: cfg.RefreshInterval,
		Workers:         cfg.Workers,
		Verbose:         cfg.Verbose,
	}
}

// SnapshotConfig maps the application settings onto the snapshot store.
func SnapshotConfig(cfg appconf.Config) snapshotdb.Config {
	return snapshotdb.NewConfig(cfg.DBPath, cfg.Environment(), cfg.Verbose)
}
