package snapshotdb

import "moonlabel.dev/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	DBPath        string              // Path to SQLite database file, or ":memory:"
	Env           appconf.Environment // Test refuses file-backed databases
	KeepSnapshots int                 // Snapshots retained per source; 0 keeps all
	verbose       bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:        dbPath,
		Env:           env,
		KeepSnapshots: 50,
		verbose:       verbose,
	}
}

func (c Config) inMemory() bool {
	return c.DBPath == ":memory:"
}
