package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"moonlabel.dev/internal/appconf"
	"moonlabel.dev/internal/logging"
)

func main() {
	var cfg appconf.Config
	var dotenvPath string

	defaults := appconf.Default()
	flag.IntVar(&cfg.Port, "port", defaults.Port, "API server port")
	flag.StringVar(&cfg.Env, "env", defaults.Env, "Environment (development|test|production)")
	flag.StringVar(&cfg.ApiKeys, "api-keys", defaults.ApiKeys, "Comma Separated API Keys (test, etc)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", defaults.RateLimit, "Requests per second per API key (negative disables)")
	flag.StringVar(&cfg.Source, "source", defaults.Source, "URL or path of the classification sheet (.csv or .xlsx)")
	flag.StringVar(&cfg.Encoding, "encoding", defaults.Encoding, "Text encoding of CSV sources")
	flag.StringVar(&cfg.CodeColumn, "code-column", defaults.CodeColumn, "Column holding the classification code")
	flag.StringVar(&cfg.LabelColumn, "label-column", defaults.LabelColumn, "Column used for labels and tooltips")
	flag.StringVar(&cfg.Marker, "marker", defaults.Marker, "Marker that classifies a code as marked")
	flag.DurationVar(&cfg.RefreshInterval, "refresh-interval", defaults.RefreshInterval, "Refresh period for remote sources (0 disables)")
	flag.StringVar(&cfg.DBPath, "db-path", defaults.DBPath, "Snapshot database path (empty disables history)")
	flag.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	flag.BoolVar(&cfg.Verbose, "verbose", defaults.Verbose, "Log every refresh and snapshot")
	flag.StringVar(&dotenvPath, "dotenv", ".env", "Optional dotenv file")
	flag.Parse()

	loaded, err := appconf.Load(dotenvPath, flagOverrides(flag.CommandLine, cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(loaded)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, loaded, logger); err != nil {
		logging.LogError(logger, "server stopped", err, slog.String("component", "main"))
		os.Exit(1)
	}
}

// flagOverrides returns the koanf keys of the flags set on the command line,
// so unset flags do not shadow the environment.
func flagOverrides(fs *flag.FlagSet, cfg appconf.Config) map[string]any {
	values := map[string]any{
		"port":             cfg.Port,
		"env":              cfg.Env,
		"api-keys":         cfg.ApiKeys,
		"rate-limit":       cfg.RateLimit,
		"source":           cfg.Source,
		"encoding":         cfg.Encoding,
		"code-column":      cfg.CodeColumn,
		"label-column":     cfg.LabelColumn,
		"marker":           cfg.Marker,
		"refresh-interval": cfg.RefreshInterval,
		"db-path":          cfg.DBPath,
		"log-level":        cfg.LogLevel,
		"verbose":          cfg.Verbose,
	}

	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if value, ok := values[f.Name]; ok {
			overrides[flagKey(f.Name)] = value
		}
	})
	return overrides
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func newLogger(cfg appconf.Config) *slog.Logger {
	format := logging.FormatJSON
	if cfg.Environment() == appconf.Development {
		format = logging.FormatText
	}
	return logging.NewLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel), format)
}
