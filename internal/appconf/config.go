package appconf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "MOONLABEL_"

// DefaultSource is the published classification-number sheet.
const DefaultSource = "https://raw.githubusercontent.com/GDowon/Moon_rabel1/main/%EB%B6%84%EB%A5%98%EB%B2%88%ED%98%B8.csv"

// Config holds all the configuration settings for the application.
type Config struct {
	Port            int           `koanf:"port"`
	Env             string        `koanf:"env"`
	ApiKeys         string        `koanf:"api_keys"`
	RateLimit       int           `koanf:"rate_limit"`
	Source          string        `koanf:"source"`
	Encoding        string        `koanf:"encoding"`
	CodeColumn      string        `koanf:"code_column"`
	LabelColumn     string        `koanf:"label_column"`
	Marker          string        `koanf:"marker"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	DBPath          string        `koanf:"db_path"`
	LogLevel        string        `koanf:"log_level"`
	Verbose         bool          `koanf:"verbose"`
	Workers         int           `koanf:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            4000,
		Env:             "development",
		ApiKeys:         "test",
		RateLimit:       100,
		Source:          DefaultSource,
		Encoding:        "cp949",
		CodeColumn:      "90",
		LabelColumn:     "245",
		Marker:          "문",
		CacheTTL:        time.Hour,
		RefreshInterval: 24 * time.Hour,
		DBPath:          "moonlabel.db",
		LogLevel:        "info",
		Workers:         0,
	}
}

// Environment returns the parsed Env value.
func (c Config) Environment() Environment {
	return EnvFlagToEnvironment(c.Env)
}

// APIKeyList splits the comma separated ApiKeys setting.
func (c Config) APIKeyList() []string {
	var keys []string
	for _, k := range strings.Split(c.ApiKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsRemoteSource reports whether Source is fetched over HTTP.
func (c Config) IsRemoteSource() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if strings.TrimSpace(c.Source) == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if strings.TrimSpace(c.CodeColumn) == "" {
		errs = append(errs, errors.New("code_column is required"))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("marker is required"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must be non-negative"))
	}
	if c.RefreshInterval < 0 {
		errs = append(errs, errors.New("refresh_interval must be non-negative"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from the defaults, an optional dotenv file and
// MOONLABEL_* environment variables, then applies overrides (typically the
// command-line flags that were set explicitly). An empty dotenvPath skips the
// dotenv step; a missing dotenv file is not an error.
func Load(dotenvPath string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("failed to apply override %q: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
