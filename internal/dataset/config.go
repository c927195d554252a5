package dataset

import (
	"strings"
	"time"
)

type Config struct {
	Source          string
	Encoding        string
	CodeColumn      string
	LabelColumn     string
	Marker          string
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	Workers         int
	FetchTimeout    time.Duration
	MaxRetries      uint64
	RetryBackoff    time.Duration
	Verbose         bool
}

func (config Config) isLocalSource() bool {
	return IsLocalSource(config.Source)
}

func (config Config) periodicRefreshEnabled() bool {
	return !config.isLocalSource() && config.RefreshInterval > 0
}

func (config Config) withDefaults() Config {
	if config.Encoding == "" {
		config.Encoding = DefaultEncoding
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 60 * time.Second
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}
	return config
}

// IsLocalSource reports whether source names a file rather than an http(s) URL.
func IsLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
