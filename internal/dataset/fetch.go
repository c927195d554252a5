package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"moonlabel.dev/internal/logging"
)

const userAgent = "moonlabel/1.0"

// Fetcher reads raw dataset bytes from a local path or an http(s) URL.
type Fetcher struct {
	client     *resty.Client
	maxRetries uint64
	backoff    time.Duration
	logger     *slog.Logger
}

// NewFetcher builds a Fetcher using the timeout and retry settings of config.
func NewFetcher(config Config, logger *slog.Logger) *Fetcher {
	config = config.withDefaults()
	if logger == nil {
		logger = logging.Discard()
	}

	client := resty.New().
		SetTimeout(config.FetchTimeout).
		SetHeader("User-Agent", userAgent)

	return &Fetcher{
		client:     client,
		maxRetries: config.MaxRetries,
		backoff:    config.RetryBackoff,
		logger:     logger,
	}
}

// Fetch returns the bytes of source. Remote sources are retried with
// exponential backoff on transport errors and 5xx responses.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if IsLocalSource(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: reading local file: %w", ErrSourceUnavailable, err)
		}
		return b, nil
	}

	var body []byte
	attempt := 0
	backoff := retry.WithMaxRetries(f.maxRetries, retry.NewExponential(f.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := f.client.R().SetContext(ctx).Get(source)
		if err != nil {
			f.logger.Warn("dataset download failed",
				slog.String("source", source),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
				slog.String("component", "dataset_fetcher"))
			return retry.RetryableError(err)
		}

		status := resp.StatusCode()
		switch {
		case status >= http.StatusInternalServerError:
			f.logger.Warn("dataset download returned server error",
				slog.String("source", source),
				slog.Int("attempt", attempt),
				slog.Int("status", status),
				slog.String("component", "dataset_fetcher"))
			return retry.RetryableError(fmt.Errorf("unexpected status %d", status))
		case status >= http.StatusBadRequest:
			return fmt.Errorf("unexpected status %d", status)
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: downloading %s: %w", ErrSourceUnavailable, source, err)
	}

	return body, nil
}
