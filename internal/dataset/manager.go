package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/logging"
)

// SnapshotRecorder persists each newly classified view.
type SnapshotRecorder interface {
	RecordView(ctx context.Context, view *View) error
}

// Status describes the state of the Manager for status endpoints.
type Status struct {
	Source          string        `json:"source"`
	IsLocalFile     bool          `json:"isLocalFile"`
	LastUpdated     time.Time     `json:"lastUpdated"`
	LastAttempt     time.Time     `json:"lastAttempt"`
	LastError       string        `json:"lastError,omitempty"`
	Hash            string        `json:"hash"`
	CacheTTL        time.Duration `json:"cacheTtl"`
	RefreshInterval time.Duration `json:"refreshInterval"`
	Stats           Stats         `json:"stats"`
}

// Manager owns the dataset cache and the current classified view.
type Manager struct {
	config     Config
	fetcher    *Fetcher
	cache      *Cache
	classifier *classify.Classifier
	recorder   SnapshotRecorder
	logger     *slog.Logger

	mu          sync.RWMutex
	view        *View
	lastUpdated time.Time
	lastAttempt time.Time
	lastErr     error

	loadMu       sync.Mutex
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Option customises a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder records a snapshot every time the classified view changes.
func WithRecorder(recorder SnapshotRecorder) Option {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// WithFetcher replaces the default fetcher.
func WithFetcher(fetcher *Fetcher) Option {
	return func(m *Manager) {
		m.fetcher = fetcher
	}
}

// InitManager loads and classifies the configured source. Remote sources
// are refreshed in the background every RefreshInterval until Shutdown.
func InitManager(ctx context.Context, config Config, opts ...Option) (*Manager, error) {
	config = config.withDefaults()
	if config.CodeColumn == "" {
		return nil, errors.New("dataset: code column is required")
	}

	manager := &Manager{
		config:       config,
		cache:        NewCache(defaultCacheSize, config.CacheTTL),
		classifier:   classify.New(config.Marker),
		logger:       logging.Discard(),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(manager)
	}
	if manager.fetcher == nil {
		manager.fetcher = NewFetcher(config, manager.logger)
	}

	if _, err := manager.load(ctx, false); err != nil {
		return nil, err
	}

	if config.periodicRefreshEnabled() {
		manager.wg.Add(1)
		go manager.refreshPeriodically()
	}

	return manager, nil
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// Config returns the effective configuration.
func (manager *Manager) Config() Config {
	return manager.config
}

// Classifier returns the classifier used for the dataset.
func (manager *Manager) Classifier() *classify.Classifier {
	return manager.classifier
}

// View returns the current classified view without touching the source.
func (manager *Manager) View() *View {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.view
}

// Current returns the classified view, reloading the source first when its
// cache entry has expired. If that reload fails the previous view is kept
// and the failure is reported through Status.
func (manager *Manager) Current(ctx context.Context) (*View, error) {
	if _, ok := manager.cache.Get(manager.config.Source); ok {
		return manager.View(), nil
	}

	view, err := manager.load(ctx, false)
	if err == nil {
		return view, nil
	}

	if previous := manager.View(); previous != nil {
		return previous, nil
	}
	return nil, err
}

// Refresh drops the cached payload and reloads the source. It reports
// whether the content changed.
func (manager *Manager) Refresh(ctx context.Context) (bool, error) {
	manager.cache.Invalidate(manager.config.Source)

	before := manager.View()
	after, err := manager.load(ctx, true)
	if err != nil {
		return false, err
	}
	return before == nil || before.Hash != after.Hash, nil
}

// Status reports the source, timing and counts of the current view.
func (manager *Manager) Status() Status {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	status := Status{
		Source:          manager.config.Source,
		IsLocalFile:     manager.config.isLocalSource(),
		LastUpdated:     manager.lastUpdated,
		LastAttempt:     manager.lastAttempt,
		CacheTTL:        manager.config.CacheTTL,
		RefreshInterval: manager.config.RefreshInterval,
		Stats:           manager.view.Stats(),
	}
	if manager.view != nil {
		status.Hash = manager.view.Hash
	}
	if manager.lastErr != nil {
		status.LastError = manager.lastErr.Error()
	}
	return status
}

// load fetches the source (or reuses the cached payload), and re-classifies
// only when the payload hash differs from the current view.
func (manager *Manager) load(ctx context.Context, force bool) (*View, error) {
	manager.loadMu.Lock()
	defer manager.loadMu.Unlock()

	source := manager.config.Source
	entry, ok := manager.cache.Get(source)
	if !ok || force {
		data, err := manager.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, manager.fail(newLoadError(source, "fetch", err))
		}
		entry = manager.cache.Put(source, data)
	}

	current := manager.View()
	if current != nil && current.Hash == entry.Hash {
		manager.mu.Lock()
		manager.lastAttempt = time.Now()
		manager.lastErr = nil
		manager.mu.Unlock()
		return current, nil
	}

	start := time.Now()
	view, err := manager.classifyEntry(ctx, entry)
	if err != nil {
		manager.cache.Invalidate(source)
		return nil, manager.fail(err)
	}

	manager.mu.Lock()
	manager.view = view
	manager.lastUpdated = view.ClassifiedAt
	manager.lastAttempt = view.ClassifiedAt
	manager.lastErr = nil
	manager.mu.Unlock()

	stats := view.Stats()
	logging.LogOperation(manager.logger, "dataset_classified",
		slog.String("source", source),
		slog.Int("rows", stats.Rows),
		slog.Int("marked", stats.Marked),
		slog.Int("plain", stats.Plain),
		slog.Int("numeric", stats.Numeric),
		slog.Duration("duration", time.Since(start)),
		slog.String("component", "dataset_manager"))

	if manager.recorder != nil {
		if err := manager.recorder.RecordView(ctx, view); err != nil {
			logging.LogError(manager.logger, "failed to record snapshot", err,
				slog.String("source", source),
				slog.String("component", "dataset_manager"))
		}
	}

	return view, nil
}

func (manager *Manager) classifyEntry(ctx context.Context, entry *Entry) (*View, error) {
	table, err := Parse(entry.Source, entry.Data, manager.config.Encoding)
	if err != nil {
		stage := "parse"
		if errors.Is(err, ErrUnknownEncoding) {
			stage = "decode"
		}
		return nil, newLoadError(entry.Source, stage, err)
	}

	if !table.HasColumn(manager.config.CodeColumn) {
		return nil, newLoadError(entry.Source, "parse",
			fmt.Errorf("%w: %q", ErrColumnNotFound, manager.config.CodeColumn))
	}

	results, err := manager.classifier.ClassifyAll(ctx, table.Records, classify.BatchOptions{
		Column:  manager.config.CodeColumn,
		Workers: manager.config.Workers,
	})
	if err != nil {
		return nil, newLoadError(entry.Source, "classify", err)
	}

	labelColumn := manager.config.LabelColumn
	if labelColumn != "" && !table.HasColumn(labelColumn) {
		manager.logger.Warn("label column not found",
			slog.String("column", labelColumn),
			slog.String("component", "dataset_manager"))
		labelColumn = ""
	}

	return &View{
		Source:       entry.Source,
		Columns:      table.Columns,
		CodeColumn:   manager.config.CodeColumn,
		LabelColumn:  labelColumn,
		Marker:       manager.classifier.Marker(),
		Hash:         entry.Hash,
		FetchedAt:    entry.FetchedAt,
		ClassifiedAt: time.Now(),
		Results:      results,
		Partitions:   classify.Partition(results),
	}, nil
}

func (manager *Manager) fail(err error) error {
	manager.mu.Lock()
	manager.lastAttempt = time.Now()
	manager.lastErr = err
	manager.mu.Unlock()

	logging.LogError(manager.logger, "failed to load dataset", err,
		slog.String("source", manager.config.Source),
		slog.String("component", "dataset_manager"))
	return err
}

// refreshPeriodically reloads a remote source on a ticker until shutdown.
func (manager *Manager) refreshPeriodically() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), manager.config.FetchTimeout)
			changed, err := manager.Refresh(ctx)
			cancel()

			if err != nil {
				continue
			}
			if manager.config.Verbose {
				manager.logger.Info("dataset refreshed",
					slog.String("source", manager.config.Source),
					slog.Bool("changed", changed),
					slog.String("component", "dataset_manager"))
			}
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down dataset refresh",
				slog.String("component", "dataset_manager"))
			return
		}
	}
}
