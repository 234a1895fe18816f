package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	defaultFetchAttempts = 5
	defaultFetchBaseWait = time.Second
)

type FetcherConfig struct {
	MaxAttempts int
	BaseWait    time.Duration
	Logger      *log.Logger

	// Sleep is swapped out in tests; nil means a context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Fetcher wraps single-attempt blob reads with bounded exponential backoff,
// bridging the store's read-after-write lag so callers never observe a
// spurious not-found for a key that was just written.
//
// Up to MaxAttempts reads are made, waiting BaseWait<<(k-1) before attempt
// k+1 (1s, 2s, 4s, 8s with the defaults). A not-found on the final attempt
// is returned as ErrNotFound; a transport error on the final attempt is
// propagated, wrapped with the key and attempt count.
type Fetcher struct {
	store       BlobStore
	maxAttempts int
	baseWait    time.Duration
	logger      *log.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewFetcher(store BlobStore, cfg FetcherConfig) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultFetchAttempts
	}
	if cfg.BaseWait <= 0 {
		cfg.BaseWait = defaultFetchBaseWait
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	return &Fetcher{
		store:       store,
		maxAttempts: cfg.MaxAttempts,
		baseWait:    cfg.BaseWait,
		logger:      cfg.Logger,
		sleep:       cfg.Sleep,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := f.baseWait << (attempt - 2)
			if f.logger != nil {
				f.logger.Printf("blob fetch retry key=%s attempt=%d wait=%s", key, attempt, wait)
			}
			if err := f.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		data, err := f.store.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	if errors.Is(lastErr, ErrNotFound) {
		// Exhausting the budget on not-found is a terminal NotFound result,
		// not a transport failure.
		return nil, fmt.Errorf("blob %s absent after %d attempts: %w", key, f.maxAttempts, ErrNotFound)
	}
	return nil, fmt.Errorf("fetch blob %s after %d attempts: %w", key, f.maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
