package images

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// FetchFunc retrieves the raw bytes of an image source.
type FetchFunc func(ctx context.Context, src string) ([]byte, error)

// Result is a finished fetch waiting to be applied on the UI thread.
type Result struct {
	Source string
	Data   []byte
	Err    error
}

// Fetcher runs image downloads in the background. Requests are keyed by
// source and de-duplicated while in flight; finished results are collected
// until the owner drains them from its own thread.
type Fetcher struct {
	fetch  FetchFunc
	sem    *semaphore.Weighted
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]bool
	done     []Result
}

func NewFetcher(fetch FetchFunc, maxConcurrent int64, logger *slog.Logger) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{
		fetch:    fetch,
		sem:      semaphore.NewWeighted(maxConcurrent),
		log:      logger,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]bool),
	}
}

// Request starts fetching src unless a fetch for it is already pending.
// It reports whether a new fetch was started.
func (f *Fetcher) Request(src string) bool {
	f.mu.Lock()
	if f.inflight[src] || f.ctx.Err() != nil {
		f.mu.Unlock()
		return false
	}
	f.inflight[src] = true
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.sem.Acquire(f.ctx, 1); err != nil {
			f.finish(Result{Source: src, Err: err})
			return
		}
		defer f.sem.Release(1)
		data, err := f.fetch(f.ctx, src)
		if err != nil {
			f.log.Warn("image fetch failed", "src", src, "err", err)
		}
		f.finish(Result{Source: src, Data: data, Err: err})
	}()
	return true
}

func (f *Fetcher) finish(r Result) {
	f.mu.Lock()
	f.done = append(f.done, r)
	f.mu.Unlock()
}

// Drain returns the results completed since the last call. A drained
// source may be requested again.
func (f *Fetcher) Drain() []Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.done
	f.done = nil
	for _, r := range out {
		delete(f.inflight, r.Source)
	}
	return out
}

// Pending reports how many sources are requested but not yet drained.
func (f *Fetcher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inflight)
}

// Close cancels outstanding fetches and waits for their goroutines.
func (f *Fetcher) Close() {
	f.cancel()
	f.wg.Wait()
}
