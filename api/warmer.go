/*
warmer.go - Month-end snapshot warmer

PURPOSE:
  Reporting runs ask for every account's default period list on the latest
  month-end. The warmer resolves those batches ahead of time so the first
  request after a month turns over is served from the snapshot cache.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - For each account: latest month-end, account period set, default flags
  - Batches already cached are counted and skipped
  - Resolution failures are logged per account and do not stop the pass

USAGE:
  warmer := NewSnapshotWarmer(handler)
  warmer.Start()
  // ... later
  warmer.Stop()

SEE ALSO:
  - handlers.go: accountBatch (shared cache path)
  - store/sqlite/sqlite.go: period_snapshots table
*/
package api

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// WarmResult summarizes one warming pass.
type WarmResult struct {
	Warmed  int
	Cached  int
	Failed  int
	Elapsed time.Duration
}

// SnapshotWarmer pre-resolves each account's default batch.
type SnapshotWarmer struct {
	Handler  *Handler
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	passes atomic.Int64
}

// NewSnapshotWarmer creates a warmer that runs hourly.
func NewSnapshotWarmer(h *Handler) *SnapshotWarmer {
	return &SnapshotWarmer{
		Handler:  h,
		Interval: time.Hour,
		Enabled:  true,
	}
}

// Start begins the warmer. A stopped warmer can be started again.
func (sw *SnapshotWarmer) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.Enabled || sw.Interval <= 0 {
		logrus.Info("Snapshot warmer disabled")
		return
	}
	if sw.ticker != nil {
		return
	}

	sw.ticker = time.NewTicker(sw.Interval)
	sw.stop = make(chan struct{})
	sw.wg.Add(1)
	go sw.run(sw.ticker, sw.stop)

	logrus.WithField("interval", sw.Interval).Info("Snapshot warmer started")
}

// Stop stops the warmer and waits for an in-flight pass.
func (sw *SnapshotWarmer) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.ticker != nil {
		sw.ticker.Stop()
		close(sw.stop)
		sw.wg.Wait()
		sw.ticker = nil
		logrus.Info("Snapshot warmer stopped")
	}
}

func (sw *SnapshotWarmer) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer sw.wg.Done()

	sw.pass()
	for {
		select {
		case <-ticker.C:
			sw.pass()
		case <-stop:
			return
		}
	}
}

func (sw *SnapshotWarmer) pass() {
	sw.RunNow(context.Background())
	sw.passes.Add(1)
}

// Passes returns the number of background passes completed since creation.
func (sw *SnapshotWarmer) Passes() int64 { return sw.passes.Load() }

// RunNow performs one pass over all accounts.
func (sw *SnapshotWarmer) RunNow(ctx context.Context) WarmResult {
	h := sw.Handler
	start := time.Now()
	var res WarmResult

	accounts, err := h.Store.ListAccounts(ctx)
	if err != nil {
		logrus.WithError(err).Error("Snapshot warmer: listing accounts failed")
		return res
	}

	asOf := latestMonthEnd(h.now())
	none := url.Values{}

	for _, acct := range accounts {
		log := logrus.WithFields(logrus.Fields{"account": acct.Code, "as_of": asOf.String()})

		codes, _, err := h.codesFor(ctx, acct, none)
		if err != nil {
			log.WithError(err).Warn("Snapshot warmer: no period list")
			res.Failed++
			continue
		}
		opts, _ := filterOptions(acct, none)

		_, cached, err := h.accountBatch(ctx, acct, asOf, codes, opts)
		switch {
		case err != nil:
			log.WithError(err).Warn("Snapshot warmer: resolution failed")
			res.Failed++
		case cached:
			res.Cached++
		default:
			res.Warmed++
		}
	}

	res.Elapsed = time.Since(start)
	if res.Warmed > 0 || res.Failed > 0 {
		logrus.WithFields(logrus.Fields{
			"warmed":  res.Warmed,
			"cached":  res.Cached,
			"failed":  res.Failed,
			"elapsed": res.Elapsed,
		}).Info("Snapshot warmer pass complete")
	}
	return res
}
