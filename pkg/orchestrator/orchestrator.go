//go:generate mockgen -destination=./mocks/orchestrator.go . Fetcher,Discoverer

// Package orchestrator assembles the full batch of asset URLs and runs the
// concurrent fetch pipeline over it. Per-item failures are isolated inside
// the fetcher; the orchestrator only counts outcomes and never aborts a
// running batch because of a single URL.
package orchestrator

import (
	"context"
	"net/url"
	"sync"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/errors"
	"github.com/assetmirror/assetmirror/pkg/hooks"
	"github.com/assetmirror/assetmirror/pkg/model"
)

// Fetcher is the subset of the fetch engine used by the orchestrator.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) model.Result
}

// Discoverer is the subset of the discovery client used by the orchestrator.
type Discoverer interface {
	Discover(ctx context.Context, segment string) []*url.URL
}

// Orchestrator ties discovery, fetching and hooks together for one batch run.
type Orchestrator struct {
	Fetcher   Fetcher
	Discovery Discoverer    // optional; nil skips discovery
	Hooks     hooks.Manager // optional; nil skips hook execution
}

// Batch names the inputs a run is built from.
type Batch struct {
	// Segments are passed to the discovery client, in order.
	Segments []string
	// Static are absolute URLs known up front, appended after discovery
	// results.
	Static []string
}

// Options control batch execution.
type Options struct {
	// Concurrency bounds the number of parallel fetches. Values <= 0 use
	// DefaultConcurrency.
	Concurrency int
	// DryRun lists the batch without fetching anything.
	DryRun bool
}

// DefaultConcurrency bounds parallel fetches when no ceiling is configured.
const DefaultConcurrency = 32

// Run builds the locator batch and fetches every entry under a bounded
// worker pool. It returns the aggregated summary; the error return is
// reserved for conditions that prevent the batch from starting at all.
func (o *Orchestrator) Run(ctx context.Context, batch Batch, opts Options) (model.Summary, error) {
	summary := model.NewSummary()
	if o.Fetcher == nil {
		return summary, errors.ErrNoFetcher
	}

	locators := o.buildLocators(ctx, batch)
	if len(locators) == 0 {
		logger.Infof("nothing to do: no locators discovered or configured")
		return summary, nil
	}

	if opts.DryRun {
		for _, u := range locators {
			logger.Infof("would fetch %s", u)
		}
		logger.Infof("dry run: %d locators in batch", len(locators))
		return summary, nil
	}

	o.runHook(hooks.PreBatch, hooks.HookContext{
		Vars: map[string]interface{}{"batchSize": len(locators)},
	})

	logger.Infof("starting download of %d items", len(locators))
	for res := range o.fanOut(ctx, locators, opts.Concurrency) {
		summary.Add(res)
		if res.Outcome == model.OutcomeSaved || res.Outcome == model.OutcomeOverwritten {
			o.runHook(hooks.PostSave, hooks.HookContext{
				URL:       res.URL.String(),
				LocalPath: res.Path,
				Outcome:   string(res.Outcome),
			})
		}
	}

	o.runHook(hooks.PostBatch, hooks.HookContext{
		Vars: map[string]interface{}{
			"attempted": summary.Attempted(),
			"failed":    summary.Failed(),
		},
	})

	logger.Infof("batch finished: %s", summary)
	return summary, nil
}

// buildLocators concatenates discovery results for every segment with the
// expanded static lists. Unparseable or relative static entries are skipped
// with a warning; they never fail the batch.
func (o *Orchestrator) buildLocators(ctx context.Context, batch Batch) []*url.URL {
	var locators []*url.URL

	if o.Discovery != nil {
		for _, segment := range batch.Segments {
			discovered := o.Discovery.Discover(ctx, segment)
			logger.Debugf("discovery for segment %q returned %d locators", segment, len(discovered))
			locators = append(locators, discovered...)
		}
	}

	for _, raw := range batch.Static {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			logger.Warnf("skipping %s: %v", raw, errors.ErrInvalidLocator)
			continue
		}
		locators = append(locators, u)
	}

	return locators
}

// fanOut fetches all locators over a bounded worker pool and streams the
// per-item results. The returned channel closes once every worker finished.
func (o *Orchestrator) fanOut(ctx context.Context, locators []*url.URL, concurrency int) <-chan model.Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(locators) {
		concurrency = len(locators)
	}

	tasks := make(chan *url.URL)
	results := make(chan model.Result)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range tasks {
				results <- o.Fetcher.Fetch(ctx, u)
			}
		}()
	}

	go func() {
		for _, u := range locators {
			tasks <- u
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	return results
}

// runHook executes the given hook when a manager is configured. Hook
// failures are logged and otherwise ignored.
func (o *Orchestrator) runHook(hookType hooks.HookType, ctx hooks.HookContext) {
	if o.Hooks == nil {
		return
	}
	if err := o.Hooks.Execute(hookType, ctx); err != nil {
		logger.Errorf("%s hook failed: %v", hookType, err)
	}
}
