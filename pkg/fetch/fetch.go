// Package fetch retrieves single assets over HTTP and hands their content to
// the store. Every failure mode is converted into an outcome on the result;
// a fetch never propagates an error or a panic past its own boundary.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/archive"
	"github.com/assetmirror/assetmirror/pkg/model"
	"github.com/assetmirror/assetmirror/pkg/pathmap"
	"github.com/assetmirror/assetmirror/pkg/store"
)

// Fetcher downloads one asset per call over a shared HTTP client.
type Fetcher struct {
	client    *http.Client
	userAgent string
	mapper    *pathmap.Mapper
	store     *store.Store

	// Extractor, when set, unpacks saved archive assets next to the file.
	Extractor *archive.Extractor
}

// New creates a Fetcher with the given timeout and identifying header. The
// underlying client and its connection pool are shared by all workers.
func New(timeout time.Duration, userAgent string, mapper *pathmap.Mapper, st *store.Store) *Fetcher {
	if userAgent == "" {
		userAgent = "assetmirror/1.0"
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		mapper:    mapper,
		store:     st,
	}
}

// Fetch retrieves u and persists its content under the mapper's root. The
// returned result carries exactly one outcome; the batch never fails because
// of it. Each call logs a single line naming the URL and what happened.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (res model.Result) {
	res = model.Result{URL: u}

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = model.OutcomeUnexpected
			res.Err = fmt.Errorf("panic: %v", r)
			logger.Error(res.String(), logger.Fields{"stack": string(debug.Stack())})
			return
		}
		f.logResult(res)
	}()

	res = f.fetchOne(ctx, u)
	return res
}

func (f *Fetcher) fetchOne(ctx context.Context, u *url.URL) model.Result {
	res := model.Result{URL: u}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		res.Outcome = model.OutcomeUnexpected
		res.Err = err
		return res
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		res.Outcome = model.OutcomeNetwork
		res.Err = err
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	res.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode == http.StatusOK:
		// Continue processing
	case resp.StatusCode == http.StatusNotFound:
		res.Outcome = model.OutcomeNotFound
		return res
	default:
		res.Outcome = model.OutcomeHTTPError
		return res
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Outcome = model.OutcomeNetwork
		res.Err = err
		return res
	}
	res.Size = len(data)

	res.Path = f.mapper.Map(u)
	outcome, err := f.store.Persist(res.Path, data)
	res.Outcome = outcome
	res.Err = err

	if err == nil && outcome != model.OutcomeSkipped {
		f.maybeExtract(ctx, res.Path)
	}
	return res
}

// maybeExtract unpacks the saved file if extraction is enabled and the file
// looks like an archive. Extraction problems never change the fetch outcome.
func (f *Fetcher) maybeExtract(ctx context.Context, path string) {
	if f.Extractor == nil || !f.Extractor.Supported(path) {
		return
	}
	if err := f.Extractor.ExtractAll(ctx, path); err != nil {
		logger.Warnf("could not extract %s: %v", path, err)
	}
}

func (f *Fetcher) logResult(res model.Result) {
	if res.Outcome.Success() {
		logger.Infof("%s", res)
		return
	}
	logger.Errorf("%s", res)
}
