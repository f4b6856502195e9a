// Package model defines the shared domain types for a mirror run: the
// per-item fetch outcome taxonomy, the per-item result record, and the
// aggregated batch summary.
package model

import (
	"fmt"
	"net/url"
)

// Outcome classifies the result of attempting to fetch and persist one URL.
type Outcome string

// All outcomes a fetch attempt can produce. Exactly one is recorded per URL.
const (
	OutcomeSaved       Outcome = "saved"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeOverwritten Outcome = "overwritten"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeHTTPError   Outcome = "http_error"
	OutcomeNetwork     Outcome = "network_error"
	OutcomeFilesystem  Outcome = "filesystem_error"
	OutcomeUnexpected  Outcome = "unexpected_error"
)

// Success reports whether the outcome left the local store in the desired
// state (content present and current).
func (o Outcome) Success() bool {
	switch o {
	case OutcomeSaved, OutcomeSkipped, OutcomeOverwritten:
		return true
	default:
		return false
	}
}

// Result is the record produced for a single URL. It is consumed for logging
// and summary counting only; no downstream logic branches on it.
type Result struct {
	URL        *url.URL
	Path       string  // local path the content was (or would have been) written to
	Outcome    Outcome // classification of this attempt
	StatusCode int     // HTTP status, when a response was received
	Size       int     // body size in bytes, for successful fetches
	Err        error   // underlying error for the failure outcomes
}

// String renders the single human-readable log line for this result.
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSaved:
		return fmt.Sprintf("saved %s (%d bytes) to %s", r.URL, r.Size, r.Path)
	case OutcomeSkipped:
		return fmt.Sprintf("skipped %s: %s already up to date", r.URL, r.Path)
	case OutcomeOverwritten:
		return fmt.Sprintf("overwrote %s (%d bytes) with %s", r.Path, r.Size, r.URL)
	case OutcomeNotFound:
		return fmt.Sprintf("not found (404): %s", r.URL)
	case OutcomeHTTPError:
		return fmt.Sprintf("failed to fetch %s: HTTP %d", r.URL, r.StatusCode)
	case OutcomeNetwork:
		return fmt.Sprintf("network error fetching %s: %v", r.URL, r.Err)
	case OutcomeFilesystem:
		return fmt.Sprintf("filesystem error persisting %s to %s: %v", r.URL, r.Path, r.Err)
	default:
		return fmt.Sprintf("unexpected error fetching %s: %v", r.URL, r.Err)
	}
}

// Summary aggregates the outcomes of one batch run.
type Summary struct {
	Counts map[Outcome]int
}

// NewSummary returns an empty summary ready for counting.
func NewSummary() Summary {
	return Summary{Counts: make(map[Outcome]int)}
}

// Add records one result in the summary.
func (s *Summary) Add(r Result) {
	if s.Counts == nil {
		s.Counts = make(map[Outcome]int)
	}
	s.Counts[r.Outcome]++
}

// Attempted returns the total number of URLs processed.
func (s Summary) Attempted() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// Failed returns the number of URLs that did not end in a success outcome.
func (s Summary) Failed() int {
	failed := 0
	for o, n := range s.Counts {
		if !o.Success() {
			failed += n
		}
	}
	return failed
}

// String renders the summary as a single line of per-outcome counts.
func (s Summary) String() string {
	return fmt.Sprintf("attempted=%d saved=%d skipped=%d overwritten=%d failed=%d",
		s.Attempted(),
		s.Counts[OutcomeSaved],
		s.Counts[OutcomeSkipped],
		s.Counts[OutcomeOverwritten],
		s.Failed())
}
