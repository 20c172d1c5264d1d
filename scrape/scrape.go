// Package scrape provides the extraction pipeline orchestration: it
// traverses the paginated listing, drives each item through its
// processing states, and records every outcome in the ledger so an
// interrupted run can resume.
package scrape

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"ficha"
)

// Runner walks pages of the listing and processes each row strictly
// sequentially. The listing is a single shared browser session; no two
// items are ever in flight at once.
type Runner struct {
	Listing  ficha.Listing
	Rows     ficha.RowParser
	Ledger   ficha.Ledger
	Metadata ficha.MetadataLog
	Store    ficha.DocumentStore
	Logger   *slog.Logger

	// DryRun disables every write: no documents, no ledger rows, no
	// metadata rows. Outcomes are only logged. Keeping the ledger
	// untouched means a dry run can never poison a later real run's
	// resume check.
	DryRun bool

	// RowDelay and PageDelay pace the traversal between items and
	// between pages.
	RowDelay  time.Duration
	PageDelay time.Duration

	// ItemTimeout bounds how long a single item may take before its
	// attempt is abandoned and recorded as an error. Zero means no
	// per-item deadline.
	ItemTimeout time.Duration

	// Progress, if set, receives events as items complete.
	Progress ProgressFunc
}

// Result aggregates a run's per-status outcome counts.
type Result struct {
	Pages        int
	Succeeded    int
	Confidential int
	Failed       int
	Skipped      int
}

// Items returns the total number of items the run visited.
func (r *Result) Items() int {
	return r.Succeeded + r.Confidential + r.Failed + r.Skipped
}

// ProgressEvent reports traversal progress.
type ProgressEvent struct {
	Type   ProgressType
	Page   int
	Rows   int
	Key    ficha.ItemKey
	Status ficha.AttemptStatus
	Note   string
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressPageStarted ProgressType = iota
	ProgressItemDone
	ProgressFinished
)

// ProgressFunc is a callback for reporting traversal progress.
type ProgressFunc func(event ProgressEvent)

// Run traverses pages [startPage, endPage] inclusive and processes
// every row on each page. An endPage of zero means "use the listing's
// best-effort detected total". Failure to open the listing is the only
// error fatal to the run; every per-item failure is converted into an
// error ledger entry and traversal continues. Cancellation is
// run-granularity: a canceled context stops the run before the next
// item, never mid-item.
func (r *Runner) Run(ctx context.Context, startPage, endPage int) (*Result, error) {
	if startPage < 1 {
		return nil, ficha.Errorf(ficha.EINVALID, "start page must be positive, got %d", startPage)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := r.Listing.Open(ctx); err != nil {
		return nil, err
	}

	if endPage <= 0 {
		endPage = r.Listing.TotalPages(ctx)
		logger.Info("detected total pages", "pages", endPage)
	}

	rowPacer := pacer(r.RowDelay)
	pagePacer := pacer(r.PageDelay)

	result := &Result{}
	for page := startPage; page <= endPage; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// The listing opens on page 1; only later pages need the
		// paginator.
		if page != 1 {
			if err := r.Listing.SelectPage(ctx, page); err != nil {
				logger.Warn("page selection failed, skipping page", "page", page, "err", err)
				continue
			}
		}

		rows, err := r.Listing.Rows(ctx)
		if err != nil {
			logger.Warn("row enumeration failed, skipping page", "page", page, "err", err)
			continue
		}
		result.Pages++
		logger.Info("page", "page", page, "rows", rows)
		if r.Progress != nil {
			r.Progress(ProgressEvent{Type: ProgressPageStarted, Page: page, Rows: rows})
		}

		for row := 0; row < rows; row++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			key := ficha.ItemKey{Page: page, Row: row}
			itemCtx := ctx
			cancel := context.CancelFunc(func() {})
			if r.ItemTimeout > 0 {
				itemCtx, cancel = context.WithTimeout(ctx, r.ItemTimeout)
			}
			status, note := r.ProcessItem(itemCtx, key)
			cancel()
			result.count(status)
			logger.Info("item", "key", key.String(), "status", status, "note", note)
			if r.Progress != nil {
				r.Progress(ProgressEvent{Type: ProgressItemDone, Page: page, Key: key, Status: status, Note: note})
			}

			if status != ficha.StatusSkipped {
				if err := rowPacer.Wait(ctx); err != nil {
					return result, err
				}
			}
		}

		if err := pagePacer.Wait(ctx); err != nil {
			return result, err
		}
	}

	if r.Progress != nil {
		r.Progress(ProgressEvent{Type: ProgressFinished})
	}
	return result, nil
}

func (r *Result) count(status ficha.AttemptStatus) {
	switch status {
	case ficha.StatusSuccess:
		r.Succeeded++
	case ficha.StatusConfidential:
		r.Confidential++
	case ficha.StatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

// pacer returns a limiter that spaces calls delay apart, with the
// first call passing immediately. A non-positive delay never waits.
func pacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
