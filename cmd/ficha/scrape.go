package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ficha/scrape"
)

// ScrapeCmd handles the listing traversal.
type ScrapeCmd struct {
	StartPage int
	EndPage   int
	DryRun    bool
	RowDelay  time.Duration
	PageDelay time.Duration
	Timeout   time.Duration
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	runner := &scrape.Runner{
		Listing:     deps.Listing,
		Rows:        deps.Rows,
		Ledger:      deps.Ledger,
		Metadata:    deps.Metadata,
		Store:       deps.Store,
		Logger:      deps.Logger,
		DryRun:      c.DryRun,
		RowDelay:    c.RowDelay,
		PageDelay:   c.PageDelay,
		ItemTimeout: c.Timeout,
		Progress:    progressPrinter(deps.Stdout),
	}

	result, err := runner.Run(deps.Ctx, c.StartPage, c.EndPage)
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// An interrupted run is not a failure: completed items are in
		// the ledger and the next run resumes after them.
		fmt.Fprintln(deps.Stdout, "interrupted; progress is saved in the ledger")
	case err != nil:
		return err
	}

	if result != nil {
		printSummary(deps.Stdout, result, c.DryRun)
	}
	return nil
}

func progressPrinter(w io.Writer) scrape.ProgressFunc {
	return func(e scrape.ProgressEvent) {
		switch e.Type {
		case scrape.ProgressPageStarted:
			fmt.Fprintf(w, "page %d (%d rows)\n", e.Page, e.Rows)
		case scrape.ProgressItemDone:
			fmt.Fprintf(w, "  [%s] %s %s\n", e.Key.String(), e.Status, e.Note)
		}
	}
}

func printSummary(w io.Writer, r *scrape.Result, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "dry run: no documents, ledger rows or metadata were written")
	}
	fmt.Fprintf(w, "processed %d items across %d pages: %d saved, %d confidential, %d failed, %d skipped\n",
		r.Items(), r.Pages, r.Succeeded, r.Confidential, r.Failed, r.Skipped)
}
