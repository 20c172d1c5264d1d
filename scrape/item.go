package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"ficha"
)

// captureRef marks documents produced by the DevTools print pipeline
// in the api_url ledger column, distinguishing them from documents
// downloaded from a remote endpoint.
const captureRef = "CDP_PDF"

// ProcessItem drives one listing item from pending to a terminal
// outcome and records it. It never returns an error: every failure
// becomes an error-status ledger entry so one bad item cannot stop
// traversal. A panic escaping the underlying automation layer is
// caught here and recorded the same way.
func (r *Runner) ProcessItem(ctx context.Context, key ficha.ItemKey) (status ficha.AttemptStatus, note string) {
	defer func() {
		if p := recover(); p != nil {
			status = ficha.StatusError
			note = fmt.Sprintf("unhandled: %v", p)
			attempt := r.newAttempt(key, &ficha.Metadata{}, ficha.StatusError, note)
			r.record(ctx, attempt)
			r.appendMetadata(ctx, &ficha.Metadata{}, attempt)
		}
	}()
	return r.processItem(ctx, key)
}

func (r *Runner) processItem(ctx context.Context, key ficha.ItemKey) (ficha.AttemptStatus, string) {
	// A historical success permanently suppresses reprocessing. The
	// skip has no side effects at all: no capture, no writes.
	done, err := r.Ledger.Completed(ctx, key)
	if err != nil {
		note := "ledger_scan_failed: " + err.Error()
		attempt := r.newAttempt(key, &ficha.Metadata{}, ficha.StatusError, note)
		r.record(ctx, attempt)
		r.appendMetadata(ctx, &ficha.Metadata{}, attempt)
		return ficha.StatusError, note
	}
	if done {
		return ficha.StatusSkipped, "already_logged"
	}

	// Metadata extraction is best-effort; a row that cannot be parsed
	// still gets processed and audited with empty fields.
	meta := &ficha.Metadata{}
	html, err := r.Listing.RowHTML(ctx, key.Row)
	switch {
	case ficha.ErrorCode(err) == ficha.ERANGE:
		return r.fail(ctx, key, meta, "row_index_out_of_bounds")
	case err != nil:
		return r.fail(ctx, key, meta, "row_read_failed: "+ficha.ErrorMessage(err))
	default:
		if parsed, perr := r.Rows.Parse(html); perr == nil {
			meta = parsed
		}
	}

	detail, err := r.Listing.OpenDetail(ctx, key.Row)
	if err != nil {
		if ficha.ErrorCode(err) == ficha.ENOTFOUND {
			return r.fail(ctx, key, meta, "modal_trigger_not_found")
		}
		return r.fail(ctx, key, meta, "modal_click_failed: "+ficha.ErrorMessage(err))
	}
	// Dismiss the surface on every exit path below. Close is
	// best-effort and never escalates the outcome.
	defer detail.Close()

	if detail.Confidential(ctx) {
		attempt := r.newAttempt(key, meta, ficha.StatusConfidential, "record_confidential")
		r.record(ctx, attempt)
		r.appendMetadata(ctx, meta, attempt)
		return ficha.StatusConfidential, "no_pdf"
	}

	if err := detail.WaitReady(ctx); err != nil {
		return r.fail(ctx, key, meta, "modal_not_visible")
	}

	// Stabilization never fails the item; a timeout means proceeding
	// with best-effort content.
	if err := detail.Stabilize(ctx); err != nil {
		r.logger().Warn("stabilize", "key", key.String(), "err", err)
	}

	if r.DryRun {
		return ficha.StatusSuccess, "dry_run"
	}

	data, err := detail.CapturePDF(ctx)
	if err != nil {
		return r.fail(ctx, key, meta, "pdf_generation_failed: "+ficha.ErrorMessage(err))
	}
	if len(data) == 0 {
		return r.fail(ctx, key, meta, "no_pdf_bytes")
	}

	label := ficha.DocumentLabel(meta.Name, meta.Folio)
	path, err := r.Store.Save(ctx, label, data)
	if err != nil {
		return r.fail(ctx, key, meta, "write_failed: "+ficha.ErrorMessage(err))
	}

	attempt := r.newAttempt(key, meta, ficha.StatusSuccess, "")
	attempt.OutputPath = path
	attempt.RemoteRef = captureRef
	if err := r.record(ctx, attempt); err != nil {
		// The document exists but its outcome could not be durably
		// recorded; the item must count as failed so a later run
		// retries it. The metadata row still documents the capture:
		// the ledger append was attempted, which satisfies the
		// record-before-metadata ordering.
		note := "ledger_write_failed: " + err.Error()
		attempt.Status = ficha.StatusError
		attempt.Note = note
		r.appendMetadata(ctx, meta, attempt)
		return ficha.StatusError, note
	}
	r.appendMetadata(ctx, meta, attempt)
	return ficha.StatusSuccess, "done"
}

// fail records an error outcome plus the item's metadata row.
func (r *Runner) fail(ctx context.Context, key ficha.ItemKey, meta *ficha.Metadata, note string) (ficha.AttemptStatus, string) {
	attempt := r.newAttempt(key, meta, ficha.StatusError, note)
	r.record(ctx, attempt)
	r.appendMetadata(ctx, meta, attempt)
	return ficha.StatusError, note
}

func (r *Runner) newAttempt(key ficha.ItemKey, meta *ficha.Metadata, status ficha.AttemptStatus, note string) *ficha.Attempt {
	return &ficha.Attempt{
		Key:    key,
		Name:   meta.Name,
		Folio:  meta.Folio,
		Status: status,
		Note:   note,
	}
}

// record appends the attempt to the ledger unless the run is a dry
// run. Append failures are logged and returned; they fail the item,
// never the run.
func (r *Runner) record(ctx context.Context, attempt *ficha.Attempt) error {
	if r.DryRun {
		return nil
	}
	// A terminal outcome must reach the ledger even when the item's
	// deadline has already expired; the write itself is not bounded by
	// the item budget.
	ctx = context.WithoutCancel(ctx)
	if err := r.Ledger.Record(ctx, attempt); err != nil {
		r.logger().Error("ledger append failed", "key", attempt.Key.String(), "err", err)
		return err
	}
	return nil
}

// appendMetadata writes the audit row. It runs after record: a crash
// between the two leaves a ledger row without a metadata row, which is
// detectable, instead of a metadata row claiming an outcome that was
// never recorded.
func (r *Runner) appendMetadata(ctx context.Context, meta *ficha.Metadata, attempt *ficha.Attempt) {
	if r.DryRun {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := r.Metadata.Append(ctx, meta, attempt); err != nil {
		r.logger().Error("metadata append failed", "key", attempt.Key.String(), "err", err)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
