package ficha

import "context"

// Ledger is the append-only record of per-item processing attempts.
// Entries are never rewritten or removed; resume logic treats a key as
// done when any historical attempt for it succeeded. The append-only
// discipline is what keeps the ledger trustworthy after a crash
// mid-run, and is what would make a future concurrent version safe.
type Ledger interface {
	// Completed reports whether any prior attempt for key has
	// StatusSuccess. It is read-only and safe to call before any
	// mutation in the current run.
	Completed(ctx context.Context, key ItemKey) (bool, error)

	// Record appends one attempt. A failed append must surface as an
	// error so the caller can report the item as failed; it must never
	// fail silently.
	Record(ctx context.Context, attempt *Attempt) error
}

// MetadataLog records one row per item ever seen, regardless of
// outcome, so the metadata file is a complete audit of the listing.
// Failed and confidential items get a row with empty result fields.
type MetadataLog interface {
	// Append writes one metadata row for the attempt's item. Callers
	// append metadata only after the corresponding ledger outcome has
	// been recorded, never before.
	Append(ctx context.Context, meta *Metadata, attempt *Attempt) error
}

// DocumentStore persists captured document bytes.
type DocumentStore interface {
	// Save writes data under the given sanitized label and returns the
	// path of the stored document. Empty data is an EWRITE error.
	Save(ctx context.Context, label string, data []byte) (string, error)
}
