package ficha

import "context"

// Listing is the paginated registry listing, driven through browser
// automation. The listing is a single mutable shared resource: callers
// process items strictly sequentially and fully own the listing for
// the duration of one item.
type Listing interface {
	// Open navigates to the listing and switches it into list view.
	// Failure here is the only error that is fatal to a whole run.
	Open(ctx context.Context) error

	// SelectPage navigates the paginator to the given 1-based page.
	SelectPage(ctx context.Context, page int) error

	// TotalPages returns the best-effort detected page count. When the
	// paginator exposes no reliable total it returns 1.
	TotalPages(ctx context.Context) int

	// Rows returns the number of rows currently visible.
	Rows(ctx context.Context) (int, error)

	// RowHTML returns the outer HTML of the given row, for metadata
	// extraction without per-cell round-trips. Returns ERANGE if the
	// row does not exist on the current page.
	RowHTML(ctx context.Context, row int) (string, error)

	// OpenDetail activates the detail trigger inside the given row and
	// returns a handle to the opened surface. Returns ENOTFOUND when
	// the row has no trigger or it cannot be activated.
	OpenDetail(ctx context.Context, row int) (Detail, error)

	// Close releases the underlying automation resources.
	Close() error
}

// Detail is an open detail surface for one listing row. The caller
// must call Close on every exit path once OpenDetail has succeeded.
type Detail interface {
	// Confidential reports whether the restricted-record banner became
	// visible within a short bounded wait. When it did, the banner is
	// dismissed best-effort before returning.
	Confidential(ctx context.Context) bool

	// WaitReady blocks until the normal detail surface is visible.
	// Returns ETIMEOUT if it does not appear within the bound.
	WaitReady(ctx context.Context) error

	// Stabilize waits for the surface's asynchronous content to stop
	// changing size and fits the surface's layout to its content so a
	// capture renders the whole record. It never fails the item: on a
	// stabilization timeout the caller proceeds with best-effort
	// content.
	Stabilize(ctx context.Context) error

	// CapturePDF renders the surface's content to PDF bytes in an
	// isolated snapshot context, away from the live page's chrome and
	// scroll state. Returns ECAPTURE when rendering produced nothing.
	CapturePDF(ctx context.Context) ([]byte, error)

	// Close dismisses the surface best-effort. It never escalates the
	// item's outcome.
	Close()
}

// RowParser extracts listing metadata from one row's outer HTML.
type RowParser interface {
	Parse(html string) (*Metadata, error)
}
