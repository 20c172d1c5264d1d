package rod

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"ficha"
)

// Site selectors. The listing is a PrimeNG data table behind a
// "Ver Lista" toggle; each row carries a Bootstrap modal trigger.
const (
	rowSelector           = "table tbody tr"
	listViewButtonText    = "Ver Lista"
	modalTriggerSelector  = "a[data-bs-toggle='modal']"
	paginatorPageSelector = "span.p-paginator-pages button.p-paginator-page"
)

const (
	rowWaitTimeout      = 10 * time.Second
	listSwitchTimeout   = 5 * time.Second
	pageSettleDelay     = time.Second
	listViewSettleDelay = 500 * time.Millisecond
)

// Ensure Listing implements ficha.Listing at compile time.
var _ ficha.Listing = (*Listing)(nil)

// Listing drives the registry's paginated list view through one live
// browser page. It is not safe for concurrent use; the pipeline owns
// it exclusively.
type Listing struct {
	mgr    *Manager
	url    string
	logger *slog.Logger

	page *rod.Page
}

// ListingOption configures a Listing.
type ListingOption func(*Listing)

// WithLogger attaches a logger for page-level diagnostics.
func WithLogger(logger *slog.Logger) ListingOption {
	return func(l *Listing) {
		l.logger = logger
	}
}

// NewListing creates a Listing over the manager's browser for the
// given listing URL. Open must be called before any other method.
func NewListing(mgr *Manager, url string, opts ...ListingOption) *Listing {
	l := &Listing{mgr: mgr, url: url}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// Open navigates to the listing, waits for it to load, and switches
// it into list view if the toggle is present.
func (l *Listing) Open(ctx context.Context) error {
	page, err := l.mgr.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	l.page = page

	p := page.Context(ctx)
	if err := p.Navigate(l.url); err != nil {
		return fmt.Errorf("navigating to listing: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("loading listing: %w", err)
	}

	l.switchToListView(ctx)

	if _, err := p.Timeout(rowWaitTimeout).Element(rowSelector); err != nil {
		l.logger.Warn("rows not detected quickly, continuing", "err", err)
	}
	return nil
}

// switchToListView clicks the list-view toggle when present. The
// listing sometimes opens directly in list view, in which case the
// toggle is absent and rows are already there.
func (l *Listing) switchToListView(ctx context.Context) {
	p := l.page.Context(ctx)
	btn, err := p.Timeout(listSwitchTimeout).ElementR("button", listViewButtonText)
	if err != nil {
		if _, rerr := p.Elements(rowSelector); rerr != nil {
			l.logger.Warn("list-view button not found and no rows detected")
		}
		return
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		l.logger.Warn("list-view switch failed", "err", err)
		return
	}
	if _, err := p.Timeout(rowWaitTimeout).Element(rowSelector); err != nil {
		l.logger.Warn("rows did not appear after list-view switch", "err", err)
	}
	sleep(ctx, listViewSettleDelay)
}

// SelectPage clicks the paginator button for the given page number.
// Returns ENOTFOUND when the paginator shows no such page.
func (l *Listing) SelectPage(ctx context.Context, page int) error {
	p := l.page.Context(ctx)
	buttons, err := p.Elements(paginatorPageSelector)
	if err != nil {
		return fmt.Errorf("reading paginator: %w", err)
	}

	want := strconv.Itoa(page)
	for _, btn := range buttons {
		text, err := btn.Text()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != want {
			continue
		}
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("clicking page %d: %w", page, err)
		}
		// The table rerenders asynchronously after a paginator click.
		sleep(ctx, pageSettleDelay)
		if _, err := p.Timeout(rowWaitTimeout).Element(rowSelector); err != nil {
			return ficha.Errorf(ficha.ETIMEOUT, "rows did not load on page %d", page)
		}
		return nil
	}
	return ficha.Errorf(ficha.ENOTFOUND, "paginator has no button for page %d", page)
}

// TotalPages scans the paginator's numbered buttons and returns the
// highest one. Detection is best-effort: any failure reports 1.
func (l *Listing) TotalPages(ctx context.Context) int {
	p := l.page.Context(ctx)
	buttons, err := p.Elements(paginatorPageSelector)
	if err != nil {
		return 1
	}
	maxPage := 1
	for _, btn := range buttons {
		text, err := btn.Text()
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n > maxPage {
			maxPage = n
		}
	}
	return maxPage
}

// Rows returns the number of rows visible on the current page.
func (l *Listing) Rows(ctx context.Context) (int, error) {
	rows, err := l.page.Context(ctx).Elements(rowSelector)
	if err != nil {
		return 0, fmt.Errorf("enumerating rows: %w", err)
	}
	return len(rows), nil
}

// RowHTML returns the outer HTML of the given row for metadata
// extraction.
func (l *Listing) RowHTML(ctx context.Context, row int) (string, error) {
	el, err := l.rowElement(ctx, row)
	if err != nil {
		return "", err
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("reading row HTML: %w", err)
	}
	return html, nil
}

// OpenDetail clicks the modal trigger inside the given row and
// returns the opened detail surface.
func (l *Listing) OpenDetail(ctx context.Context, row int) (ficha.Detail, error) {
	el, err := l.rowElement(ctx, row)
	if err != nil {
		return nil, err
	}

	has, trigger, err := el.Has(modalTriggerSelector)
	if err != nil || !has {
		return nil, ficha.Errorf(ficha.ENOTFOUND, "modal trigger not found in row %d", row)
	}
	if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("clicking modal trigger in row %d: %w", row, err)
	}

	return newDetail(l.mgr, l.page, l.logger), nil
}

// Close closes the listing page. The browser itself belongs to the
// Manager and is closed separately.
func (l *Listing) Close() error {
	if l.page == nil {
		return nil
	}
	return l.page.Close()
}

func (l *Listing) rowElement(ctx context.Context, row int) (*rod.Element, error) {
	rows, err := l.page.Context(ctx).Elements(rowSelector)
	if err != nil {
		return nil, fmt.Errorf("enumerating rows: %w", err)
	}
	if row >= len(rows) {
		return nil, ficha.Errorf(ficha.ERANGE, "row %d out of bounds, page has %d rows", row, len(rows))
	}
	return rows[row], nil
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
