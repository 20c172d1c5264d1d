// Package mock provides function-field mock implementations of the
// ficha interfaces for testing.
package mock

import (
	"context"

	"ficha"
)

var _ ficha.Listing = (*Listing)(nil)

// Listing is a mock implementation of ficha.Listing.
type Listing struct {
	OpenFn       func(ctx context.Context) error
	SelectPageFn func(ctx context.Context, page int) error
	TotalPagesFn func(ctx context.Context) int
	RowsFn       func(ctx context.Context) (int, error)
	RowHTMLFn    func(ctx context.Context, row int) (string, error)
	OpenDetailFn func(ctx context.Context, row int) (ficha.Detail, error)
	CloseFn      func() error
}

func (l *Listing) Open(ctx context.Context) error {
	return l.OpenFn(ctx)
}

func (l *Listing) SelectPage(ctx context.Context, page int) error {
	return l.SelectPageFn(ctx, page)
}

func (l *Listing) TotalPages(ctx context.Context) int {
	return l.TotalPagesFn(ctx)
}

func (l *Listing) Rows(ctx context.Context) (int, error) {
	return l.RowsFn(ctx)
}

func (l *Listing) RowHTML(ctx context.Context, row int) (string, error) {
	return l.RowHTMLFn(ctx, row)
}

func (l *Listing) OpenDetail(ctx context.Context, row int) (ficha.Detail, error) {
	return l.OpenDetailFn(ctx, row)
}

func (l *Listing) Close() error {
	if l.CloseFn == nil {
		return nil
	}
	return l.CloseFn()
}

var _ ficha.Detail = (*Detail)(nil)

// Detail is a mock implementation of ficha.Detail.
type Detail struct {
	ConfidentialFn func(ctx context.Context) bool
	WaitReadyFn    func(ctx context.Context) error
	StabilizeFn    func(ctx context.Context) error
	CapturePDFFn   func(ctx context.Context) ([]byte, error)
	CloseFn        func()

	// CloseCalls counts Close invocations so tests can assert the
	// surface is dismissed on every exit path.
	CloseCalls int
}

func (d *Detail) Confidential(ctx context.Context) bool {
	if d.ConfidentialFn == nil {
		return false
	}
	return d.ConfidentialFn(ctx)
}

func (d *Detail) WaitReady(ctx context.Context) error {
	if d.WaitReadyFn == nil {
		return nil
	}
	return d.WaitReadyFn(ctx)
}

func (d *Detail) Stabilize(ctx context.Context) error {
	if d.StabilizeFn == nil {
		return nil
	}
	return d.StabilizeFn(ctx)
}

func (d *Detail) CapturePDF(ctx context.Context) ([]byte, error) {
	return d.CapturePDFFn(ctx)
}

func (d *Detail) Close() {
	d.CloseCalls++
	if d.CloseFn != nil {
		d.CloseFn()
	}
}
