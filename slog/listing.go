package slog

import (
	"context"
	"log/slog"
	"time"

	"ficha"
)

// Ensure LoggingListing implements ficha.Listing.
var _ ficha.Listing = (*LoggingListing)(nil)

// LoggingListing wraps a Listing with navigation logging.
type LoggingListing struct {
	next   ficha.Listing
	logger *slog.Logger
}

// NewLoggingListing creates a new LoggingListing.
func NewLoggingListing(next ficha.Listing, logger *slog.Logger) *LoggingListing {
	return &LoggingListing{next: next, logger: logger}
}

// Open delegates to the wrapped listing and logs the navigation.
func (l *LoggingListing) Open(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		l.logger.Info("listing open",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Open(ctx)
}

// SelectPage delegates to the wrapped listing and logs the page switch.
func (l *LoggingListing) SelectPage(ctx context.Context, page int) (err error) {
	defer func(begin time.Time) {
		l.logger.Info("page select",
			"page", page,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.SelectPage(ctx, page)
}

// TotalPages delegates to the wrapped listing.
func (l *LoggingListing) TotalPages(ctx context.Context) int {
	return l.next.TotalPages(ctx)
}

// Rows delegates to the wrapped listing and logs the row count.
func (l *LoggingListing) Rows(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("row count",
			"rows", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Rows(ctx)
}

// RowHTML delegates to the wrapped listing.
func (l *LoggingListing) RowHTML(ctx context.Context, row int) (string, error) {
	return l.next.RowHTML(ctx, row)
}

// OpenDetail delegates to the wrapped listing and logs the modal open.
func (l *LoggingListing) OpenDetail(ctx context.Context, row int) (detail ficha.Detail, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("detail open",
			"row", row,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.OpenDetail(ctx, row)
}

// Close delegates to the wrapped listing.
func (l *LoggingListing) Close() error {
	return l.next.Close()
}
