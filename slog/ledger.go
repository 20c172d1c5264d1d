package slog

import (
	"context"
	"log/slog"
	"time"

	"ficha"
)

// Ensure LoggingLedger implements ficha.Ledger.
var _ ficha.Ledger = (*LoggingLedger)(nil)

// LoggingLedger wraps a Ledger with operation logging.
type LoggingLedger struct {
	next   ficha.Ledger
	logger *slog.Logger
}

// NewLoggingLedger creates a new LoggingLedger.
func NewLoggingLedger(next ficha.Ledger, logger *slog.Logger) *LoggingLedger {
	return &LoggingLedger{next: next, logger: logger}
}

// Completed delegates to the wrapped ledger and logs the lookup.
func (l *LoggingLedger) Completed(ctx context.Context, key ficha.ItemKey) (ok bool, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("ledger lookup",
			"key", key.String(),
			"completed", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Completed(ctx, key)
}

// Record delegates to the wrapped ledger and logs the outcome.
func (l *LoggingLedger) Record(ctx context.Context, attempt *ficha.Attempt) (err error) {
	defer func(begin time.Time) {
		l.logger.Info("ledger record",
			"key", attempt.Key.String(),
			"status", attempt.Status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Record(ctx, attempt)
}
