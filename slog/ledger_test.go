package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"ficha"
	"ficha/mock"
	fichaslog "ficha/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLedger_Record(t *testing.T) {
	t.Parallel()

	t.Run("logs key and status with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Ledger{
			RecordFn: func(ctx context.Context, attempt *ficha.Attempt) error {
				return nil
			},
		}

		ledger := fichaslog.NewLoggingLedger(inner, logger)
		err := ledger.Record(context.Background(), &ficha.Attempt{
			Key:    ficha.ItemKey{Page: 3, Row: 7},
			Status: ficha.StatusSuccess,
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "ledger record")
		assert.Contains(t, output, "key=3/7")
		assert.Contains(t, output, "status=success")
		assert.Contains(t, output, "duration=")
	})

	t.Run("propagates and logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Ledger{
			RecordFn: func(ctx context.Context, attempt *ficha.Attempt) error {
				return errors.New("disk full")
			},
		}

		ledger := fichaslog.NewLoggingLedger(inner, logger)
		err := ledger.Record(context.Background(), &ficha.Attempt{
			Key:    ficha.ItemKey{Page: 1, Row: 0},
			Status: ficha.StatusError,
		})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "disk full")
	})
}

func TestLoggingLedger_Completed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.Ledger{
		CompletedFn: func(ctx context.Context, key ficha.ItemKey) (bool, error) {
			return true, nil
		},
	}

	ledger := fichaslog.NewLoggingLedger(inner, logger)
	ok, err := ledger.Completed(context.Background(), ficha.ItemKey{Page: 2, Row: 4})

	require.NoError(t, err)
	assert.True(t, ok)
	output := buf.String()
	assert.Contains(t, output, "ledger lookup")
	assert.Contains(t, output, "key=2/4")
	assert.Contains(t, output, "completed=true")
}
