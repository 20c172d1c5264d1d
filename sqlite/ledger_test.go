package sqlite_test

import (
	"context"
	"testing"

	"ficha"
	"ficha/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLedger_CompletedRequiresSuccess(t *testing.T) {
	t.Parallel()

	ledger := sqlite.NewLedger(openTestDB(t))
	ctx := context.Background()
	key := ficha.ItemKey{Page: 3, Row: 2}

	done, err := ledger.Completed(ctx, key)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, ledger.Record(ctx, &ficha.Attempt{
		Key: key, Status: ficha.StatusError, Note: "pdf_generation_failed",
	}))
	done, err = ledger.Completed(ctx, key)
	require.NoError(t, err)
	assert.False(t, done, "a failed attempt must not complete the key")

	require.NoError(t, ledger.Record(ctx, &ficha.Attempt{
		Key: key, Status: ficha.StatusSuccess, OutputPath: "out/a.pdf",
	}))
	done, err = ledger.Completed(ctx, key)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestLedger_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	ledger := sqlite.NewLedger(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, &ficha.Attempt{
		Key: ficha.ItemKey{Page: 1, Row: 0}, Status: ficha.StatusSuccess,
	}))

	done, err := ledger.Completed(ctx, ficha.ItemKey{Page: 1, Row: 1})
	require.NoError(t, err)
	assert.False(t, done)

	done, err = ledger.Completed(ctx, ficha.ItemKey{Page: 2, Row: 0})
	require.NoError(t, err)
	assert.False(t, done)
}

func TestLedger_RecordValidates(t *testing.T) {
	t.Parallel()

	ledger := sqlite.NewLedger(openTestDB(t))

	err := ledger.Record(context.Background(), &ficha.Attempt{
		Key: ficha.ItemKey{Page: 1, Row: 0}, Status: "unknown",
	})
	require.Error(t, err)
	assert.Equal(t, ficha.EINVALID, ficha.ErrorCode(err))
}

func TestLedger_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/attempts.db"
	ctx := context.Background()
	key := ficha.ItemKey{Page: 7, Row: 4}

	db := sqlite.NewDB(path)
	require.NoError(t, db.Open())
	require.NoError(t, sqlite.NewLedger(db).Record(ctx, &ficha.Attempt{
		Key: key, Status: ficha.StatusSuccess,
	}))
	require.NoError(t, db.Close())

	db = sqlite.NewDB(path)
	require.NoError(t, db.Open())
	defer db.Close()
	done, err := sqlite.NewLedger(db).Completed(ctx, key)
	require.NoError(t, err)
	assert.True(t, done)
}
