package ficha_test

import (
	"strings"
	"testing"

	"ficha"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemKey_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts positive page and zero row", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ficha.ItemKey{Page: 1, Row: 0}.Validate())
	})

	t.Run("rejects zero page", func(t *testing.T) {
		t.Parallel()
		err := ficha.ItemKey{Page: 0, Row: 0}.Validate()
		require.Error(t, err)
		assert.Equal(t, ficha.EINVALID, ficha.ErrorCode(err))
	})

	t.Run("rejects negative row", func(t *testing.T) {
		t.Parallel()
		err := ficha.ItemKey{Page: 1, Row: -1}.Validate()
		require.Error(t, err)
		assert.Equal(t, ficha.EINVALID, ficha.ErrorCode(err))
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("replaces path and wildcard characters", func(t *testing.T) {
		t.Parallel()

		got := ficha.SanitizeFilename("María/Pérez*2024", 120)

		assert.Equal(t, "María_Pérez_2024", got)
	})

	t.Run("preserves letters digits spaces dash underscore dot", func(t *testing.T) {
		t.Parallel()

		in := "Ana-María López_2 v1.0"
		assert.Equal(t, in, ficha.SanitizeFilename(in, 120))
	})

	t.Run("truncates to max length in runes", func(t *testing.T) {
		t.Parallel()

		got := ficha.SanitizeFilename(strings.Repeat("á", 200), 120)

		assert.Equal(t, 120, len([]rune(got)))
	})

	t.Run("is deterministic and collisions are possible", func(t *testing.T) {
		t.Parallel()

		// Distinct inputs can sanitize identically; the store does not
		// disambiguate them.
		a := ficha.SanitizeFilename("A/B", 120)
		b := ficha.SanitizeFilename("A*B", 120)

		assert.Equal(t, a, b)
	})
}

func TestDocumentLabel(t *testing.T) {
	t.Parallel()

	t.Run("joins name and folio", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Juan Pérez_ABC-123", ficha.DocumentLabel("Juan Pérez", "ABC-123"))
	})

	t.Run("falls back to unknown for empty name", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "unknown_F1", ficha.DocumentLabel("", "F1"))
	})
}

func TestMetadata_Fields(t *testing.T) {
	t.Parallel()

	var m ficha.Metadata
	for i := 0; i < ficha.MetadataFieldCount; i++ {
		m.SetField(i, string(rune('a'+i)))
	}
	// Indexes past the known columns are ignored.
	m.SetField(ficha.MetadataFieldCount, "overflow")

	fields := m.Fields()
	require.Len(t, fields, ficha.MetadataFieldCount)
	assert.Equal(t, "a", fields[0])
	assert.Equal(t, "k", fields[10])
}

func TestAttempt_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts known statuses", func(t *testing.T) {
		t.Parallel()
		for _, s := range []ficha.AttemptStatus{
			ficha.StatusSuccess, ficha.StatusConfidential,
			ficha.StatusError, ficha.StatusSkipped,
		} {
			a := &ficha.Attempt{Key: ficha.ItemKey{Page: 1}, Status: s}
			assert.NoError(t, a.Validate())
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()
		a := &ficha.Attempt{Key: ficha.ItemKey{Page: 1}, Status: "done"}
		err := a.Validate()
		require.Error(t, err)
		assert.Equal(t, ficha.EINVALID, ficha.ErrorCode(err))
	})
}
