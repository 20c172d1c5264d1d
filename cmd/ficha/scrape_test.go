package main_test

import (
	"bytes"
	"context"
	"testing"

	"ficha"
	main "ficha/cmd/ficha"
	"ficha/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(ctx context.Context, stdout, stderr *bytes.Buffer) *main.Dependencies {
	details := []*mock.Detail{
		{CapturePDFFn: func(ctx context.Context) ([]byte, error) { return []byte("%PDF"), nil }},
		{ConfidentialFn: func(ctx context.Context) bool { return true }},
	}
	return &main.Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Listing: &mock.Listing{
			OpenFn:       func(ctx context.Context) error { return nil },
			SelectPageFn: func(ctx context.Context, page int) error { return nil },
			TotalPagesFn: func(ctx context.Context) int { return 1 },
			RowsFn:       func(ctx context.Context) (int, error) { return len(details), nil },
			RowHTMLFn: func(ctx context.Context, row int) (string, error) {
				return "<tr><td>F-1</td></tr>", nil
			},
			OpenDetailFn: func(ctx context.Context, row int) (ficha.Detail, error) {
				return details[row], nil
			},
		},
		Rows: &mock.RowParser{ParseFn: func(html string) (*ficha.Metadata, error) {
			return &ficha.Metadata{Folio: "F-1", Name: "ANA"}, nil
		}},
		Ledger: &mock.Ledger{
			CompletedFn: func(ctx context.Context, key ficha.ItemKey) (bool, error) { return false, nil },
			RecordFn:    func(ctx context.Context, attempt *ficha.Attempt) error { return nil },
		},
		Metadata: &mock.MetadataLog{
			AppendFn: func(ctx context.Context, meta *ficha.Metadata, attempt *ficha.Attempt) error {
				return nil
			},
		},
		Store: &mock.DocumentStore{
			SaveFn: func(ctx context.Context, label string, data []byte) (string, error) {
				return "out/" + label + ".pdf", nil
			},
		},
	}
}

func TestScrapeCmd_Run_PrintsProgressAndSummary(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := &main.ScrapeCmd{StartPage: 1, EndPage: 1}

	err := cmd.Run(testDeps(context.Background(), &stdout, &stderr))

	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "page 1 (2 rows)")
	assert.Contains(t, output, "1 saved, 1 confidential")
}

func TestScrapeCmd_Run_InterruptionIsNotAnError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var stdout, stderr bytes.Buffer
	deps := testDeps(ctx, &stdout, &stderr)
	deps.Store = &mock.DocumentStore{
		SaveFn: func(ctx context.Context, label string, data []byte) (string, error) {
			cancel()
			return "out/" + label + ".pdf", nil
		},
	}
	cmd := &main.ScrapeCmd{StartPage: 1, EndPage: 1}

	err := cmd.Run(deps)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "interrupted")
}

func TestScrapeCmd_Run_DryRunSummaryNotesNoWrites(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := &main.ScrapeCmd{StartPage: 1, EndPage: 1, DryRun: true}

	err := cmd.Run(testDeps(context.Background(), &stdout, &stderr))

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "dry run")
}
