// Package csv provides append-only CSV implementations of the ledger
// and metadata log. Rows are only ever appended, never rewritten, so a
// crash mid-run can at worst truncate the final row; the resume check
// is a pure scan over whatever rows survived.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"ficha"
)

// ledgerHeader matches the historical log format; resume scans of logs
// written by earlier runs depend on the column order.
var ledgerHeader = []string{
	"page", "row_index", "name", "folio", "filename", "api_url", "status", "notes",
}

// Ensure Ledger implements ficha.Ledger at compile time.
var _ ficha.Ledger = (*Ledger)(nil)

// Ledger is an append-only CSV attempt log.
type Ledger struct {
	path string
}

// NewLedger opens (creating if necessary) the ledger file at path and
// writes the header row when the file is new.
func NewLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init() error {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return ficha.Errorf(ficha.EWRITE, "stat ledger %s: %v", l.path, err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ficha.Errorf(ficha.EWRITE, "create ledger %s: %v", l.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "write ledger header: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "flush ledger header: %v", err)
	}
	return f.Close()
}

// Completed reports whether any row for key has status success. The
// scan tolerates the header row, short rows, and malformed page
// numbers left behind by interrupted runs.
func (l *Ledger) Completed(ctx context.Context, key ficha.ItemKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		row, err := r.Read()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			// A torn final row from a crashed run is expected; rows
			// before it have already been scanned.
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return false, fmt.Errorf("read ledger: %w", err)
		}
		if len(row) < 7 {
			continue
		}
		page, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		rowIdx, err := strconv.Atoi(row[1])
		if err != nil {
			continue
		}
		if page == key.Page && rowIdx == key.Row && row[6] == string(ficha.StatusSuccess) {
			return true, nil
		}
	}
}

// Record appends one attempt row. The row is flushed before Record
// returns; any write or flush failure surfaces as EWRITE.
func (l *Ledger) Record(ctx context.Context, attempt *ficha.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ficha.Errorf(ficha.EWRITE, "open ledger for append: %v", err)
	}

	w := csv.NewWriter(f)
	row := []string{
		strconv.Itoa(attempt.Key.Page),
		strconv.Itoa(attempt.Key.Row),
		attempt.Name,
		attempt.Folio,
		attempt.OutputPath,
		attempt.RemoteRef,
		string(attempt.Status),
		attempt.Note,
	}
	if err := w.Write(row); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "append ledger row: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "flush ledger row: %v", err)
	}
	if err := f.Close(); err != nil {
		return ficha.Errorf(ficha.EWRITE, "close ledger: %v", err)
	}
	return nil
}
