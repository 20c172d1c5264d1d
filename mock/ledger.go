package mock

import (
	"context"

	"ficha"
)

var _ ficha.Ledger = (*Ledger)(nil)

// Ledger is a mock implementation of ficha.Ledger.
type Ledger struct {
	CompletedFn func(ctx context.Context, key ficha.ItemKey) (bool, error)
	RecordFn    func(ctx context.Context, attempt *ficha.Attempt) error
}

func (l *Ledger) Completed(ctx context.Context, key ficha.ItemKey) (bool, error) {
	return l.CompletedFn(ctx, key)
}

func (l *Ledger) Record(ctx context.Context, attempt *ficha.Attempt) error {
	return l.RecordFn(ctx, attempt)
}

var _ ficha.MetadataLog = (*MetadataLog)(nil)

// MetadataLog is a mock implementation of ficha.MetadataLog.
type MetadataLog struct {
	AppendFn func(ctx context.Context, meta *ficha.Metadata, attempt *ficha.Attempt) error
}

func (m *MetadataLog) Append(ctx context.Context, meta *ficha.Metadata, attempt *ficha.Attempt) error {
	return m.AppendFn(ctx, meta, attempt)
}

var _ ficha.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of ficha.DocumentStore.
type DocumentStore struct {
	SaveFn func(ctx context.Context, label string, data []byte) (string, error)
}

func (s *DocumentStore) Save(ctx context.Context, label string, data []byte) (string, error) {
	return s.SaveFn(ctx, label, data)
}

var _ ficha.RowParser = (*RowParser)(nil)

// RowParser is a mock implementation of ficha.RowParser.
type RowParser struct {
	ParseFn func(html string) (*ficha.Metadata, error)
}

func (p *RowParser) Parse(html string) (*ficha.Metadata, error) {
	return p.ParseFn(html)
}
