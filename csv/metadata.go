package csv

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"ficha"
)

// metadataHeader lists the published metadata columns: the eleven
// listing fields followed by the per-attempt context.
var metadataHeader = []string{
	"folio_unico", "nombre", "primer_apellido", "segundo_apellido",
	"edad_actual", "sexo", "estatus_desaparicion", "fecha_hechos",
	"entidad_hechos", "informacion_reservada", "boletin",
	"pdf_filename", "api_url", "page", "row_index",
}

// Ensure MetadataLog implements ficha.MetadataLog at compile time.
var _ ficha.MetadataLog = (*MetadataLog)(nil)

// MetadataLog appends one CSV row per item ever seen, regardless of
// the attempt's outcome. The header is written once, when the file is
// new or empty.
type MetadataLog struct {
	path string
}

// NewMetadataLog returns a MetadataLog writing to path. The file is
// created lazily on the first Append.
func NewMetadataLog(path string) *MetadataLog {
	return &MetadataLog{path: path}
}

// Append writes one metadata row for the attempt's item. Failed and
// confidential attempts carry empty result fields, which still
// documents that the record exists.
func (m *MetadataLog) Append(ctx context.Context, meta *ficha.Metadata, attempt *ficha.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writeHeader := true
	if info, err := os.Stat(m.path); err == nil && info.Size() > 0 {
		writeHeader = false
	}

	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ficha.Errorf(ficha.EWRITE, "open metadata log: %v", err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(metadataHeader); err != nil {
			f.Close()
			return ficha.Errorf(ficha.EWRITE, "write metadata header: %v", err)
		}
	}

	row := append(meta.Fields(),
		attempt.OutputPath,
		attempt.RemoteRef,
		strconv.Itoa(attempt.Key.Page),
		strconv.Itoa(attempt.Key.Row),
	)
	if err := w.Write(row); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "append metadata row: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return ficha.Errorf(ficha.EWRITE, "flush metadata row: %v", err)
	}
	if err := f.Close(); err != nil {
		return ficha.Errorf(ficha.EWRITE, "close metadata log: %v", err)
	}
	return nil
}
