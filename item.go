package ficha

import (
	"fmt"
	"unicode"
)

// ItemKey uniquely identifies one listing entry within a run.
// Page is 1-based; Row is the 0-based index within the page. Keys are
// stable across runs only as long as the listing's ordering does not
// change between runs; this is an accepted limitation of the source.
type ItemKey struct {
	Page int
	Row  int
}

// String returns the key in "page/row" form for logs and diagnostics.
func (k ItemKey) String() string {
	return fmt.Sprintf("%d/%d", k.Page, k.Row)
}

// Validate returns an error if the key is outside the valid range.
func (k ItemKey) Validate() error {
	if k.Page < 1 {
		return Errorf(EINVALID, "page number must be positive, got %d", k.Page)
	}
	if k.Row < 0 {
		return Errorf(EINVALID, "row index must be non-negative, got %d", k.Row)
	}
	return nil
}

// Metadata holds the fields extracted from one listing row at the time
// the row was opened. The mapping is positional; rows with fewer cells
// than fields leave the trailing fields empty. Values are immutable
// once extracted.
type Metadata struct {
	Folio         string // folio_unico, the record's unique identifier
	Name          string // nombre
	FirstSurname  string // primer_apellido
	SecondSurname string // segundo_apellido
	Age           string // edad_actual
	Sex           string // sexo
	Status        string // estatus_desaparicion
	IncidentDate  string // fecha_hechos
	IncidentState string // entidad_hechos
	Restricted    string // informacion_reservada
	Bulletin      string // boletin
}

// Fields returns the metadata values in listing column order.
func (m *Metadata) Fields() []string {
	return []string{
		m.Folio, m.Name, m.FirstSurname, m.SecondSurname,
		m.Age, m.Sex, m.Status, m.IncidentDate,
		m.IncidentState, m.Restricted, m.Bulletin,
	}
}

// SetField assigns the i-th listing column. Indexes beyond the known
// columns are ignored so short or long rows never fail extraction.
func (m *Metadata) SetField(i int, value string) {
	switch i {
	case 0:
		m.Folio = value
	case 1:
		m.Name = value
	case 2:
		m.FirstSurname = value
	case 3:
		m.SecondSurname = value
	case 4:
		m.Age = value
	case 5:
		m.Sex = value
	case 6:
		m.Status = value
	case 7:
		m.IncidentDate = value
	case 8:
		m.IncidentState = value
	case 9:
		m.Restricted = value
	case 10:
		m.Bulletin = value
	}
}

// MetadataFieldCount is the number of listing columns mapped into Metadata.
const MetadataFieldCount = 11

// AttemptStatus classifies one processing attempt's terminal outcome.
type AttemptStatus string

// Terminal outcomes recorded in the ledger.
const (
	StatusSuccess      AttemptStatus = "success"
	StatusConfidential AttemptStatus = "confidential"
	StatusError        AttemptStatus = "error"
	StatusSkipped      AttemptStatus = "skipped"
)

// Attempt is one ledger entry: the outcome of a single processing
// attempt for one item. The ledger is append-only, so multiple attempts
// may exist for the same key; a key counts as completed once any
// attempt for it has StatusSuccess.
type Attempt struct {
	Key        ItemKey
	Name       string
	Folio      string
	OutputPath string // path of the captured document, empty unless success
	RemoteRef  string // remote document reference when one was observed
	Status     AttemptStatus
	Note       string // free-text diagnostic
}

// Validate returns an error if the attempt contains invalid fields.
func (a *Attempt) Validate() error {
	if err := a.Key.Validate(); err != nil {
		return err
	}
	switch a.Status {
	case StatusSuccess, StatusConfidential, StatusError, StatusSkipped:
		return nil
	}
	return Errorf(EINVALID, "unknown attempt status %q", a.Status)
}

// DefaultFilenameMaxLen bounds sanitized output filenames.
const DefaultFilenameMaxLen = 120

// SanitizeFilename replaces every rune outside letters, digits, '-',
// '_', '.', and space with '_' and truncates the result to maxLen
// runes. The result is a deterministic function of the input and is
// not guaranteed unique: two items whose labels sanitize identically
// will map to the same filename.
func SanitizeFilename(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultFilenameMaxLen
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '-' || r == '_' || r == '.' || r == ' ':
		default:
			runes[i] = '_'
		}
	}
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes)
}

// DocumentLabel builds the sanitized "{name}_{folio}" label used to
// name a captured document. Empty names fall back to "unknown", as the
// name is the only human-readable part of the filename.
func DocumentLabel(name, folio string) string {
	if name == "" {
		name = "unknown"
	}
	return SanitizeFilename(name+"_"+folio, DefaultFilenameMaxLen)
}
