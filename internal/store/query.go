package store

import (
	"github.com/grabworks/shotlog/internal/shot"
)

// Field selects which screenshot attribute a filter compares. A closed set
// checked by the type system, not string-keyed dispatch.
type Field int

// Filterable fields.
const (
	FieldFormat Field = iota
	FieldNote
	FieldProcess
	FieldWindow
)

// String returns the CLI spelling of the field.
func (f Field) String() string {
	switch f {
	case FieldFormat:
		return "format"
	case FieldNote:
		return "note"
	case FieldProcess:
		return "process"
	case FieldWindow:
		return "window"
	default:
		return "unknown"
	}
}

// ParseField maps the CLI spelling to a Field.
func ParseField(name string) (Field, bool) {
	switch name {
	case "format":
		return FieldFormat, true
	case "note":
		return FieldNote, true
	case "process":
		return FieldProcess, true
	case "window":
		return FieldWindow, true
	default:
		return 0, false
	}
}

// Filter is a single equality predicate over one field. Comparison is
// case-sensitive and exact.
type Filter struct {
	Field Field
	Value string
}

func (f Filter) fieldOfRecord(r *record) string {
	switch f.Field {
	case FieldFormat:
		return r.Format
	case FieldNote:
		return r.Note
	case FieldProcess:
		return r.ProcessName
	case FieldWindow:
		return r.WindowTitle
	default:
		return ""
	}
}

func (f Filter) matchesRecord(r *record) bool {
	return f.fieldOfRecord(r) == f.Value
}

func (f Filter) matchesShot(sc shot.Screenshot) bool {
	switch f.Field {
	case FieldFormat:
		return sc.Format == f.Value
	case FieldNote:
		return sc.Note == f.Value
	case FieldProcess:
		return sc.ProcessName == f.Value
	case FieldWindow:
		return sc.WindowTitle == f.Value
	default:
		return false
	}
}

// DistinctValues lists the distinct, non-empty values of field across every
// persisted record, in first-seen order.
func (s *Store) DistinctValues(field Field) []string {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	seen := make(map[string]bool)

	var values []string

	probe := Filter{Field: field}

	for _, r := range s.doc.Records.Items {
		v := probe.fieldOfRecord(r)
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true
		values = append(values, v)
	}

	return values
}

// Dates lists the distinct dates carrying at least one persisted record
// matching the filter. A nil filter lists every date.
func (s *Store) Dates(filter *Filter) []string {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	seen := make(map[string]bool)

	var dates []string

	for _, r := range s.doc.Records.Items {
		if r.Date == "" || seen[r.Date] {
			continue
		}

		if filter != nil && !filter.matchesRecord(r) {
			continue
		}

		seen[r.Date] = true
		dates = append(dates, r.Date)
	}

	return dates
}

// Slides returns the slides for date, materializing that date's records
// first. Records are grouped by slide name with the first match winning.
// An empty date returns nothing: callers must name a concrete date.
func (s *Store) Slides(filter *Filter, date string) []shot.Slide {
	if date == "" {
		return nil
	}

	s.docMu.Lock()
	s.loadDateLocked(date)
	s.docMu.Unlock()

	return s.idx.slidesFor(filter, date)
}

// Find returns the materialized screenshot whose slide name and view id
// both match. A miss returns the zero Screenshot - a defined sentinel,
// never an error. Callers check with Screenshot.IsZero.
func (s *Store) Find(slideName, viewID string) shot.Screenshot {
	return s.idx.find(slideName, viewID)
}
