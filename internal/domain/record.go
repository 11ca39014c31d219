package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CSV column names in the NOAA sea level export.
const (
	ColumnID       = "ObjectId"
	ColumnMeasure  = "Measure"
	ColumnDate     = "Date"
	ColumnChangeMM = "Change in Mean (mm)"
)

var (
	// ErrMissingField is wrapped by ParseError when a required column is absent or blank.
	ErrMissingField = errors.New("missing required field")
	// ErrNonFinite is wrapped by ParseError when a value parses to NaN or ±Inf.
	ErrNonFinite = errors.New("value is not a finite number")
)

// Row is one raw dataset row with field values keyed by header name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Record is a single sea level observation. Records are immutable once parsed.
type Record struct {
	ID       int       `json:"id"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	RawDate  string    `json:"raw_date"`
	Value    float64   `json:"value"` // change in mean, millimeters
}

// View is an ordered run of records sharing one category, in source order.
type View []Record

// Values returns the record values in view order.
func (v View) Values() []float64 {
	out := make([]float64, len(v))
	for i, r := range v {
		out[i] = r.Value
	}
	return out
}

// ParseError reports a row that could not be parsed. A single ParseError
// aborts the whole load.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse row %d: field %q value %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store holds the parsed dataset in source order.
type Store struct {
	records  []Record
	LoadedAt time.Time
}

// Load parses every row into a Record. Any malformed row fails the whole load
// so a partial dataset never reaches bounds or trend computations.
func Load(rows []Row) (*Store, error) {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := ParseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return &Store{records: records, LoadedAt: clock.Now()}, nil
}

// ParseRow extracts id, category, date and value from a raw row.
func ParseRow(row Row) (Record, error) {
	idStr, err := requiredField(row, ColumnID)
	if err != nil {
		return Record{}, err
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Record{}, &ParseError{Line: row.Line, Field: ColumnID, Value: idStr, Err: err}
	}

	category, err := requiredField(row, ColumnMeasure)
	if err != nil {
		return Record{}, err
	}

	rawDate, err := requiredField(row, ColumnDate)
	if err != nil {
		return Record{}, err
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return Record{}, &ParseError{Line: row.Line, Field: ColumnDate, Value: rawDate, Err: err}
	}

	valueStr, err := requiredField(row, ColumnChangeMM)
	if err != nil {
		return Record{}, err
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Record{}, &ParseError{Line: row.Line, Field: ColumnChangeMM, Value: valueStr, Err: err}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Record{}, &ParseError{Line: row.Line, Field: ColumnChangeMM, Value: valueStr, Err: ErrNonFinite}
	}

	return Record{
		ID:       id,
		Category: category,
		Date:     date,
		RawDate:  rawDate,
		Value:    value,
	}, nil
}

func requiredField(row Row, name string) (string, error) {
	v := strings.TrimSpace(row.Fields[name])
	if v == "" {
		return "", &ParseError{Line: row.Line, Field: name, Err: ErrMissingField}
	}
	return v, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of all records in source order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FilterByCategory returns the records whose category equals category, in
// source order. An unknown category yields an empty view, not an error.
func (s *Store) FilterByCategory(category string) View {
	view := View{}
	for _, r := range s.records {
		if r.Category == category {
			view = append(view, r)
		}
	}
	return view
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}
