package domain

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorld    = "World"
	testAtlantic = "Atlantic Ocean"
)

func makeRow(line int, id, measure, date, change string) Row {
	return Row{Line: line, Fields: map[string]string{
		ColumnID:       id,
		ColumnMeasure:  measure,
		ColumnDate:     date,
		ColumnChangeMM: change,
	}}
}

// makeRows builds rows for one category with monthly dates starting 1/15/1993.
func makeRows(startID int, category string, values ...float64) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		id := startID + i
		date := "D" + strconv.Itoa(i%12+1) + "/15/" + strconv.Itoa(1993+i/12)
		rows[i] = makeRow(id+1, strconv.Itoa(id), category, date, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return rows
}

func mustLoad(t *testing.T, rows []Row) *Store {
	t.Helper()
	s, err := Load(rows)
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	t.Run("parses every field", func(t *testing.T) {
		s := mustLoad(t, []Row{makeRow(2, "1", testWorld, "D12/17/1992", "-20.53")})

		require.Equal(t, 1, s.Len())
		rec := s.Records()[0]
		assert.Equal(t, 1, rec.ID)
		assert.Equal(t, testWorld, rec.Category)
		assert.Equal(t, time.Date(1992, 12, 17, 0, 0, 0, 0, time.UTC), rec.Date)
		assert.Equal(t, "D12/17/1992", rec.RawDate)
		assert.Equal(t, -20.53, rec.Value)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		s := mustLoad(t, []Row{makeRow(2, " 7 ", " Baltic Sea ", " 1/2/2000 ", " 3.5 ")})
		rec := s.Records()[0]
		assert.Equal(t, 7, rec.ID)
		assert.Equal(t, "Baltic Sea", rec.Category)
		assert.Equal(t, 3.5, rec.Value)
	})

	t.Run("empty input", func(t *testing.T) {
		s := mustLoad(t, nil)
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.FilterByCategory(testWorld))
	})

	t.Run("stamps load time", func(t *testing.T) {
		at := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(at))
		defer SetClock(nil)

		s := mustLoad(t, makeRows(1, testWorld, 1))
		assert.Equal(t, at, s.LoadedAt)
	})
}

func TestLoad_RejectsMalformedRow(t *testing.T) {
	tests := []struct {
		name      string
		row       Row
		field     string
		isMissing bool
	}{
		{"missing id", makeRow(10, "", testWorld, "1/1/2000", "1"), ColumnID, true},
		{"non-integer id", makeRow(10, "1.5", testWorld, "1/1/2000", "1"), ColumnID, false},
		{"missing measure", makeRow(10, "1", "  ", "1/1/2000", "1"), ColumnMeasure, true},
		{"missing date", makeRow(10, "1", testWorld, "", "1"), ColumnDate, true},
		{"bad date", makeRow(10, "1", testWorld, "2000-01-01", "1"), ColumnDate, false},
		{"missing value", makeRow(10, "1", testWorld, "1/1/2000", ""), ColumnChangeMM, true},
		{"non-numeric value", makeRow(10, "1", testWorld, "1/1/2000", "n/a"), ColumnChangeMM, false},
		{"NaN value", makeRow(10, "1", testWorld, "1/1/2000", "NaN"), ColumnChangeMM, false},
		{"infinite value", makeRow(10, "1", testWorld, "1/1/2000", "+Inf"), ColumnChangeMM, false},
		{"negative infinite value", makeRow(10, "1", testWorld, "1/1/2000", "-inf"), ColumnChangeMM, false},
		{"absent column", Row{Line: 10, Fields: map[string]string{ColumnID: "1"}}, ColumnMeasure, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := append(makeRows(1, testWorld, 1, 2), tt.row)
			s, err := Load(rows)

			require.Error(t, err)
			assert.Nil(t, s, "a failed load must not return a partial store")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 10, pe.Line)
			assert.Equal(t, tt.field, pe.Field)
			assert.Equal(t, tt.isMissing, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), "parse row 10")
		})
	}
}

func TestLoad_NonFiniteValueWrapsSentinel(t *testing.T) {
	_, err := Load([]Row{makeRow(2, "1", testWorld, "1/1/2000", "NaN")})
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestFilterByCategory(t *testing.T) {
	rows := []Row{
		makeRow(2, "1", testWorld, "1/1/2000", "1"),
		makeRow(3, "2", testAtlantic, "1/1/2000", "10"),
		makeRow(4, "3", testWorld, "2/1/2000", "2"),
		makeRow(5, "4", testAtlantic, "2/1/2000", "20"),
		makeRow(6, "5", testWorld, "3/1/2000", "3"),
	}
	s := mustLoad(t, rows)

	t.Run("keeps only matching records in source order", func(t *testing.T) {
		view := s.FilterByCategory(testWorld)
		ids := make([]int, len(view))
		for i, r := range view {
			assert.Equal(t, testWorld, r.Category)
			ids[i] = r.ID
		}
		if diff := cmp.Diff([]int{1, 3, 5}, ids); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown category is an empty view", func(t *testing.T) {
		view := s.FilterByCategory("Lake Erie")
		assert.NotNil(t, view)
		assert.Empty(t, view)
	})

	t.Run("case sensitive", func(t *testing.T) {
		assert.Empty(t, s.FilterByCategory("world"))
	})

	t.Run("categories in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{testWorld, testAtlantic}, s.Categories())
	})
}

func TestStore_RecordsIsACopy(t *testing.T) {
	s := mustLoad(t, makeRows(1, testWorld, 1, 2))
	recs := s.Records()
	recs[0].Value = 999

	assert.Equal(t, 1.0, s.Records()[0].Value)
}

func TestView_Values(t *testing.T) {
	s := mustLoad(t, makeRows(1, testWorld, 10, 12, 11))
	assert.Equal(t, []float64{10, 12, 11}, s.FilterByCategory(testWorld).Values())
}
