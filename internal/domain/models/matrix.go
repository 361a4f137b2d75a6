package models

import (
	"sort"
	"time"
)

// Months holds the fixed calendar column order of a ReturnMatrix.
var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthIndex maps a time.Month to its column index (Jan=0).
func MonthIndex(m time.Month) int { return int(m) - 1 }

// ReturnRow is one year of fractional monthly returns. A nil cell means the
// month has no observation; it is never substituted with zero.
type ReturnRow struct {
	Year   int          `json:"year"`
	Values [12]*float64 `json:"values"`
}

// ReturnMatrix is a year-by-month table of fractional monthly price returns
// (0.05 = 5%). Rows are kept ascending by year with at most one row per year;
// columns are always the twelve calendar months in order.
type ReturnMatrix struct {
	Rows []ReturnRow `json:"rows"`
}

// Empty reports whether the matrix has no rows.
func (m *ReturnMatrix) Empty() bool { return len(m.Rows) == 0 }

// Years returns the row years in ascending order.
func (m *ReturnMatrix) Years() []int {
	ys := make([]int, 0, len(m.Rows))
	for _, r := range m.Rows {
		ys = append(ys, r.Year)
	}
	return ys
}

// Row returns the row for year, or nil if the year is absent.
func (m *ReturnMatrix) Row(year int) *ReturnRow {
	i := sort.Search(len(m.Rows), func(i int) bool { return m.Rows[i].Year >= year })
	if i < len(m.Rows) && m.Rows[i].Year == year {
		return &m.Rows[i]
	}
	return nil
}

// Set stores a value for (year, month column), inserting the year row if
// needed while preserving ascending order.
func (m *ReturnMatrix) Set(year, month int, v float64) {
	i := sort.Search(len(m.Rows), func(i int) bool { return m.Rows[i].Year >= year })
	if i == len(m.Rows) || m.Rows[i].Year != year {
		m.Rows = append(m.Rows, ReturnRow{})
		copy(m.Rows[i+1:], m.Rows[i:])
		m.Rows[i] = ReturnRow{Year: year}
	}
	val := v
	m.Rows[i].Values[month] = &val
}

// At returns the cell for (year, month column), or nil if missing.
func (m *ReturnMatrix) At(year, month int) *float64 {
	if r := m.Row(year); r != nil {
		return r.Values[month]
	}
	return nil
}

// FilterYears returns a copy restricted to rows with from <= year <= to.
func (m *ReturnMatrix) FilterYears(from, to int) ReturnMatrix {
	var out ReturnMatrix
	for _, r := range m.Rows {
		if r.Year >= from && r.Year <= to {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
