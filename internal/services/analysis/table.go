package analysis

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	"SectorPulse/internal/domain/models"
)

const (
	colFirstHalfAvg  = "Avg returns till June"
	colSecondHalfAvg = "Avg returns after June"
	colAnnual        = "Total Annual Returns"
	rowMonthlyAvg    = "Avg Monthly Returns"
)

// TableColumns is the display column order of the formatted table: the first
// six months, the first-half average, the last six months, the second-half
// average, then the compound annual return.
var TableColumns = buildTableColumns()

func buildTableColumns() []string {
	cols := make([]string, 0, 15)
	cols = append(cols, models.Months[:6]...)
	cols = append(cols, colFirstHalfAvg)
	cols = append(cols, models.Months[6:]...)
	cols = append(cols, colSecondHalfAvg, colAnnual)
	return cols
}

// TableRow is one display row; Label is a year or the summary-row name.
// Values are percentages rounded to two decimals, nil where no data exists.
type TableRow struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// FormattedTable is the presentation form of a ReturnMatrix.
type FormattedTable struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// FormatTable derives the display table from a fractional return matrix:
// half-year averages, compound annual return per year, an average-monthly
// summary row, everything scaled to percent and rounded to two decimals.
func FormatTable(m models.ReturnMatrix) FormattedTable {
	t := FormattedTable{Columns: TableColumns}

	monthSums := [12]float64{}
	monthCounts := [12]int{}

	for _, row := range m.Rows {
		vals := make([]*float64, len(TableColumns))
		ci := 0
		for mi := 0; mi < 6; mi++ {
			vals[ci] = toPercent(row.Values[mi])
			ci++
		}
		vals[ci] = toPercent(meanOf(row.Values[:6]))
		ci++
		for mi := 6; mi < 12; mi++ {
			vals[ci] = toPercent(row.Values[mi])
			ci++
		}
		vals[ci] = toPercent(meanOf(row.Values[6:]))
		ci++
		vals[ci] = toPercent(compound(row.Values[:]))

		for mi, v := range row.Values {
			if v != nil {
				monthSums[mi] += *v
				monthCounts[mi]++
			}
		}
		t.Rows = append(t.Rows, TableRow{Label: strconv.Itoa(row.Year), Values: vals})
	}

	// summary row carries only the twelve month columns
	avg := make([]*float64, len(TableColumns))
	for mi := 0; mi < 12; mi++ {
		if monthCounts[mi] == 0 {
			continue
		}
		v := monthSums[mi] / float64(monthCounts[mi])
		ci := mi
		if mi >= 6 {
			ci = mi + 1 // skip the first-half average column
		}
		avg[ci] = toPercent(&v)
	}
	t.Rows = append(t.Rows, TableRow{Label: rowMonthlyAvg, Values: avg})
	return t
}

// compound folds monthly returns into the year's total: prod(1+r) - 1 over
// the non-missing months. All months missing yields nil.
func compound(vals []*float64) *float64 {
	prod := 1.0
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		prod *= 1 + *v
		seen = true
	}
	if !seen {
		return nil
	}
	r := prod - 1
	return &r
}

func meanOf(vals []*float64) *float64 {
	sum := 0.0
	n := 0
	for _, v := range vals {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	r := sum / float64(n)
	return &r
}

func toPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100*100) / 100
	return &r
}

// CSVBytes renders the formatted table as a CSV download payload.
func CSVBytes(t FormattedTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"year"}, t.Columns...)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Values)+1)
		rec = append(rec, row.Label)
		for _, v := range row.Values {
			if v == nil {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.FormatFloat(*v, 'f', 2, 64))
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
