package analysis

import (
	"sort"

	"SectorPulse/internal/domain/models"
)

type monthKey struct {
	year  int
	month int
}

// MonthlyReturns resamples a daily closing series to month-end last values,
// computes month-over-month fractional changes, and pivots them into a
// year-by-month matrix. The first observed month has no prior close and stays
// missing. An empty series yields an empty matrix, not an error.
func MonthlyReturns(series models.PriceSeries) models.ReturnMatrix {
	var m models.ReturnMatrix
	if series.Empty() {
		return m
	}

	last := make(map[monthKey]float64)
	keys := make([]monthKey, 0)
	for _, p := range series {
		k := monthKey{p.Time.Year(), models.MonthIndex(p.Time.Month())}
		if _, ok := last[k]; !ok {
			keys = append(keys, k)
		}
		last[k] = p.Close
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	prev := 0.0
	for i, k := range keys {
		cur := last[k]
		if i > 0 && prev != 0 {
			m.Set(k.year, k.month, cur/prev-1)
		}
		prev = cur
	}
	return m
}

// AggregateMean combines per-ticker matrices into an equal-weight sector
// matrix: for each (year, month) cell the arithmetic mean over the tickers
// that have an observation there. Missing cells are excluded from the mean,
// never counted as zero. The result is independent of input order.
func AggregateMean(matrices []models.ReturnMatrix) models.ReturnMatrix {
	sums := make(map[monthKey]float64)
	counts := make(map[monthKey]int)
	for _, tm := range matrices {
		for _, row := range tm.Rows {
			for mi, v := range row.Values {
				if v == nil {
					continue
				}
				k := monthKey{row.Year, mi}
				sums[k] += *v
				counts[k]++
			}
		}
	}

	var out models.ReturnMatrix
	for k, n := range counts {
		out.Set(k.year, k.month, sums[k]/float64(n))
	}
	return out
}
