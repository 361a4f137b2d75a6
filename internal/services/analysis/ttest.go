package analysis

import (
	"math"

	"SectorPulse/internal/domain/models"
)

// Verdicts of the per-month one-sample t-test against a zero mean.
const (
	VerdictUp           = "Up"
	VerdictDown         = "Down"
	VerdictInconclusive = "Cannot Conclude @95% CI"
	VerdictNoData       = "No Data"
)

// two-sided critical values of Student's t at alpha=0.05, indexed by degrees
// of freedom 1..30
var tCritical = [...]float64{
	12.706, 4.303, 3.182, 2.776, 2.571, 2.447, 2.365, 2.306, 2.262, 2.228,
	2.201, 2.179, 2.160, 2.145, 2.131, 2.120, 2.110, 2.101, 2.093, 2.086,
	2.080, 2.074, 2.069, 2.064, 2.060, 2.056, 2.052, 2.048, 2.045, 2.042,
}

func criticalValue(df int) float64 {
	switch {
	case df <= 0:
		return math.Inf(1)
	case df <= 30:
		return tCritical[df-1]
	case df <= 40:
		return 2.021
	case df <= 60:
		return 2.000
	case df <= 120:
		return 1.980
	default:
		return 1.960
	}
}

// MonthlyVerdicts runs a one-sample two-sided t-test of each month's returns
// against zero at 95% confidence and maps month name to a verdict string.
func MonthlyVerdicts(m models.ReturnMatrix) map[string]string {
	out := make(map[string]string, 12)
	for mi, name := range models.Months {
		var data []float64
		for _, row := range m.Rows {
			if v := row.Values[mi]; v != nil {
				data = append(data, *v)
			}
		}
		out[name] = verdict(data)
	}
	return out
}

func verdict(data []float64) string {
	n := len(data)
	if n == 0 {
		return VerdictNoData
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	if n == 1 {
		return VerdictInconclusive
	}

	ss := 0.0
	for _, v := range data {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))
	if sd == 0 {
		// degenerate sample: identical values pin the t statistic at ±inf
		switch {
		case mean > 0:
			return VerdictUp
		case mean < 0:
			return VerdictDown
		default:
			return VerdictInconclusive
		}
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	if math.Abs(t) > criticalValue(n-1) {
		if mean > 0 {
			return VerdictUp
		}
		return VerdictDown
	}
	return VerdictInconclusive
}
