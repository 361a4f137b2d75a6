package analysis

import (
	"testing"

	"SectorPulse/internal/domain/models"
)

func TestMonthlyVerdictsNoData(t *testing.T) {
	var m models.ReturnMatrix
	got := MonthlyVerdicts(m)
	if len(got) != 12 {
		t.Fatalf("expected a verdict per month, got %d", len(got))
	}
	for name, v := range got {
		if v != VerdictNoData {
			t.Fatalf("%s = %q, want %q", name, v, VerdictNoData)
		}
	}
}

func TestMonthlyVerdictsSingleSample(t *testing.T) {
	var m models.ReturnMatrix
	m.Set(2023, 0, 0.05)

	got := MonthlyVerdicts(m)
	if got["Jan"] != VerdictInconclusive {
		t.Fatalf("Jan = %q, want %q", got["Jan"], VerdictInconclusive)
	}
	if got["Feb"] != VerdictNoData {
		t.Fatalf("Feb = %q, want %q", got["Feb"], VerdictNoData)
	}
}

func TestMonthlyVerdictsSignificantUp(t *testing.T) {
	// tight positive cluster: mean well above zero relative to its spread
	var m models.ReturnMatrix
	vals := []float64{0.050, 0.052, 0.048, 0.051, 0.049}
	for i, v := range vals {
		m.Set(2019+i, 0, v)
	}

	got := MonthlyVerdicts(m)
	if got["Jan"] != VerdictUp {
		t.Fatalf("Jan = %q, want %q", got["Jan"], VerdictUp)
	}
}

func TestMonthlyVerdictsSignificantDown(t *testing.T) {
	var m models.ReturnMatrix
	vals := []float64{-0.050, -0.052, -0.048, -0.051, -0.049}
	for i, v := range vals {
		m.Set(2019+i, 1, v)
	}

	got := MonthlyVerdicts(m)
	if got["Feb"] != VerdictDown {
		t.Fatalf("Feb = %q, want %q", got["Feb"], VerdictDown)
	}
}

func TestMonthlyVerdictsInconclusive(t *testing.T) {
	// mean near zero with wide spread cannot reject the null
	var m models.ReturnMatrix
	vals := []float64{0.10, -0.09, 0.08, -0.10, 0.02}
	for i, v := range vals {
		m.Set(2019+i, 2, v)
	}

	got := MonthlyVerdicts(m)
	if got["Mar"] != VerdictInconclusive {
		t.Fatalf("Mar = %q, want %q", got["Mar"], VerdictInconclusive)
	}
}

func TestVerdictDegenerateIdenticalValues(t *testing.T) {
	if v := verdict([]float64{0.02, 0.02, 0.02}); v != VerdictUp {
		t.Fatalf("identical positives = %q, want %q", v, VerdictUp)
	}
	if v := verdict([]float64{-0.02, -0.02}); v != VerdictDown {
		t.Fatalf("identical negatives = %q, want %q", v, VerdictDown)
	}
	if v := verdict([]float64{0, 0, 0}); v != VerdictInconclusive {
		t.Fatalf("all zero = %q, want %q", v, VerdictInconclusive)
	}
}

func TestCriticalValueBuckets(t *testing.T) {
	cases := []struct {
		df   int
		want float64
	}{
		{1, 12.706},
		{10, 2.228},
		{30, 2.042},
		{35, 2.021},
		{50, 2.000},
		{100, 1.980},
		{500, 1.960},
	}
	for _, c := range cases {
		if got := criticalValue(c.df); got != c.want {
			t.Fatalf("criticalValue(%d) = %v, want %v", c.df, got, c.want)
		}
	}
}
