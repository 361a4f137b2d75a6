package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func chartBody(timestamps []int64, closes []string) string {
	ts := make([]string, len(timestamps))
	for i, t := range timestamps {
		ts[i] = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(closes, ","))
}

func TestDailyCloses(t *testing.T) {
	t1 := time.Date(2024, time.January, 30, 14, 30, 0, 0, time.UTC).Unix()
	t2 := time.Date(2024, time.January, 31, 14, 30, 0, 0, time.UTC).Unix()

	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		fmt.Fprint(w, chartBody([]int64{t2, t1}, []string{"101.5", "100.0"}))
	}))
	defer srv.Close()

	src := New(WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	series, err := src.DailyCloses(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}

	if gotPath != "/v8/finance/chart/AAPL" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotRange != "max" {
		t.Fatalf("range = %q, want max", gotRange)
	}
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2", len(series))
	}
	// bars come back sorted ascending even if the payload is not
	if !series[0].Time.Before(series[1].Time) {
		t.Fatalf("series not ascending: %v, %v", series[0].Time, series[1].Time)
	}
	if series[0].Close != 100.0 || series[1].Close != 101.5 {
		t.Fatalf("closes = %v, %v", series[0].Close, series[1].Close)
	}
}

func TestDailyClosesSkipsNullBars(t *testing.T) {
	t1 := time.Now().AddDate(0, 0, -3).Unix()
	t2 := time.Now().AddDate(0, 0, -2).Unix()
	t3 := time.Now().AddDate(0, 0, -1).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartBody([]int64{t1, t2, t3}, []string{"100.0", "null", "102.0"}))
	}))
	defer srv.Close()

	src := New(WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	series, err := src.DailyCloses(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2 (null bar must be dropped)", len(series))
	}
}

func TestDailyClosesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	src := New(WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	_, err := src.DailyCloses(context.Background(), "NOPE")
	if err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Fatalf("err = %v, want the upstream description", err)
	}
}

func TestDailyClosesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := New(WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	if _, err := src.DailyCloses(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected an error on 429")
	}
}

func TestDailyClosesEmptyQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[]}}],"error":null}}`)
	}))
	defer srv.Close()

	src := New(WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
	series, err := src.DailyCloses(context.Background(), "EMPTY")
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("got %d points, want none", len(series))
	}
}

func TestDailyClosesHonorsContext(t *testing.T) {
	src := New(WithRateLimit(0.0001, 0))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// an exhausted bucket makes the limiter block until the context expires
	if _, err := src.DailyCloses(ctx, "AAPL"); err == nil {
		t.Fatalf("expected a context error while waiting for the limiter")
	}
}
