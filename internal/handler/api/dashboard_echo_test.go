package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/repository"
	"SectorPulse/internal/usecase"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	series map[string]models.PriceSeries
	errs   map[string]error
}

func (s *stubSource) DailyCloses(_ context.Context, symbol string) (models.PriceSeries, error) {
	if err, ok := s.errs[symbol]; ok {
		return nil, err
	}
	if ser, ok := s.series[symbol]; ok {
		return ser, nil
	}
	return nil, errors.New("unknown symbol " + symbol)
}

type stubUniverse struct {
	members map[string][]string
}

func (s *stubUniverse) Sectors() []string {
	out := make([]string, 0, len(s.members))
	for name := range s.members {
		out = append(out, name)
	}
	return out
}

func (s *stubUniverse) SymbolsFor(sector string) []string { return s.members[sector] }

func (s *stubUniverse) SymbolFor(string) (string, bool) { return "", false }

func testSeries() models.PriceSeries {
	return models.PriceSeries{
		{Time: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), Close: 100},
		{Time: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), Close: 104},
	}
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	src := &stubSource{
		series: map[string]models.PriceSeries{"AAA": testSeries()},
		errs:   map[string]error{"BAD": errors.New("upstream down")},
	}
	uni := &stubUniverse{members: map[string][]string{"Technology": {"AAA"}}}
	store, err := repository.NewFileSectorStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	agg := usecase.NewSectorAggregator(src, usecase.SequentialScheduler{}, metrics.Nop{}, log)
	svc := usecase.NewSectorService(agg, store, uni, metrics.Nop{}, log, true)

	e := echo.New()
	NewDashboardHandler(log, svc).RegisterRoutes(e)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, json.RawMessage) {
	t.Helper()
	var env struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Status, env.Data
}

func TestSectorsEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sectors")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var infos []models.SectorInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		t.Fatalf("decode sectors: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "Technology" || infos[0].Symbols != 1 {
		t.Fatalf("unexpected sectors %+v", infos)
	}
}

func TestSectorEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector?name=Technology")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d body = %s", status, rec.Body.String())
	}
	var payload struct {
		Sector string              `json:"sector"`
		Matrix models.ReturnMatrix `json:"matrix"`
		Cached bool                `json:"cached"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Sector != "Technology" || payload.Cached {
		t.Fatalf("unexpected payload %+v", payload)
	}
	feb := payload.Matrix.At(2024, 1)
	if feb == nil || *feb < 0.0399 || *feb > 0.0401 {
		t.Fatalf("Feb = %v, want 0.04", feb)
	}
}

func TestSectorEndpointCachedSecondHit(t *testing.T) {
	e := newTestServer(t)
	doRequest(t, e, http.MethodGet, "/api/sector?name=Technology")
	rec := doRequest(t, e, http.MethodGet, "/api/sector?name=Technology")

	_, data := decodeEnvelope(t, rec)
	var payload struct {
		Cached     bool   `json:"cached"`
		AgeCaption string `json:"age_caption"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !payload.Cached {
		t.Fatalf("second request should be served from cache")
	}
	if payload.AgeCaption != "just now" {
		t.Fatalf("age caption = %q, want just now", payload.AgeCaption)
	}
}

func TestSectorEndpointRequiresName(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector")

	status, _ := decodeEnvelope(t, rec)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestSectorEndpointUnknownSector(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector?name=Nowhere")

	status, _ := decodeEnvelope(t, rec)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestSectorTableEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector/table?name=Technology")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d body = %s", status, rec.Body.String())
	}
	var payload struct {
		Label string `json:"label"`
		Table struct {
			Columns []string `json:"columns"`
			Rows    []struct {
				Label string `json:"label"`
			} `json:"rows"`
		} `json:"table"`
		Verdicts map[string]string `json:"verdicts"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Label != "Technology" {
		t.Fatalf("label = %q", payload.Label)
	}
	if len(payload.Table.Columns) != 15 {
		t.Fatalf("columns = %d, want 15", len(payload.Table.Columns))
	}
	// 2024 row plus the average summary row
	if len(payload.Table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(payload.Table.Rows))
	}
	if payload.Verdicts["Feb"] != "Cannot Conclude @95% CI" {
		t.Fatalf("Feb verdict = %q", payload.Verdicts["Feb"])
	}
	if payload.Verdicts["Jan"] != "No Data" {
		t.Fatalf("Jan verdict = %q", payload.Verdicts["Jan"])
	}
}

func TestSectorTableYearFilter(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector/table?name=Technology&from_year=2030")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var payload struct {
		Table struct {
			Rows []struct {
				Label string `json:"label"`
			} `json:"rows"`
		} `json:"table"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	// everything filtered out leaves only the summary row
	if len(payload.Table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(payload.Table.Rows))
	}
}

func TestSectorExportEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/sector/export?name=Technology")

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	cd := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(cd, "Technology_monthly_returns.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "year,Jan") {
		t.Fatalf("unexpected csv body %q", rec.Body.String())
	}
}

func TestTickerEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/ticker?symbol=AAA")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var payload models.TickerResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Symbol != "AAA" || payload.Matrix.Empty() {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestTickerEndpointFetchFailure(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/api/ticker?symbol=BAD")

	status, _ := decodeEnvelope(t, rec)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
}

func TestRefreshAllEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodPost, "/api/sectors/refresh")

	status, data := decodeEnvelope(t, rec)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var st models.RefreshStatus
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st["Technology"] != "ok" {
		t.Fatalf("Technology = %q, want ok", st["Technology"])
	}
}
