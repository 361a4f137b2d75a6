package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/repository"
	icache "SectorPulse/internal/service/cache"
	"SectorPulse/internal/services/analysis"
	"SectorPulse/internal/usecase"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// formatted tables are memoized for an hour; the fingerprint key makes a
// recomputed matrix miss immediately
const tableMemoTTL = time.Hour

// DashboardHandler serves the monthly-return dashboard API.
type DashboardHandler struct {
	logger *xlogger.Logger
	svc    *usecase.SectorService
	memo   *icache.TableMemo
}

func NewDashboardHandler(logger *xlogger.Logger, svc *usecase.SectorService) *DashboardHandler {
	return &DashboardHandler{
		logger: logger,
		svc:    svc,
		memo:   icache.NewTableMemo(tableMemoTTL),
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/sectors", h.Sectors)
	g.POST("/sectors/refresh", h.RefreshAll)
	g.GET("/sector", h.Sector)
	g.GET("/sector/table", h.SectorTable)
	g.GET("/sector/export", h.SectorExport)
	g.GET("/ticker", h.Ticker)
	g.GET("/ticker/table", h.TickerTable)
	g.GET("/ticker/export", h.TickerExport)
}

func (h *DashboardHandler) Sectors(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.Sectors(c.Request().Context()))
}

func (h *DashboardHandler) RefreshAll(c echo.Context) error {
	status := h.svc.RefreshAll(c.Request().Context())
	return xhttp.SuccessResponse(c, status)
}

func (h *DashboardHandler) Sector(c echo.Context) error {
	req := &models.SectorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.SectorMatrix(c.Request().Context(), req.Name, req.ForceRefresh)
	if err != nil {
		return h.sectorError(c, err)
	}
	return xhttp.SuccessResponse(c, sectorPayload{
		SectorResponse: res,
		AgeCaption:     ageCaption(res.CacheAgeSeconds),
	})
}

func (h *DashboardHandler) Ticker(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.TickerMatrix(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("ticker fetch failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("fetch %s: %v", req.Symbol, err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) SectorTable(c echo.Context) error {
	req := &models.SectorTableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.SectorMatrix(c.Request().Context(), req.Name, req.ForceRefresh)
	if err != nil {
		return h.sectorError(c, err)
	}
	matrix := res.Matrix.FilterYears(req.FromYear, req.ToYear)
	return xhttp.SuccessResponse(c, tablePayload{
		Label:      req.Name,
		Table:      h.formatCached(matrix),
		Verdicts:   analysis.MonthlyVerdicts(matrix),
		AgeCaption: ageCaption(res.CacheAgeSeconds),
	})
}

func (h *DashboardHandler) TickerTable(c echo.Context) error {
	req := &models.TickerTableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.TickerMatrix(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("ticker fetch failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("fetch %s: %v", req.Symbol, err))
	}
	matrix := res.Matrix.FilterYears(req.FromYear, req.ToYear)
	return xhttp.SuccessResponse(c, tablePayload{
		Label:    req.Symbol,
		Table:    h.formatCached(matrix),
		Verdicts: analysis.MonthlyVerdicts(matrix),
	})
}

func (h *DashboardHandler) SectorExport(c echo.Context) error {
	req := &models.SectorTableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.SectorMatrix(c.Request().Context(), req.Name, req.ForceRefresh)
	if err != nil {
		return h.sectorError(c, err)
	}
	matrix := res.Matrix.FilterYears(req.FromYear, req.ToYear)
	return h.writeCSV(c, repository.SafeSectorName(req.Name), matrix)
}

func (h *DashboardHandler) TickerExport(c echo.Context) error {
	req := &models.TickerTableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.TickerMatrix(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("ticker fetch failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("fetch %s: %v", req.Symbol, err))
	}
	matrix := res.Matrix.FilterYears(req.FromYear, req.ToYear)
	return h.writeCSV(c, req.Symbol, matrix)
}

func (h *DashboardHandler) formatCached(m models.ReturnMatrix) analysis.FormattedTable {
	fp := h.memo.Fingerprint(m)
	if t, ok := h.memo.Get(fp); ok {
		return t
	}
	t := analysis.FormatTable(m)
	h.memo.Put(fp, t)
	return t
}

func (h *DashboardHandler) writeCSV(c echo.Context, name string, m models.ReturnMatrix) error {
	b, err := analysis.CSVBytes(h.formatCached(m))
	if err != nil {
		h.logger.Error("csv export failed", xlogger.String("name", name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("csv export failed"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_monthly_returns.csv"`, name))
	return c.Blob(http.StatusOK, "text/csv", b)
}

func (h *DashboardHandler) sectorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNoSymbols):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, usecase.ErrNoSectorData):
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()))
	default:
		h.logger.Error("sector request failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}

type sectorPayload struct {
	models.SectorResponse
	AgeCaption string `json:"age_caption,omitempty"`
}

type tablePayload struct {
	Label      string                  `json:"label"`
	Table      analysis.FormattedTable `json:"table"`
	Verdicts   map[string]string       `json:"verdicts"`
	AgeCaption string                  `json:"age_caption,omitempty"`
}

func ageCaption(ageSeconds *float64) string {
	if ageSeconds == nil {
		return ""
	}
	return util.FormatAge(time.Duration(*ageSeconds * float64(time.Second)))
}
