package api

import (
	"context"
	"net/http"

	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
)

// ReportDependencies defines the interface for report operations.
type ReportDependencies interface {
	Years(ctx context.Context) ([]int, error)
	Select(ctx context.Context, year int) (*report.Report, error)
	Report(ctx context.Context, year int) (*report.Report, error)
	KPI(ctx context.Context, year int) (*kpi.KPI, error)
}

// ReportHandler serves whole reports, KPIs and the year list.
type ReportHandler struct {
	deps  ReportDependencies
	years *yearParser
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies, years *yearParser) *ReportHandler {
	return &ReportHandler{deps: deps, years: years}
}

type yearsResponse struct {
	Years []string `json:"years"`
}

// HandleYears handles GET /years. The merged view "all" is listed last.
func (h *ReportHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_years"
	years, err := h.deps.Years(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	keys := make([]string, 0, len(years)+1)
	for _, y := range years {
		keys = append(keys, model.YearKey(y))
	}
	if len(years) > 0 {
		keys = append(keys, model.YearKey(model.YearAll))
	}
	writeResponse(w, r, http.StatusOK, yearsResponse{Years: keys})
}

// HandleReport handles GET /years/{year}/report.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.deps.Report(r.Context(), year)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeResponse(w, r, http.StatusOK, rep)
}

type kpiResponse struct {
	Year string   `json:"year"`
	KPI  *kpi.KPI `json:"kpi"`
}

// HandleKPI handles GET /years/{year}/kpi. A year without active members
// returns a null kpi.
func (h *ReportHandler) HandleKPI(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_kpi"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}
	k, err := h.deps.KPI(r.Context(), year)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeResponse(w, r, http.StatusOK, kpiResponse{Year: model.YearKey(year), KPI: k})
}

// HandleReload handles POST /years/{year}/reload.
func (h *ReportHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.deps.Select(r.Context(), year)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeResponse(w, r, http.StatusOK, rep)
}
