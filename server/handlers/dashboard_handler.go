package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"ga-covid-server/engine"
	"ga-covid-server/models"
	services "ga-covid-server/service"
)

// DEMOGRAPHIC_TABLE_VAR is the route variable naming a demographic table.
const DEMOGRAPHIC_TABLE_VAR = "name"

// ReadinessChecker reports whether the server can answer dashboard queries.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

type DashboardHandler struct {
	dashboardService *services.DashboardService
	readiness        ReadinessChecker
}

func NewDashboardHandler(dashboardService *services.DashboardService, readiness ReadinessChecker) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, readiness: readiness}
}

// Ping handles GET /ping
func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// Healthz handles GET /healthz
func (h *DashboardHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz: 200 once a dataset is published.
func (h *DashboardHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.readiness.CheckReadiness(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetOptions handles GET /v1/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dashboardService.Options()
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// SelectionResponse is the location list of a preset group.
type SelectionResponse struct {
	Group     string   `json:"group"`
	Locations []string `json:"locations"`
}

// GetSelection handles GET /v1/selection?group=
func (h *DashboardHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get(GROUP_QUERY_ARG)
	if group == "" {
		group = string(engine.GroupAll)
	}
	locations, err := h.dashboardService.Selection(group)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{Group: group, Locations: locations})
}

// GetKeyFigures handles GET /v1/key-figures?start=&end=&county=
func (h *DashboardHandler) GetKeyFigures(w http.ResponseWriter, r *http.Request) {
	args, err := parseWindowArgs(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	res, err := h.dashboardService.KeyFigures(args.query())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSeries handles GET /v1/series?stat=&start=&end=&county=&view=line|bar
func (h *DashboardHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	res, err := h.dashboardService.Series(q)
	if err != nil {
		message := ""
		if res != nil {
			message = res.Message
		}
		writeError(w, err, message)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetLatestCounties handles GET /v1/counties/latest
func (h *DashboardHandler) GetLatestCounties(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboardService.LatestCounties()
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

var errUnknownTable = errors.New("unknown demographic table")

// demographicTable picks one table of demo by route name.
func demographicTable(demo *models.Demographics, name string) (interface{}, error) {
	switch name {
	case "age":
		return demo.Age, nil
	case "gender":
		return demo.Gender, nil
	case "testing":
		return demo.Testing, nil
	case "race":
		return demo.Race, nil
	case "summary":
		return demo.Summary, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownTable, name)
	}
}

// GetDemographics handles GET /v1/demographics/{name}
func (h *DashboardHandler) GetDemographics(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)[DEMOGRAPHIC_TABLE_VAR]
	demo, err := h.dashboardService.Demographics()
	if err != nil {
		writeError(w, err, "")
		return
	}
	table, err := demographicTable(demo, name)
	if err != nil {
		log.Printf("[DashboardHandler] %v", err)
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, table)
}
