package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"ga-covid-server/models"
	services "ga-covid-server/service"
	"ga-covid-server/util"
)

// ChartHandler renders dashboard charts as standalone HTML pages.
type ChartHandler struct {
	dashboardService *services.DashboardService
}

func NewChartHandler(dashboardService *services.DashboardService) *ChartHandler {
	return &ChartHandler{dashboardService: dashboardService}
}

func writeHTML(w http.ResponseWriter, render func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeError(w, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetSeriesChart handles GET /v1/charts/series with the /v1/series arguments.
func (h *ChartHandler) GetSeriesChart(w http.ResponseWriter, r *http.Request) {
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
	writeHTML(w, func(buf *bytes.Buffer) error {
		return util.RenderSeriesChart(buf, res.Series)
	})
}

// GetDemographicsChart handles GET /v1/charts/demographics/{name}
func (h *ChartHandler) GetDemographicsChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)[DEMOGRAPHIC_TABLE_VAR]
	demo, err := h.dashboardService.Demographics()
	if err != nil {
		writeError(w, err, "")
		return
	}

	var render func(buf *bytes.Buffer) error
	switch name {
	case "age":
		categories := make([]string, len(demo.Age))
		cases := make([]int64, len(demo.Age))
		deaths := make([]int64, len(demo.Age))
		for i, a := range demo.Age {
			categories[i], cases[i], deaths[i] = a.Ages, a.Total, a.TotalDeaths
		}
		render = func(buf *bytes.Buffer) error {
			return util.RenderStackedBarChart(buf, "GA COVID-19 Cases by Age", "Age Group", "Cases", categories,
				[]util.NamedValues{{Name: "Confirmed Cases", Values: cases}, {Name: "Confirmed Deaths", Values: deaths}})
		}
	case "gender":
		categories := make([]string, len(demo.Gender))
		survived := make([]int64, len(demo.Gender))
		deaths := make([]int64, len(demo.Gender))
		for i, g := range demo.Gender {
			categories[i], survived[i], deaths[i] = g.Gender, g.TotalSurvived, g.TotalDeaths
		}
		render = func(buf *bytes.Buffer) error {
			return util.RenderStackedBarChart(buf, "GA COVID-19 Cases by Gender", "Gender", "Cases", categories,
				[]util.NamedValues{{Name: "Confirmed Cases", Values: survived}, {Name: "Confirmed Deaths", Values: deaths}})
		}
	case "testing":
		categories := make([]string, len(demo.Testing))
		negative := make([]int64, len(demo.Testing))
		positive := make([]int64, len(demo.Testing))
		for i, l := range demo.Testing {
			categories[i], negative[i], positive[i] = l.LabType, l.Negative, l.Positive
		}
		render = func(buf *bytes.Buffer) error {
			return util.RenderStackedBarChart(buf, "GA COVID-19 Testing by Lab", "Lab Type", "Tests", categories,
				[]util.NamedValues{{Name: "Negative Tests", Values: negative}, {Name: "Positive Tests", Values: positive}})
		}
	case "race":
		slices := make([]models.SummaryRow, len(demo.Race))
		for i, r := range demo.Race {
			slices[i] = models.SummaryRow{Label: r.Race, Value: r.Count}
		}
		render = func(buf *bytes.Buffer) error {
			return util.RenderPieChart(buf, "GA COVID-19 Cases by Race", slices)
		}
	case "summary":
		render = func(buf *bytes.Buffer) error {
			return util.RenderPieChart(buf, "GA COVID-19 Cases Summary", demo.Summary)
		}
	default:
		_, err := demographicTable(demo, name)
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	writeHTML(w, render)
}
