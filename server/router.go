package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"ga-covid-server/metrics"
)

// DashboardRoutes are the JSON endpoints.
type DashboardRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
	GetOptions(w http.ResponseWriter, r *http.Request)
	GetSelection(w http.ResponseWriter, r *http.Request)
	GetKeyFigures(w http.ResponseWriter, r *http.Request)
	GetSeries(w http.ResponseWriter, r *http.Request)
	GetLatestCounties(w http.ResponseWriter, r *http.Request)
	GetDemographics(w http.ResponseWriter, r *http.Request)
}

// ChartRoutes are the rendered chart endpoints.
type ChartRoutes interface {
	GetSeriesChart(w http.ResponseWriter, r *http.Request)
	GetDemographicsChart(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	dashboardHandler DashboardRoutes
	chartHandler     ChartRoutes
	metricsHandler   http.Handler
	metrics          *metrics.Metrics
	router           *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	dashboardHandler DashboardRoutes,
	chartHandler ChartRoutes,
	metricsHandler http.Handler,
	m *metrics.Metrics,
	router *mux.Router) *Router {
	return &Router{
		dashboardHandler: dashboardHandler,
		chartHandler:     chartHandler,
		metricsHandler:   metricsHandler,
		metrics:          m,
		router:           router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(RequestIDMiddleware, MetricsMiddleware(r.metrics))

	r.router.HandleFunc("/ping", r.dashboardHandler.Ping).Methods("GET")
	r.router.HandleFunc("/healthz", r.dashboardHandler.Healthz).Methods("GET")
	r.router.HandleFunc("/readyz", r.dashboardHandler.Readyz).Methods("GET")
	r.router.Handle("/metrics", r.metricsHandler).Methods("GET")

	v1 := r.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/options", r.dashboardHandler.GetOptions).Methods("GET")
	// expects ?group={all|top_10|unassigned|family|custom}
	v1.HandleFunc("/selection", r.dashboardHandler.GetSelection).Methods("GET")
	// expects ?start={day(int)}&end={day(int)}&county={name}...
	v1.HandleFunc("/key-figures", r.dashboardHandler.GetKeyFigures).Methods("GET")
	// expects the key-figures args plus &stat={statistic}&view={line|bar}
	v1.HandleFunc("/series", r.dashboardHandler.GetSeries).Methods("GET")
	v1.HandleFunc("/counties/latest", r.dashboardHandler.GetLatestCounties).Methods("GET")
	v1.HandleFunc("/demographics/{name}", r.dashboardHandler.GetDemographics).Methods("GET")

	v1.HandleFunc("/charts/series", r.chartHandler.GetSeriesChart).Methods("GET")
	v1.HandleFunc("/charts/demographics/{name}", r.chartHandler.GetDemographicsChart).Methods("GET")
}
