package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ga-covid-server/metrics"
)

// MockDashboardHandler answers every route with its own name.
type MockDashboardHandler struct{}

func respond(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(name + ":" + mux.Vars(r)["name"]))
	}
}

func (h *MockDashboardHandler) Ping(w http.ResponseWriter, r *http.Request)    { respond("ping")(w, r) }
func (h *MockDashboardHandler) Healthz(w http.ResponseWriter, r *http.Request) { respond("healthz")(w, r) }
func (h *MockDashboardHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusServiceUnavailable)
}
func (h *MockDashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respond("options")(w, r)
}
func (h *MockDashboardHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	respond("selection")(w, r)
}
func (h *MockDashboardHandler) GetKeyFigures(w http.ResponseWriter, r *http.Request) {
	respond("key-figures")(w, r)
}
func (h *MockDashboardHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	respond("series")(w, r)
}
func (h *MockDashboardHandler) GetLatestCounties(w http.ResponseWriter, r *http.Request) {
	respond("latest")(w, r)
}
func (h *MockDashboardHandler) GetDemographics(w http.ResponseWriter, r *http.Request) {
	respond("demographics")(w, r)
}

type MockChartHandler struct{}

func (h *MockChartHandler) GetSeriesChart(w http.ResponseWriter, r *http.Request) {
	respond("chart-series")(w, r)
}
func (h *MockChartHandler) GetDemographicsChart(w http.ResponseWriter, r *http.Request) {
	respond("chart-demographics")(w, r)
}

func newTestRouter() (*mux.Router, *metrics.Metrics) {
	m := metrics.NewMetricsForTesting()
	router := mux.NewRouter()
	appRouter := NewRouter(&MockDashboardHandler{}, &MockChartHandler{}, respond("metrics"), m, router)
	appRouter.RegisterRoutes()
	return router, m
}

func TestRouter_RegisterRoutes(t *testing.T) {
	router, _ := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		response   string
	}{
		{"Ping Route", "GET", "/ping", http.StatusOK, "ping:"},
		{"Healthz Route", "GET", "/healthz", http.StatusOK, "healthz:"},
		{"Readyz Route", "GET", "/readyz", http.StatusServiceUnavailable, ""},
		{"Metrics Route", "GET", "/metrics", http.StatusOK, "metrics:"},
		{"Options", "GET", "/v1/options", http.StatusOK, "options:"},
		{"Selection", "GET", "/v1/selection?group=top_10", http.StatusOK, "selection:"},
		{"Key Figures", "GET", "/v1/key-figures?start=0&end=10", http.StatusOK, "key-figures:"},
		{"Series", "GET", "/v1/series?stat=total_cases", http.StatusOK, "series:"},
		{"Latest Counties", "GET", "/v1/counties/latest", http.StatusOK, "latest:"},
		{"Demographics", "GET", "/v1/demographics/race", http.StatusOK, "demographics:race"},
		{"Series Chart", "GET", "/v1/charts/series?stat=new_cases", http.StatusOK, "chart-series:"},
		{"Demographics Chart", "GET", "/v1/charts/demographics/age", http.StatusOK, "chart-demographics:age"},
		{"Invalid Route", "GET", "/invalid", http.StatusNotFound, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}
			if test.response != "" && rr.Body.String() != test.response {
				t.Errorf("Expected response %s, got %s", test.response, rr.Body.String())
			}
		})
	}
}

func TestRouter_RequestID(t *testing.T) {
	router, _ := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))
	if got := rr.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("Expected a generated uuid request id, got %q", got)
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected propagated request id, got %q", got)
	}
}

func TestRouter_RecordsMetricsByRouteTemplate(t *testing.T) {
	router, m := newTestRouter()

	for _, path := range []string{"/v1/demographics/age", "/v1/demographics/race", "/readyz"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/v1/demographics/{name}", "200")); got != 2 {
		t.Errorf("Expected 2 demographics requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/readyz", "503")); got != 1 {
		t.Errorf("Expected 1 readyz request, got %v", got)
	}
}

func TestDashboardHttpServer_StartAndShutdown(t *testing.T) {
	muxRouter := mux.NewRouter()
	router := NewRouter(&MockDashboardHandler{}, &MockChartHandler{}, respond("metrics"), metrics.NewMetricsForTesting(), muxRouter)
	srv := NewDashboardHttpServer(router, muxRouter, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Server did not shut down")
	}
}

func TestDashboardHttpServer_ListenError(t *testing.T) {
	muxRouter := mux.NewRouter()
	router := NewRouter(&MockDashboardHandler{}, &MockChartHandler{}, respond("metrics"), metrics.NewMetricsForTesting(), muxRouter)
	srv := NewDashboardHttpServer(router, muxRouter, "127.0.0.1:-1", time.Second)

	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("Expected a listen error for an invalid address")
	}
}
