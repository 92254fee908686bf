package gadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ga-covid-server/api"
)

func TestGaDataApiClient_FetchPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET; got %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.Write([]byte("body of " + r.URL.Path))
	}))
	defer srv.Close()

	client := NewGaDataApiClient(api.NewHTTPClient(srv.URL + "/output"))
	ctx := context.Background()

	got, err := client.FetchStatewide(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "body of /output/georgia.csv" {
		t.Errorf("FetchStatewide = %q", got)
	}
	if _, err := client.FetchCounties(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := client.FetchTable(ctx, TableGender); err != nil {
		t.Fatal(err)
	}

	want := []string{"/output/georgia.csv", "/output/counties.csv", "/output/tables/gender.csv"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v; want %v", paths, want)
	}
}

func TestGaDataApiClient_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewGaDataApiClient(api.NewHTTPClient(srv.URL)).FetchCounties(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "counties.csv") {
		t.Errorf("error %q should name the resource", err)
	}
}
