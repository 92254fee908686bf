package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClient_Fetch_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("X-Token"); got != "abc" {
			t.Errorf("Expected X-Token header 'abc', got '%s'", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Day,Date\n1,2020-03-02\n"))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	client.Headers["X-Token"] = "abc"

	body, err := client.Fetch(context.Background(), "/test-endpoint")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "Day,Date\n1,2020-03-02\n" {
		t.Errorf("Unexpected body %q", string(body))
	}
}

func TestHTTPClient_Fetch_Failure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404: Not Found"))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	_, err := client.Fetch(context.Background(), "/missing.csv")

	if err == nil {
		t.Fatalf("Expected an error, got nil")
	}
	expectedError := "unexpected status code: 404 Not Found"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestHTTPClient_Fetch_ContextCanceled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer mockServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := NewHTTPClient(mockServer.URL).Fetch(ctx, "/slow"); err == nil {
		t.Fatal("Expected an error for a canceled request, got nil")
	}
}
