package httpapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sahayak-labs/sahayak/httpapi"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httpapi.New(httpapi.DefaultConfig(), prometheus.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("got status %v, want ok", body["status"])
	}
}

func TestMetrics(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
}

func TestParsePDF_MissingField(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Post(ts.URL+"/parse-pdf", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /parse-pdf failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", resp.StatusCode)
	}
}

func TestParsePDF_InvalidDocument(t *testing.T) {
	ts := newServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", "fake.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	fw.Write([]byte("this is not a pdf"))
	mw.Close()

	resp, err := http.Post(ts.URL+"/parse-pdf", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /parse-pdf failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("got status %d, want 422", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing")
	}
}

func TestMethodRouting(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/parse-pdf")
	if err != nil {
		t.Fatalf("GET /parse-pdf failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", resp.StatusCode)
	}
}
