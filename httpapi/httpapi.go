// Package httpapi serves the operational HTTP surface: health checks,
// Prometheus metrics, and a manual PDF-parse endpoint for testing document
// extraction without a chat channel.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sahayak-labs/sahayak/extract"
	"github.com/sahayak-labs/sahayak/observability"
)

// maxUploadSize caps /parse-pdf request bodies.
const maxUploadSize = 20 << 20

// Event types emitted by the HTTP server.
const (
	EventParseRequested observability.EventType = "httpapi.parse.requested"
	EventParseFailed    observability.EventType = "httpapi.parse.failed"
)

// Config holds HTTP server parameters.
type Config struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// DefaultConfig returns the default HTTP configuration.
func DefaultConfig() Config {
	return Config{Addr: ":8080"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
}

// Server exposes the operational endpoints.
type Server struct {
	cfg      Config
	observer observability.Observer
	registry *prometheus.Registry
	srv      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithObserver sets the observer receiving HTTP events.
func WithObserver(obs observability.Observer) Option {
	return func(s *Server) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// New creates a Server. The registry backs /metrics; pass the same registry
// the PromObserver was built with.
func New(cfg Config, registry *prometheus.Registry, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		observer: observability.NoOpObserver{},
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route multiplexer. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /parse-pdf", s.handleParsePDF)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleParsePDF accepts a multipart upload under the "document" field and
// returns the extracted text. Mirrors the chat pipeline's PDF path so
// extraction can be exercised directly.
func (s *Server) handleParsePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("document")
	if err != nil {
		s.parseFailed(r.Context(), "missing document field", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "multipart field 'document' is required"})
		return
	}
	defer file.Close()

	s.observer.OnEvent(r.Context(), observability.Event{
		Type:      EventParseRequested,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "httpapi",
		Data:      map[string]any{"filename": header.Filename, "size": header.Size},
	})

	data, err := io.ReadAll(file)
	if err != nil {
		s.parseFailed(r.Context(), header.Filename, err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "failed to read upload"})
		return
	}

	text, err := extract.PDFTextBytes(data)
	if err != nil {
		s.parseFailed(r.Context(), header.Filename, err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "failed to extract text from PDF"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename":   header.Filename,
		"characters": len(text),
		"text":       text,
	})
}

func (s *Server) parseFailed(ctx context.Context, filename string, err error) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventParseFailed,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "httpapi",
		Data:      map[string]any{"filename": filename, "error": err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
