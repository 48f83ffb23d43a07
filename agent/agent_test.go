package agent_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sahayak-labs/sahayak/agent"
	"github.com/sahayak-labs/sahayak/core/protocol"
)

func fastRetry() agent.RetryConfig {
	return agent.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}
}

func newTestAgent(t *testing.T, baseURL string) agent.Agent {
	t.Helper()
	a, err := agent.New(
		&agent.Config{BaseURL: baseURL, Model: "test-model", AudioModel: "test-whisper", MaxTokens: 100},
		agent.WithRetryConfig(fastRetry()),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestTools_RequestShape(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("got path %q, want /chat/completions", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		io.WriteString(w, `{"model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"hi"}}]}`)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL)
	resp, err := a.Tools(context.Background(),
		[]protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")},
		[]protocol.Tool{{Name: "submit_application", Parameters: map[string]any{"type": "object"}}},
	)
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}

	if resp.Choices[0].Message.Content != "hi" {
		t.Errorf("got content %q", resp.Choices[0].Message.Content)
	}
	if captured["model"] != "test-model" {
		t.Errorf("got model %v", captured["model"])
	}
	if captured["max_tokens"] != float64(100) {
		t.Errorf("got max_tokens %v, want 100", captured["max_tokens"])
	}
	if captured["tool_choice"] != "auto" {
		t.Errorf("got tool_choice %v, want auto", captured["tool_choice"])
	}

	tools, ok := captured["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("got tools %v, want one declaration", captured["tools"])
	}
	decl := tools[0].(map[string]any)
	if decl["type"] != "function" {
		t.Errorf("got tool type %v, want function", decl["type"])
	}
}

func TestTools_NoToolsOmitsChoice(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		io.WriteString(w, `{"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL)
	if _, err := a.Tools(context.Background(),
		[]protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")}, nil); err != nil {
		t.Fatalf("Tools failed: %v", err)
	}

	if _, present := captured["tool_choice"]; present {
		t.Error("tool_choice present without declared tools")
	}
}

func TestTools_RetriesTransient(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"recovered"}}]}`)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL)
	resp, err := a.Tools(context.Background(),
		[]protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")}, nil)
	if err != nil {
		t.Fatalf("Tools failed after retries: %v", err)
	}

	if resp.Choices[0].Message.Content != "recovered" {
		t.Errorf("got content %q", resp.Choices[0].Message.Content)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestTools_FatalNotRetried(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad request"}`)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL)
	_, err := a.Tools(context.Background(),
		[]protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !agent.IsFatal(err) {
		t.Errorf("error not classified fatal: %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("got %d attempts, want 1 (no retry on fatal)", got)
	}
}

func TestTools_ExhaustedTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL)
	_, err := a.Tools(context.Background(),
		[]protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")}, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !agent.IsTransient(err) {
		t.Errorf("error not classified transient: %v", err)
	}
}

func TestTranscribe_Multipart(t *testing.T) {
	var gotModel, gotFilename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("got path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		io.WriteString(w, `{"text":"I want a gold loan"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "voice.ogg")
	if err := os.WriteFile(audioPath, []byte("fake-audio"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	a := newTestAgent(t, srv.URL)
	resp, err := a.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if resp.Text != "I want a gold loan" {
		t.Errorf("got text %q", resp.Text)
	}
	if gotModel != "test-whisper" {
		t.Errorf("got model %q, want test-whisper", gotModel)
	}
	if gotFilename != "voice.ogg" {
		t.Errorf("got filename %q, want voice.ogg", gotFilename)
	}
}

func TestTranscribe_MissingFile(t *testing.T) {
	a := newTestAgent(t, "http://localhost:0")
	_, err := a.Transcribe(context.Background(), "/nonexistent/voice.ogg")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !agent.IsFatal(err) {
		t.Errorf("error not classified fatal: %v", err)
	}
	if !strings.Contains(err.Error(), "open audio file") {
		t.Errorf("unexpected error: %v", err)
	}
}
