package net

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	server "five-a-side/server"
)

func TestHealthEndpoint(t *testing.T) {
	hub := server.NewHub(server.Config{Physics: false, Logger: zerolog.Nop()})
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "ok" {
		t.Fatalf("expected health body %q, got %q", "ok", body)
	}
}

func TestStaticClientOnlyServedWhenConfigured(t *testing.T) {
	hub := server.NewHub(server.Config{Physics: false, Logger: zerolog.Nop()})

	bare := NewHTTPHandler(hub, HTTPHandlerConfig{})
	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	resp := httptest.NewRecorder()
	bare.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a client dir, got %d", resp.Code)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	withClient := NewHTTPHandler(hub, HTTPHandlerConfig{ClientDir: dir})
	resp = httptest.NewRecorder()
	withClient.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with a client dir, got %d", resp.Code)
	}
}
