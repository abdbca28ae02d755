package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/tirechange-hub/internal/config"
)

func TestNewRegistryExposesRuntimeMetrics(t *testing.T) {
	families, err := newRegistry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected go runtime metrics to be registered")
	}
}

func TestNewServerUsesConfiguredPort(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := newServer(&appconfig.Config{Port: "5050"}, handler)

	if srv.Addr != ":5050" {
		t.Fatalf("expected addr :5050, got %q", srv.Addr)
	}
	if srv.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout %v", srv.ReadTimeout)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected handler to be wired, got %d", rr.Code)
	}
}
