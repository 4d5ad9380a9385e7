package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/congo-pay/payinstr/internal/config"
	"github.com/congo-pay/payinstr/internal/logging"
)

func TestNewServesPing(t *testing.T) {
	srv, err := New(config.Config{AppName: "test", AppEnv: "dev", Port: "0"}, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestNewRejectsMissingBackendsInProduction(t *testing.T) {
	if _, err := New(config.Config{AppEnv: "production"}, nil, nil, logging.Discard()); err == nil {
		t.Fatalf("expected error without postgres and redis in production")
	}
}
