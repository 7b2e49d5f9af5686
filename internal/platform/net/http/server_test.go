package http_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"sylwalk/internal/platform/config"
	phttp "sylwalk/internal/platform/net/http"
)

func TestNewServerAddr(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("T_SRV_")).Addr(); got != ":4000" {
		t.Fatalf("default addr = %q", got)
	}

	t.Setenv("T_SRV_PORT", "8088")
	if got := phttp.NewServer(config.New().Prefix("T_SRV_")).Addr(); got != ":8088" {
		t.Fatalf("bare port addr = %q", got)
	}

	t.Setenv("T_SRV_PORT", "127.0.0.1:9000")
	if got := phttp.NewServer(config.New().Prefix("T_SRV_")).Addr(); got != "127.0.0.1:9000" {
		t.Fatalf("host addr = %q", got)
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Setenv("T_RUN_PORT", "127.0.0.1:0")
	t.Setenv("T_RUN_SHUTDOWN_GRACE_MS", "500")
	srv := phttp.NewServer(config.New().Prefix("T_RUN_"))
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
