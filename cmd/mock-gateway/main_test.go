package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"smsbot/internal/config"
	"smsbot/internal/domain"
	"smsbot/internal/providers/mekong"
	"smsbot/internal/service"
)

func newTestGateway(t *testing.T, cfg config.MockGatewayConfig) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	newServer(cfg).register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestMockGatewayOutcomesRoundRobin(t *testing.T) {
	srv := newTestGateway(t, config.MockGatewayConfig{OutcomesRaw: "ok, reject,HTTP500"})
	gw := mekong.NewClient("u", "p", "MKN UAT", "Test001", "1", srv.URL+gatewayPath, time.Second)
	svc := &service.RelayService{Gateway: gw, Timeout: time.Second}

	want := []domain.OutcomeKind{
		domain.OutcomeSuccess,
		domain.OutcomeWarning,
		domain.OutcomeHTTPError,
		domain.OutcomeSuccess,
	}
	for i, kind := range want {
		out := svc.Send(context.Background(), domain.OutboundSMS{Phone: "85512345678", Message: "Hello"})
		if out.Kind != kind {
			t.Fatalf("call %d: expected %s, got %+v", i, kind, out)
		}
	}
}

func TestMockGatewayChecksCredentials(t *testing.T) {
	srv := newTestGateway(t, config.MockGatewayConfig{Username: "vireak", Password: "pw"})

	bad := mekong.NewClient("vireak", "wrong", "MKN UAT", "Test001", "1", srv.URL+gatewayPath, time.Second)
	resp, err := bad.SendSMS(context.Background(), mekong.SendRequest{To: "855", Text: "x"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.Accepted() || resp.Raw != "result=102" {
		t.Fatalf("expected rejection, got %+v", resp)
	}

	good := mekong.NewClient("vireak", "pw", "MKN UAT", "Test001", "1", srv.URL+gatewayPath, time.Second)
	resp, err = good.SendSMS(context.Background(), mekong.SendRequest{To: "855", Text: "x"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !resp.Accepted() || !strings.HasPrefix(resp.Raw, "result=0;id=") {
		t.Fatalf("expected acceptance, got %+v", resp)
	}
}

func TestMockGatewayTimeoutOutcome(t *testing.T) {
	srv := newTestGateway(t, config.MockGatewayConfig{OutcomesRaw: "timeout", TimeoutDelayMs: 2000})
	gw := mekong.NewClient("u", "p", "MKN UAT", "Test001", "1", srv.URL+gatewayPath, 50*time.Millisecond)

	out := (&service.RelayService{Gateway: gw, Timeout: 50 * time.Millisecond}).Send(context.Background(), domain.OutboundSMS{Phone: "855", Message: "x"})
	if out.Kind != domain.OutcomeSystemError || !strings.Contains(out.Err.Error(), "timeout") {
		t.Fatalf("expected timeout system error, got %+v", out)
	}
}

func TestMockGatewayRejectsGet(t *testing.T) {
	srv := newTestGateway(t, config.MockGatewayConfig{})
	resp, err := http.Get(srv.URL + gatewayPath)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" OK, ,timeout,")
	if len(got) != 2 || got[0] != "ok" || got[1] != "timeout" {
		t.Fatalf("unexpected %v", got)
	}
	if len(parseCSV("")) != 0 {
		t.Fatalf("expected empty")
	}
}
