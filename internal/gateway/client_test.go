package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
)

func TestStartFlowSendsAPIKeyAndFillsTransactionID(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session/init":
			// pre-existing session: remote rejects, client must shrug it off
			w.WriteHeader(http.StatusConflict)
		case "/flow/start":
			gotKey = r.Header.Get("X-API-Key")
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["flowId"] != "agricultural_flow_1" || body["sessionId"] != "session-1" {
				t.Errorf("bad start body: %v", body)
			}
			// remote did not assign a transaction id
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "INITIATED"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "secret-key")
	res, err := c.StartFlow(context.Background(), "agricultural_flow_1", "session-1")
	if err != nil {
		t.Fatal(err)
	}
	if gotKey != "secret-key" {
		t.Fatalf("want API key header, got %q", gotKey)
	}
	if res.TransactionID() == "" {
		t.Fatal("client must assign a transaction id when the remote did not")
	}
	if res.Status() != "INITIATED" {
		t.Fatalf("bad status: %q", res.Status())
	}
}

func TestProceedFlowNormalizesRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "upstream seller app down"})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "")
	_, err := c.ProceedFlow(context.Background(), "txn-1", "session-1", nil)
	if err == nil {
		t.Fatal("remote failure must surface")
	}
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("want *gateway.Error, got %T", err)
	}
	if gwErr.StatusCode != http.StatusBadGateway || gwErr.Code != "ONDC_CLIENT_ERROR" {
		t.Fatalf("bad normalization: %+v", gwErr)
	}
	if gwErr.Message != "upstream seller app down" {
		t.Fatalf("remote message lost: %q", gwErr.Message)
	}
}

func TestProceedFlowTransportFailure(t *testing.T) {
	c := gateway.New("http://127.0.0.1:1", "")
	_, err := c.ProceedFlow(context.Background(), "txn-1", "session-1", nil)
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("want *gateway.Error, got %v", err)
	}
	if gwErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("transport errors default to 500, got %d", gwErr.StatusCode)
	}
}

func TestCheckHealthRetriesUntilHealthy(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "")
	if !c.CheckHealth(context.Background()) {
		t.Fatal("health probe should succeed on retry")
	}
	if calls != 2 {
		t.Fatalf("want 2 probes, got %d", calls)
	}
}
