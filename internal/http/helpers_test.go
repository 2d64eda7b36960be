package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/http/handlers"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

// fakeGateway stands in for the ONDC mock service; the scripted status is
// returned from both start and proceed calls.
type fakeGateway struct {
	txnID      string
	status     string
	startErr   error
	proceedErr error
	startCalls int
}

func (f *fakeGateway) StartFlow(_ context.Context, flowID, sessionID string) (gateway.FlowResult, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	res := gateway.FlowResult{"transactionId": f.txnID}
	if f.status != "" {
		res["status"] = f.status
	}
	return res, nil
}

func (f *fakeGateway) ProceedFlow(_ context.Context, transactionID, sessionID string, inputs map[string]any) (gateway.FlowResult, error) {
	if f.proceedErr != nil {
		return nil, f.proceedErr
	}
	res := gateway.FlowResult{}
	if f.status != "" {
		res["status"] = f.status
	}
	return res, nil
}

func (f *fakeGateway) TriggerAction(_ context.Context, action string, payload map[string]any) (gateway.FlowResult, error) {
	return gateway.FlowResult{"triggered": action}, nil
}

func newApp(t *testing.T, gw *fakeGateway) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, gw)
	deps.Register(app)
	return app, db
}

func jsonReq(method, path string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func stockOf(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock_quantity FROM products WHERE id=?`, id); err != nil {
		t.Fatal(err)
	}
	return n
}
