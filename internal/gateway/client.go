// Package gateway talks to the external ONDC mock marketplace service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
)

// Error is the single shape every transport or remote failure is normalized
// into before it reaches the orchestrator.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string { return e.Message }

const errCode = "ONDC_CLIENT_ERROR"

// FlowResult is the mock service's response body. The remote returns an
// open-ended JSON object; handlers pass it through to the client unchanged
// and the orchestrator only reads the accessor fields below.
type FlowResult map[string]any

func (r FlowResult) TransactionID() string {
	s, _ := r["transactionId"].(string)
	return s
}

func (r FlowResult) Status() string {
	s, _ := r["status"].(string)
	return s
}

// HasError reports whether the remote attached an error field to an
// otherwise 2xx response.
func (r FlowResult) HasError() bool {
	_, ok := r["error"]
	return ok
}

type Client struct {
	base   string
	apiKey string
	http   *http.Client
}

// New builds a client against the mock service base URL. The 8s timeout is
// the only request-level timeout on the transaction path.
func New(baseURL, apiKey string) *Client {
	return &Client{
		base:   baseURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 8 * time.Second},
	}
}

// StartFlow begins a flow session on the remote side. The session init call
// is best-effort and its failure is swallowed: the session may already exist.
// When the remote does not assign a transaction id, one is generated here so
// downstream persistence always has a key.
func (c *Client) StartFlow(ctx context.Context, flowID, sessionID string) (FlowResult, error) {
	if _, err := c.post(ctx, "/session/init", map[string]any{"sessionId": sessionID}); err != nil {
		applog.Warn(nil, "gateway.session_init.skip", err, map[string]any{"session_id": sessionID})
	}

	res, err := c.post(ctx, "/flow/start", map[string]any{
		"flowId":    flowID,
		"sessionId": sessionID,
	})
	if err != nil {
		return nil, err
	}
	if res.TransactionID() == "" {
		res["transactionId"] = uuid.NewString()
	}
	return res, nil
}

// ProceedFlow advances an existing flow with arbitrary structured inputs.
func (c *Client) ProceedFlow(ctx context.Context, transactionID, sessionID string, inputs map[string]any) (FlowResult, error) {
	return c.post(ctx, "/flow/proceed", map[string]any{
		"transactionId": transactionID,
		"sessionId":     sessionID,
		"inputs":        inputs,
	})
}

// TriggerAction fires a manual playground action on the mock service.
func (c *Client) TriggerAction(ctx context.Context, action string, payload map[string]any) (FlowResult, error) {
	return c.post(ctx, "/action/trigger", map[string]any{
		"action":  action,
		"payload": payload,
	})
}

// CheckHealth probes the mock service, mainly to wake a sleeping free-tier
// deployment. Used only at startup, never on the transaction path.
func (c *Client) CheckHealth(ctx context.Context) bool {
	const attempts = 3
	const delay = 2 * time.Second

	for i := 1; i <= attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
		if err != nil {
			return false
		}
		resp, err := c.http.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 400 {
				applog.Info(nil, "gateway.health.ok", map[string]any{"attempt": i})
				return true
			}
		}
		applog.Warn(nil, "gateway.health.retry", err, map[string]any{"attempt": i})
		if i < attempts {
			time.Sleep(delay)
		}
	}
	return false
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (FlowResult, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{StatusCode: http.StatusInternalServerError, Code: errCode, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return nil, &Error{StatusCode: http.StatusInternalServerError, Code: errCode, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{StatusCode: http.StatusInternalServerError, Code: errCode, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var remote struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&remote)
		msg := remote.Message
		if msg == "" {
			msg = fmt.Sprintf("mock service returned %d for %s", resp.StatusCode, path)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Code: errCode, Message: msg}
	}

	var out FlowResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &Error{StatusCode: http.StatusInternalServerError, Code: errCode, Message: "invalid response from mock service: " + err.Error()}
	}
	return out, nil
}
