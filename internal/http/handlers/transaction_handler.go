package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/services"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/validate"
)

// ActionGateway fires manual playground actions; it is the only gateway
// call that bypasses the orchestrator.
type ActionGateway interface {
	TriggerAction(ctx context.Context, action string, payload map[string]any) (gateway.FlowResult, error)
}

type TransactionHandler struct {
	Txn     *services.TransactionService
	Actions ActionGateway
}

type createFlowRequest struct {
	UsecaseID string `json:"usecaseId"`
}

type searchRequest struct {
	SessionID string `json:"sessionId"`
	FlowID    string `json:"flowId"`
}

type proceedRequest struct {
	TransactionID string         `json:"transactionId"`
	Inputs        map[string]any `json:"inputs"`
}

type actionRequest struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// POST /api/checkout/create-flow
func (h *TransactionHandler) CreateFlow(c *fiber.Ctx) error {
	var req createFlowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalid(c, "malformed JSON body")
		}
	}
	res, err := h.Txn.CreateFlow(c.Context(), req.UsecaseID)
	if err != nil {
		return err
	}
	return ok(c, res)
}

// POST /api/search
func (h *TransactionHandler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "malformed JSON body")
	}
	if req.SessionID == "" || req.FlowID == "" {
		return invalid(c, "sessionId and flowId are required")
	}
	res, err := h.Txn.Search(c.Context(), req.SessionID, req.FlowID)
	if err != nil {
		return err
	}
	return ok(c, res)
}

// POST /api/select
func (h *TransactionHandler) Select(c *fiber.Ctx) error {
	return h.step(c, h.Txn.Select)
}

// POST /api/init
func (h *TransactionHandler) Init(c *fiber.Ctx) error {
	return h.step(c, h.Txn.Init)
}

// POST /api/confirm
func (h *TransactionHandler) Confirm(c *fiber.Ctx) error {
	return h.step(c, h.Txn.Confirm)
}

func (h *TransactionHandler) step(c *fiber.Ctx, fn func(context.Context, string, map[string]any) (gateway.FlowResult, error)) error {
	var req proceedRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "malformed JSON body")
	}
	if _, okID := validate.ID(req.TransactionID); !okID {
		return invalid(c, "transactionId is required")
	}
	res, err := fn(c.Context(), req.TransactionID, req.Inputs)
	if err != nil {
		return err
	}
	return ok(c, res)
}

// GET /api/status/:transactionId
func (h *TransactionHandler) GetStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("transactionId"))
	if !okID {
		return invalid(c, "missing transactionId")
	}
	t, err := h.Txn.GetStatus(id)
	if err != nil {
		return err
	}
	return ok(c, t)
}

// POST /api/action/trigger
func (h *TransactionHandler) TriggerAction(c *fiber.Ctx) error {
	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "malformed JSON body")
	}
	if req.Action == "" {
		return invalid(c, "action is required")
	}
	applog.Info(c, "action.trigger", map[string]any{"action": req.Action})
	res, err := h.Actions.TriggerAction(c.Context(), req.Action, req.Payload)
	if err != nil {
		return err
	}
	return ok(c, res)
}
