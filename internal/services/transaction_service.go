package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

var (
	ErrTransactionNotFound = errors.New("transaction session not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrStockConflict       = errors.New("stock update failed")
	ErrInvalidQuantity     = errors.New("invalid item quantity")
)

// DefaultFlowID is the usecase started when the client does not name one.
const DefaultFlowID = "agricultural_flow_1"

// FlowGateway is the slice of the marketplace client the orchestrator
// needs; tests substitute an in-memory fake.
type FlowGateway interface {
	StartFlow(ctx context.Context, flowID, sessionID string) (gateway.FlowResult, error)
	ProceedFlow(ctx context.Context, transactionID, sessionID string, inputs map[string]any) (gateway.FlowResult, error)
}

// TransactionService drives the search -> select -> init -> confirm flow
// against the gateway and keeps per-transaction state in the store.
type TransactionService struct {
	Gateway  FlowGateway
	Txns     *repos.TransactionRepo
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
}

func NewTransactionService(gw FlowGateway, txns *repos.TransactionRepo, products *repos.ProductRepo, orders *repos.OrderRepo) *TransactionService {
	return &TransactionService{Gateway: gw, Txns: txns, Products: products, Orders: orders}
}

type FlowHandle struct {
	SessionID     string `json:"sessionId"`
	FlowID        string `json:"flowId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

type SearchResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	FromCache     bool   `json:"fromCache,omitempty"`
	// Persisted records the outcome of the best-effort store write. It is
	// not part of the wire response; tests assert on it.
	Persisted bool `json:"-"`
}

// CreateFlow starts a fresh checkout. The backend owns session/flow id
// generation so clients never mint dynamic ids themselves.
func (s *TransactionService) CreateFlow(ctx context.Context, usecaseID string) (FlowHandle, error) {
	if usecaseID == "" {
		usecaseID = DefaultFlowID
	}
	sessionID := newSessionID()

	applog.Info(nil, "flow.create", map[string]any{"session_id": sessionID, "flow_id": usecaseID})

	res, err := s.Gateway.StartFlow(ctx, usecaseID, sessionID)
	if err != nil {
		return FlowHandle{}, err
	}

	status := res.Status()
	if status == "" {
		status = domain.TxnInitiated
	}
	s.persist(domain.Transaction{
		TransactionID: res.TransactionID(),
		SessionID:     sessionID,
		FlowID:        usecaseID,
		Status:        status,
	})

	return FlowHandle{
		SessionID:     sessionID,
		FlowID:        usecaseID,
		TransactionID: res.TransactionID(),
		Status:        status,
	}, nil
}

// Search is idempotent on (sessionID, flowID): a pair that already maps to a
// transaction is returned as-is and the remote flow is not restarted.
func (s *TransactionService) Search(ctx context.Context, sessionID, flowID string) (SearchResult, error) {
	existing, err := s.Txns.GetBySessionFlow(sessionID, flowID)
	if err == nil {
		applog.Info(nil, "flow.search.cached", map[string]any{
			"session_id":     sessionID,
			"flow_id":        flowID,
			"transaction_id": existing.TransactionID,
		})
		return SearchResult{TransactionID: existing.TransactionID, Status: existing.Status, FromCache: true, Persisted: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		// Lookup trouble must not restart-block the flow; fall through to a
		// fresh gateway start.
		applog.Warn(nil, "flow.search.lookup.fail", err, map[string]any{"session_id": sessionID})
	}

	res, err := s.Gateway.StartFlow(ctx, flowID, sessionID)
	if err != nil {
		return SearchResult{}, err
	}

	status := res.Status()
	if status == "" {
		status = domain.TxnInitiated
	}
	persisted := s.persist(domain.Transaction{
		TransactionID: res.TransactionID(),
		SessionID:     sessionID,
		FlowID:        flowID,
		Status:        status,
	})

	return SearchResult{TransactionID: res.TransactionID(), Status: status, Persisted: persisted}, nil
}

func (s *TransactionService) Select(ctx context.Context, transactionID string, inputs map[string]any) (gateway.FlowResult, error) {
	return s.proceed(ctx, transactionID, inputs, domain.TxnSelected)
}

func (s *TransactionService) Init(ctx context.Context, transactionID string, inputs map[string]any) (gateway.FlowResult, error) {
	return s.proceed(ctx, transactionID, inputs, domain.TxnInitialized)
}

// Confirm advances the flow to its final step. When the gateway reports the
// confirmation as successful, the stock reservation sequence runs before the
// result is returned; its failure propagates to the caller even though the
// remote side already confirmed (the remote is not re-contacted to reverse).
func (s *TransactionService) Confirm(ctx context.Context, transactionID string, inputs map[string]any) (gateway.FlowResult, error) {
	res, err := s.proceed(ctx, transactionID, inputs, domain.TxnConfirmed)
	if err != nil {
		return nil, err
	}

	if confirmSucceeded(res) {
		if err := s.reserveStock(transactionID, inputs); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *TransactionService) GetStatus(transactionID string) (domain.Transaction, error) {
	t, err := s.Txns.Get(transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionID)
	}
	return t, err
}

// proceed resolves the session for a known transaction (hard not-found,
// unlike the create path), advances the remote flow and records the new
// status. The status write is bookkeeping: failures are logged, not raised.
func (s *TransactionService) proceed(ctx context.Context, transactionID string, inputs map[string]any, defaultStatus string) (gateway.FlowResult, error) {
	sessionID, err := s.Txns.SessionID(transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionID)
		}
		return nil, err
	}

	res, err := s.Gateway.ProceedFlow(ctx, transactionID, sessionID, inputs)
	if err != nil {
		return nil, err
	}

	status := res.Status()
	if status == "" {
		status = defaultStatus
	}
	if err := s.Txns.UpdateStatus(transactionID, status); err != nil {
		applog.Warn(nil, "txn.status.update.fail", err, map[string]any{
			"transaction_id": transactionID,
			"status":         status,
		})
	}
	return res, nil
}

func confirmSucceeded(res gateway.FlowResult) bool {
	switch res.Status() {
	case domain.TxnConfirmed, "SUCCESS":
		return true
	}
	return !res.HasError()
}

// reserveStock decrements stock for every confirmed item and records the
// order. The store offers no multi-row atomic commit, so this is a
// compensating sequence: any failure partway rolls back the decrements
// already applied in this call, best-effort.
func (s *TransactionService) reserveStock(transactionID string, inputs map[string]any) error {
	ci, err := parseConfirmInputs(inputs)
	if err != nil {
		return err
	}

	var applied []domain.OrderItem
	for _, it := range ci.items {
		read, err := s.Products.Stock(it.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.rollback(applied)
				return fmt.Errorf("%w for item %s", ErrInsufficientStock, it.ID)
			}
			s.rollback(applied)
			return err
		}
		if read < it.Quantity {
			s.rollback(applied)
			return fmt.Errorf("%w for item %s: have %d, need %d", ErrInsufficientStock, it.ID, read, it.Quantity)
		}

		ok, err := s.Products.DecrementStock(it.ID, read, it.Quantity)
		if err != nil {
			s.rollback(applied)
			return err
		}
		if !ok {
			// lost the race with a concurrent decrement
			s.rollback(applied)
			return fmt.Errorf("%w for item %s", ErrStockConflict, it.ID)
		}
		applied = append(applied, it)
	}

	order := domain.Order{
		SellerID:     ci.sellerID,
		BuyerID:      ci.buyerID,
		CustomerName: ci.customerName,
		Items:        ci.items,
		TotalAmount:  ci.totalAmount,
		Status:       domain.OrderPending,
	}
	created, err := s.Orders.Create(order)
	if err != nil {
		s.rollback(applied)
		return err
	}

	applog.Info(nil, "order.recorded", map[string]any{
		"transaction_id": transactionID,
		"order_id":       created.ID,
		"items":          len(ci.items),
	})
	return nil
}

// rollback restores previously decremented quantities. A failed restore
// leaves inventory under-counted; that risk is accepted, so errors are
// logged and swallowed.
func (s *TransactionService) rollback(applied []domain.OrderItem) {
	for _, it := range applied {
		read, err := s.Products.Stock(it.ID)
		if err != nil {
			applog.Warn(nil, "stock.rollback.read.fail", err, map[string]any{"product_id": it.ID})
			continue
		}
		if err := s.Products.SetStock(it.ID, read+it.Quantity); err != nil {
			applog.Warn(nil, "stock.rollback.write.fail", err, map[string]any{"product_id": it.ID})
		}
	}
}

// persist is the best-effort transaction insert shared by CreateFlow and
// Search. Bookkeeping trouble must not fail the flow.
func (s *TransactionService) persist(t domain.Transaction) bool {
	if err := s.Txns.Insert(t); err != nil {
		applog.Warn(nil, "txn.persist.fail", err, map[string]any{"transaction_id": t.TransactionID})
		return false
	}
	return true
}

type confirmInputs struct {
	items        []domain.OrderItem
	customerName string
	sellerID     string
	buyerID      string
	totalAmount  float64
}

// parseConfirmInputs extracts the order fields from the confirm payload.
// Clients have shipped with and without buyer/seller ids, so each field
// falls back to the historical defaults. Item quantities must be positive
// integers: a negative quantity would turn the stock decrement into an
// inflation, and a fractional one would silently truncate.
func parseConfirmInputs(in map[string]any) (confirmInputs, error) {
	ci := confirmInputs{
		items:        []domain.OrderItem{},
		customerName: "Buyer",
		sellerID:     "unknown_seller",
		buyerID:      "buyer_default",
	}
	if in == nil {
		return ci, nil
	}
	if v, ok := in["customer_name"].(string); ok && v != "" {
		ci.customerName = v
	}
	if v, ok := in["seller_id"].(string); ok && v != "" {
		ci.sellerID = v
	}
	if v, ok := in["buyer_id"].(string); ok && v != "" {
		ci.buyerID = v
	}
	if v, ok := in["total_amount"].(float64); ok {
		ci.totalAmount = v
	}
	raw, ok := in["items"].([]any)
	if !ok {
		return ci, nil
	}
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		qty, okQ := m["quantity"].(float64)
		if id == "" || !okQ {
			continue
		}
		if qty <= 0 || qty != math.Trunc(qty) {
			return confirmInputs{}, fmt.Errorf("%w: item %s quantity %v", ErrInvalidQuantity, id, qty)
		}
		ci.items = append(ci.items, domain.OrderItem{ID: id, Quantity: int(qty)})
	}
	return ci, nil
}

func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}
