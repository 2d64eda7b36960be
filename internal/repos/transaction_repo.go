package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
)

type TransactionRepo struct{ db *sqlx.DB }

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// Insert persists a freshly started flow. Rows are never deleted; status is
// the only column mutated afterwards.
func (r *TransactionRepo) Insert(t domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
	  INSERT INTO transactions(id, transaction_id, session_id, flow_id, status, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, t.ID, t.TransactionID, t.SessionID, t.FlowID, t.Status)
	return err
}

// GetBySessionFlow looks a transaction up by its idempotency key.
// Returns sql.ErrNoRows from sqlx.Get when the pair is unseen.
func (r *TransactionRepo) GetBySessionFlow(sessionID, flowID string) (domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.Get(&t, `
	  SELECT id, transaction_id, session_id, flow_id, status, created_at
	  FROM transactions
	  WHERE session_id = ? AND flow_id = ?
	`, sessionID, flowID)
	return t, err
}

func (r *TransactionRepo) Get(transactionID string) (domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.Get(&t, `
	  SELECT id, transaction_id, session_id, flow_id, status, created_at
	  FROM transactions
	  WHERE transaction_id = ?
	`, transactionID)
	return t, err
}

// SessionID resolves the session a transaction belongs to.
func (r *TransactionRepo) SessionID(transactionID string) (string, error) {
	var sid string
	err := r.db.Get(&sid, `
	  SELECT session_id FROM transactions WHERE transaction_id = ?
	`, transactionID)
	return sid, err
}

func (r *TransactionRepo) UpdateStatus(transactionID, status string) error {
	_, err := r.db.Exec(`
	  UPDATE transactions SET status = ? WHERE transaction_id = ?
	`, status, transactionID)
	return err
}
