package repos

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, seller_id, buyer_id, COALESCE(customer_name,'') AS customer_name, items,
  total_amount, status, created_at, COALESCE(updated_at,'') AS updated_at`

// Create inserts a new order row with the item list serialized as JSON.
func (r *OrderRepo) Create(o domain.Order) (domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.Order{}, err
	}
	_, err = r.db.Exec(`
	  INSERT INTO orders(id, seller_id, buyer_id, customer_name, items, total_amount, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.SellerID, o.BuyerID, o.CustomerName, string(items), o.TotalAmount, o.Status)
	if err != nil {
		return domain.Order{}, err
	}
	return r.Get(o.ID)
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT`+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	return decodeItems(o)
}

func (r *OrderRepo) BySeller(sellerID string) ([]domain.Order, error) {
	return r.list(`seller_id`, sellerID)
}

func (r *OrderRepo) ByBuyer(buyerID string) ([]domain.Order, error) {
	return r.list(`buyer_id`, buyerID)
}

func (r *OrderRepo) list(col, id string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT`+orderCols+`
	  FROM orders
	  WHERE `+col+` = ?
	  ORDER BY datetime(created_at) DESC
	`, id)
	if err != nil {
		return nil, err
	}
	for i, o := range out {
		if out[i], err = decodeItems(o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AmountStatus is the slim projection the stats endpoints reduce over.
type AmountStatus struct {
	TotalAmount float64 `db:"total_amount"`
	Status      string  `db:"status"`
}

func (r *OrderRepo) TotalsBySeller(sellerID string) ([]AmountStatus, error) {
	var out []AmountStatus
	err := r.db.Select(&out, `SELECT total_amount, status FROM orders WHERE seller_id = ?`, sellerID)
	return out, err
}

func (r *OrderRepo) TotalsByBuyer(buyerID string) ([]AmountStatus, error) {
	var out []AmountStatus
	err := r.db.Select(&out, `SELECT total_amount, status FROM orders WHERE buyer_id = ?`, buyerID)
	return out, err
}

// UpdateStatus sets a new status and returns rows affected; 0 means the
// order does not exist.
func (r *OrderRepo) UpdateStatus(id, status string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func decodeItems(o domain.Order) (domain.Order, error) {
	if o.ItemsJSON == "" {
		o.Items = []domain.OrderItem{}
		return o, nil
	}
	if err := json.Unmarshal([]byte(o.ItemsJSON), &o.Items); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
