package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, seller_id, name, COALESCE(description,'') AS description, price,
  COALESCE(category,'') AS category, stock_quantity, COALESCE(image_url,'') AS image_url,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Create(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
	  INSERT INTO products(id, seller_id, name, description, price, category, stock_quantity, image_url, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.SellerID, p.Name, p.Description, p.Price, p.Category, p.StockQuantity, p.ImageURL)
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(p.ID)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) All() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT`+productCols+`
	  FROM products
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *ProductRepo) BySeller(sellerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT`+productCols+`
	  FROM products
	  WHERE seller_id = ?
	  ORDER BY created_at DESC
	`, sellerID)
	return out, err
}

// Search matches name or category, case-insensitive substring.
func (r *ProductRepo) Search(q string) ([]domain.Product, error) {
	like := "%" + q + "%"
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT`+productCols+`
	  FROM products
	  WHERE LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)
	  ORDER BY created_at DESC
	`, like, like)
	return out, err
}

// Feed returns the newest listings for the buyer home screen.
func (r *ProductRepo) Feed(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT`+productCols+`
	  FROM products
	  ORDER BY created_at DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// ProductUpdate carries the mutable columns; nil means leave unchanged.
// seller_id is deliberately absent: ownership is immutable.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	StockQuantity *int
	ImageURL      *string
}

// Update mutates a product only when sellerID matches the owning row.
// Returns the number of rows affected; 0 means no such product for that
// seller (the caller decides how to surface that).
func (r *ProductRepo) Update(id, sellerID string, u ProductUpdate) (int64, error) {
	set := `updated_at = CURRENT_TIMESTAMP`
	args := []any{}
	if u.Name != nil {
		set += `, name = ?`
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		set += `, description = ?`
		args = append(args, *u.Description)
	}
	if u.Price != nil {
		set += `, price = ?`
		args = append(args, *u.Price)
	}
	if u.Category != nil {
		set += `, category = ?`
		args = append(args, *u.Category)
	}
	if u.StockQuantity != nil {
		set += `, stock_quantity = ?`
		args = append(args, *u.StockQuantity)
	}
	if u.ImageURL != nil {
		set += `, image_url = ?`
		args = append(args, *u.ImageURL)
	}
	args = append(args, id, sellerID)

	res, err := r.db.Exec(`UPDATE products SET `+set+` WHERE id = ? AND seller_id = ?`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a product only when sellerID matches the owning row.
func (r *ProductRepo) Delete(id, sellerID string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ? AND seller_id = ?`, id, sellerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stock returns the current stock_quantity. sql.ErrNoRows when the product
// does not exist.
func (r *ProductRepo) Stock(id string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock_quantity FROM products WHERE id = ?`, id)
	return qty, err
}

// DecrementStock is the compare-and-swap write the confirm sequence relies
// on: it only applies when stock_quantity still equals the value previously
// read. A false return means a concurrent decrement won the race.
func (r *ProductRepo) DecrementStock(id string, read, by int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock_quantity = ?
	`, by, id, read)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetStock overwrites stock_quantity unconditionally (rollback path).
func (r *ProductRepo) SetStock(id string, qty int) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET stock_quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, qty, id)
	return err
}

func (r *ProductRepo) CountBySeller(sellerID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE seller_id = ?`, sellerID)
	return n, err
}
