package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo marketplace data if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Checkout flow state, one row per remote transaction
CREATE TABLE IF NOT EXISTS transactions(
  id TEXT PRIMARY KEY,
  transaction_id TEXT NOT NULL UNIQUE,
  session_id TEXT NOT NULL,
  flow_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'INITIATED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
-- Idempotency key: one transaction per (session, flow) pair
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_session_flow ON transactions(session_id, flow_id);
CREATE INDEX IF NOT EXISTS idx_transactions_txn ON transactions(transaction_id);

-- Seller catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  image_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_seller     ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(LOWER(category));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders recorded after confirmed checkouts; items kept as a JSON column
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  customer_name TEXT,
  items TEXT NOT NULL DEFAULT '[]',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_seller     ON orders(seller_id);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,seller_id,name,description,price,category,stock_quantity) VALUES
	  ('prod-wheat-01','seller_demo_1','Sharbati Wheat','Premium MP sharbati wheat, 50kg bag',1450.00,'grains',40),
	  ('prod-onion-01','seller_demo_1','Nashik Red Onion','Grade A red onion, 25kg sack',620.00,'vegetables',120),
	  ('prod-turmeric-01','seller_demo_2','Salem Turmeric Fingers','High-curcumin turmeric, 10kg',980.00,'spices',15)`)

	return tx.Commit()
}
