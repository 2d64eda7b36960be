package domain

type Transaction struct {
	ID            string `db:"id" json:"id"`
	TransactionID string `db:"transaction_id" json:"transaction_id"`
	SessionID     string `db:"session_id" json:"session_id"`
	FlowID        string `db:"flow_id" json:"flow_id"`
	Status        string `db:"status" json:"status"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

// Transaction display statuses recorded after each flow step.
const (
	TxnInitiated   = "INITIATED"
	TxnSelected    = "SELECTED"
	TxnInitialized = "INITIALIZED"
	TxnConfirmed   = "CONFIRMED"
)

type Product struct {
	ID            string  `db:"id" json:"id"`
	SellerID      string  `db:"seller_id" json:"seller_id"`
	Name          string  `db:"name" json:"name"`
	Description   string  `db:"description" json:"description,omitempty"`
	Price         float64 `db:"price" json:"price"`
	Category      string  `db:"category" json:"category,omitempty"`
	StockQuantity int     `db:"stock_quantity" json:"stock_quantity"`
	ImageURL      string  `db:"image_url" json:"image_url,omitempty"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at,omitempty"`
}

// OrderItem is one line of an order's item list. Items travel as a JSON
// array in requests and are stored as a JSON column on the orders table.
type OrderItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID           string      `db:"id" json:"id"`
	SellerID     string      `db:"seller_id" json:"seller_id"`
	BuyerID      string      `db:"buyer_id" json:"buyer_id"`
	CustomerName string      `db:"customer_name" json:"customer_name"`
	ItemsJSON    string      `db:"items" json:"-"`
	Items        []OrderItem `db:"-" json:"items"`
	TotalAmount  float64     `db:"total_amount" json:"total_amount"`
	Status       string      `db:"status" json:"status"`
	CreatedAt    string      `db:"created_at" json:"created_at"`
	UpdatedAt    string      `db:"updated_at" json:"updated_at,omitempty"`
}

const (
	OrderPending   = "PENDING"
	OrderAccepted  = "ACCEPTED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

var orderStatuses = map[string]bool{
	OrderPending:   true,
	OrderAccepted:  true,
	OrderShipped:   true,
	OrderDelivered: true,
	OrderCancelled: true,
}

// ValidOrderStatus reports whether s is in the fixed allowed set for the
// order status-update endpoint.
func ValidOrderStatus(s string) bool { return orderStatuses[s] }

// OrderStats aggregates dashboard numbers. For buyers, ProductsCount is
// always 0 and Revenue is total spend.
type OrderStats struct {
	ProductsCount      int     `json:"productsCount"`
	OrdersCount        int     `json:"ordersCount"`
	Revenue            float64 `json:"revenue"`
	PendingOrdersCount int     `json:"pendingOrdersCount"`
}
