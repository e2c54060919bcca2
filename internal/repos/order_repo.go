package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string  `db:"id"`
	SessionID     string  `db:"session_id"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
	Total         float64 `db:"total"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

// ---------- Order detail (used by /order/:id) ----------
type OrderRow struct {
	ID              string  `db:"id"`
	SessionID       string  `db:"session_id"`
	UserID          string  `db:"user_id"`
	PaymentMethod   string  `db:"payment_method"`
	ShippingType    string  `db:"shipping_type"`
	ShippingAddress string  `db:"shipping_address"`
	ShippingCost    float64 `db:"shipping_cost"`
	ItemsTotal      float64 `db:"items_total"`
	Total           float64 `db:"total"`
	Status          string  `db:"status"`
	Customer        string  `db:"customer_name"`
	Email           string  `db:"customer_email"`
	CreatedAt       string  `db:"created_at"`
}

type OrderItemRow struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Subtotal  float64 `db:"subtotal"`
}

// NewOrder is the insert payload built by the order service.
type NewOrder struct {
	ID              string
	SessionID       string
	PaymentMethod   string
	ShippingType    string
	ShippingAddress string
	ShippingCost    float64
	ItemsTotal      float64
	Total           float64
	IdempotencyKey  string
	CustomerName    string
	CustomerEmail   string
}

func (r *OrderRepo) Create(o NewOrder) error {
	key := sql.NullString{String: o.IdempotencyKey, Valid: o.IdempotencyKey != ""}
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, payment_method, shipping_type, shipping_address,
	     shipping_cost, items_total, total, status, idempotency_key,
	     customer_name, customer_email, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, 'PENDING', ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, o.PaymentMethod, o.ShippingType, o.ShippingAddress,
		o.ShippingCost, o.ItemsTotal, o.Total, key, o.CustomerName, o.CustomerEmail)
	return err
}

func (r *OrderRepo) InsertItem(orderID, productID, name string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, qty, price)
	  VALUES(?, ?, ?, ?, ?)
	`, orderID, productID, name, qty, price)
	return err
}

// ByIdempotencyKey returns the id of an order already created for key,
// or "" if none exists.
func (r *OrderRepo) ByIdempotencyKey(key string) (string, error) {
	var id string
	err := r.db.Get(&id, `SELECT id FROM orders WHERE idempotency_key = ?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id,
		       o.payment_method, o.shipping_type, o.shipping_address,
		       o.shipping_cost, o.items_total, o.total, o.status,
		       COALESCE(o.customer_name,'') AS customer_name,
		       COALESCE(o.customer_email,'') AS customer_email,
		       o.created_at
		FROM orders o
		LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT product_id, name, qty, price, (qty * price) AS subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, COALESCE(customer_name,'') AS customer_name,
		       COALESCE(customer_email,'') AS customer_email, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id, o.session_id, COALESCE(o.customer_name,'') AS customer_name,
		       COALESCE(o.customer_email,'') AS customer_email, o.total, o.status, o.created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to a session id (anon or pre-login orders).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, COALESCE(customer_name,'') AS customer_name,
		       COALESCE(customer_email,'') AS customer_email, total, status, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// DashboardStats feeds the admin landing page.
type DashboardStats struct {
	Revenue   float64 `db:"revenue"`
	Orders    int     `db:"orders"`
	Customers int     `db:"customers"`
	Products  int     `db:"products"`
}

func (r *OrderRepo) Stats() (DashboardStats, error) {
	var s DashboardStats
	err := r.db.Get(&s, `
		SELECT
		  COALESCE((SELECT SUM(total) FROM orders WHERE status != 'CANCELADO'),0) AS revenue,
		  (SELECT COUNT(*) FROM orders)                       AS orders,
		  (SELECT COUNT(*) FROM users WHERE role = 'USER')    AS customers,
		  (SELECT COUNT(*) FROM products WHERE active = 1)    AS products
	`)
	return s, err
}
