package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"suplementia/internal/cart"
	"suplementia/internal/domain"
)

// CartRepo persists cart engine state per browsing session so the cart
// survives reloads. The engine stays authoritative: the repo only mirrors
// the state it is handed.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

type cartLine struct {
	ProductID  string  `db:"product_id"`
	Name       string  `db:"name"`
	ImageRaw   string  `db:"image_url"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
}

// Items hydrates the persisted lines into engine items, joining products
// for display fields.
func (r *CartRepo) Items(cartID string) ([]cart.Item, error) {
	var lines []cartLine
	err := r.db.Select(&lines, `
	  SELECT ci.product_id, p.name, COALESCE(p.image_url,'') AS image_url,
	         ci.qty, ci.price_at_add
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.product_id
	`, cartID)
	if err != nil {
		return nil, err
	}
	items := make([]cart.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, cart.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.PriceAtAdd,
			Quantity:  l.Qty,
			ImageURL:  domain.NormalizeImageRef(l.ImageRaw),
		})
	}
	return items, nil
}

// SaveLine writes the absolute quantity the engine computed for one line.
func (r *CartRepo) SaveLine(cartID string, it cart.Item) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,qty,price_at_add,created_at,updated_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id,product_id) DO UPDATE
	  SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, it.ProductID, it.Quantity, it.Price)
	return err
}

func (r *CartRepo) RemoveLine(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
