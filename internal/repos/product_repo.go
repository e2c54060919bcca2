package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"suplementia/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// Nullable columns are coalesced here so rows always scan into plain strings.
const productCols = `
  id, category_id, name, COALESCE(description,'') AS description, price, stock,
  COALESCE(image_url,'') AS image_url, active,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) ListActive(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category_id = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

// ListAll includes inactive products, for the admin table.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Search(q, catID string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	query := `
	  SELECT ` + productCols + `
	  FROM products
	  WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, name, description, price, stock, image_url, active, created_at)
	  VALUES(?,?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageRaw)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET category_id=?, name=?, description=?, price=?, stock=?, image_url=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageRaw, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	return nil
}

// Deactivate soft-deletes: the row stays referenced by old orders.
func (r *ProductRepo) Deactivate(id string) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

// Stock returns current stock for a product.
func (r *ProductRepo) Stock(id string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
func (r *ProductRepo) DecrementStock(id string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", id)
	}
	return nil
}

// SetStock sets stock for a product (admin inventory edit).
func (r *ProductRepo) SetStock(id string, qty int) error {
	_, err := r.db.Exec(`UPDATE products SET stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, qty, id)
	return err
}
