package repos

import (
	"github.com/jmoiron/sqlx"

	"suplementia/internal/domain"
)

type AddressRepo struct{ db *sqlx.DB }

func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

func (r *AddressRepo) ListByUser(userID string) ([]domain.Address, error) {
	var out []domain.Address
	err := r.db.Select(&out, `
	  SELECT id, user_id, street, postal_code, city, state, created_at
	  FROM addresses
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *AddressRepo) Create(a domain.Address) error {
	_, err := r.db.Exec(`
	  INSERT INTO addresses(id, user_id, street, postal_code, city, state, created_at)
	  VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, a.ID, a.UserID, a.Street, a.PostalCode, a.City, a.State)
	return err
}

func (r *AddressRepo) Delete(id, userID string) error {
	_, err := r.db.Exec(`DELETE FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
