package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

// Address is a saved delivery destination on a customer profile.
type Address struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Street     string `db:"street"`
	PostalCode string `db:"postal_code"`
	City       string `db:"city"`
	State      string `db:"state"`
	CreatedAt  string `db:"created_at"`
}
