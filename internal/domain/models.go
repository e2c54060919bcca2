package domain

import (
	"encoding/json"
	"strings"
)

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Stock       int     `db:"stock" json:"stock"`
	ImageRaw    string  `db:"image_url" json:"-"`
	Active      bool    `db:"active" json:"-"`
	CreatedAt   string  `db:"created_at" json:"-"`
	UpdatedAt   string  `db:"updated_at" json:"-"`
}

// ImageURL normalizes the stored image reference once, at the domain
// boundary. Historic rows hold either a plain URL/path or a JSON-encoded
// array of paths; callers always get a single display URL.
func (p Product) ImageURL() string {
	return NormalizeImageRef(p.ImageRaw)
}

// NormalizeImageRef resolves a stored image reference to one display URL.
func NormalizeImageRef(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "[") {
		var paths []string
		if err := json.Unmarshal([]byte(raw), &paths); err == nil && len(paths) > 0 {
			return paths[0]
		}
		return ""
	}
	return raw
}

// MarshalJSON exposes the normalized image URL on the wire instead of the
// raw stored value.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		ImageURL string `json:"image_url"`
	}{alias(p), p.ImageURL()})
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}
