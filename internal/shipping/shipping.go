// Package shipping prices delivery for checkout. The tier table is static:
// quoting never touches the network or the database.
package shipping

import "strings"

// Shipping types as they travel on the order wire.
const (
	TypePickup   = "branch"
	TypeDelivery = "delivery"
)

// BranchAddress is the fixed pickup location.
const BranchAddress = "Av Vicente Rivera 131 A, Col. Nuevo Paseo, 78437, SLP"

// Flat costs per tier, in MXN.
const (
	PickupCost    = 0.0
	LocalNearCost = 49.0
	LocalFarCost  = 99.0
	RemoteCost    = 249.0
)

// localCapital matches the city field when the postal code is unknown but
// the destination is still the capital.
const localCapital = "san luis potosi"

// localPostalCodes is the San Luis Potosí metro set.
var localPostalCodes = map[string]bool{
	"78000": true, "78010": true, "78013": true, "78015": true, "78017": true,
	"78020": true, "78030": true, "78039": true, "78040": true, "78049": true,
	"78050": true, "78056": true, "78057": true, "78110": true, "78120": true,
	"78200": true, "78210": true, "78216": true, "78230": true, "78238": true,
	"78394": true, "78395": true, "78396": true, "78399": true, "78437": true,
}

// nearPostalCodes is the sub-tier closest to the branch.
var nearPostalCodes = map[string]bool{
	"78396": true, "78437": true, "78000": true,
}

// Quote returns the shipping cost for a selection. ok is false while a
// delivery destination is still incomplete (no postal code and no city);
// checkout must not submit until ok is true.
func Quote(shippingType, postal, city string) (cost float64, ok bool) {
	switch shippingType {
	case TypePickup:
		return PickupCost, true
	case TypeDelivery:
		postal = strings.TrimSpace(postal)
		city = strings.TrimSpace(city)
		if postal == "" && city == "" {
			return 0, false
		}
		if localPostalCodes[postal] || strings.ToLower(city) == localCapital {
			if nearPostalCodes[postal] {
				return LocalNearCost, true
			}
			return LocalFarCost, true
		}
		return RemoteCost, true
	default:
		return 0, false
	}
}

// Selection is the checkout shipping choice. The zero value is "unselected".
type Selection struct {
	Type       string
	PostalCode string
	Address    string
	City       string
	State      string
}

// Choose resets the selection to the given type, discarding any address
// fields entered for a previous choice.
func (s *Selection) Choose(shippingType string) {
	*s = Selection{Type: shippingType}
}

// Complete reports whether the selection can be submitted: pickup is always
// complete; delivery needs every address field.
func (s *Selection) Complete() bool {
	switch s.Type {
	case TypePickup:
		return true
	case TypeDelivery:
		return s.PostalCode != "" && s.Address != "" && s.City != "" && s.State != ""
	default:
		return false
	}
}

// Cost quotes the selection. ok follows Quote semantics.
func (s *Selection) Cost() (float64, bool) {
	return Quote(s.Type, s.PostalCode, s.City)
}

// FormatAddress renders the shipping address string stored on the order:
// the branch address for pickup, the concatenated fields for delivery.
func (s *Selection) FormatAddress() string {
	if s.Type == TypePickup {
		return "Sucursal: " + BranchAddress
	}
	return s.Address + ", CP: " + s.PostalCode + ", " + s.City + ", " + s.State
}
