package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotePickupIsFree(t *testing.T) {
	cost, ok := Quote(TypePickup, "", "")
	assert.True(t, ok)
	assert.Equal(t, PickupCost, cost)

	// Address fields are ignored for pickup.
	cost, ok = Quote(TypePickup, "99999", "Monterrey")
	assert.True(t, ok)
	assert.Equal(t, PickupCost, cost)
}

func TestQuoteDeliveryTiers(t *testing.T) {
	cases := []struct {
		name   string
		postal string
		city   string
		want   float64
	}{
		{"near branch", "78437", "", LocalNearCost},
		{"near downtown", "78000", "", LocalNearCost},
		{"near 78396", "78396", "", LocalNearCost},
		{"local metro", "78230", "", LocalFarCost},
		{"local by city name", "99999", "San Luis Potosi", LocalFarCost},
		{"local city case-insensitive", "", "  SAN LUIS POTOSI ", LocalFarCost},
		{"remote", "44100", "Guadalajara", RemoteCost},
		{"remote city only", "", "Monterrey", RemoteCost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, ok := Quote(TypeDelivery, tc.postal, tc.city)
			assert.True(t, ok)
			assert.Equal(t, tc.want, cost)
		})
	}
}

func TestQuoteDeliveryIncomplete(t *testing.T) {
	_, ok := Quote(TypeDelivery, "", "")
	assert.False(t, ok)

	_, ok = Quote(TypeDelivery, "   ", "  ")
	assert.False(t, ok)
}

func TestQuoteUnknownType(t *testing.T) {
	_, ok := Quote("", "78000", "San Luis Potosi")
	assert.False(t, ok)

	_, ok = Quote("drone", "78000", "")
	assert.False(t, ok)
}

func TestQuoteIsPure(t *testing.T) {
	a, _ := Quote(TypeDelivery, "78230", "San Luis Potosi")
	b, _ := Quote(TypeDelivery, "78230", "San Luis Potosi")
	assert.Equal(t, a, b)
}

func TestSelectionChooseResetsAddress(t *testing.T) {
	s := Selection{}
	s.Choose(TypeDelivery)
	s.PostalCode = "78437"
	s.Address = "Calle 1"
	s.City = "San Luis Potosi"
	s.State = "SLP"
	assert.True(t, s.Complete())

	// Switching back to pickup discards the partial delivery form.
	s.Choose(TypePickup)
	assert.Empty(t, s.PostalCode)
	assert.Empty(t, s.Address)
	assert.True(t, s.Complete())
}

func TestSelectionCompleteness(t *testing.T) {
	var s Selection
	assert.False(t, s.Complete()) // unselected

	s.Choose(TypeDelivery)
	assert.False(t, s.Complete())

	s.PostalCode = "78437"
	s.Address = "Av Vicente Rivera 131"
	s.City = "San Luis Potosi"
	assert.False(t, s.Complete()) // state still missing

	s.State = "SLP"
	assert.True(t, s.Complete())

	cost, ok := s.Cost()
	assert.True(t, ok)
	assert.Equal(t, LocalNearCost, cost)
}

func TestFormatAddress(t *testing.T) {
	s := Selection{Type: TypePickup}
	assert.Equal(t, "Sucursal: "+BranchAddress, s.FormatAddress())

	s = Selection{
		Type:       TypeDelivery,
		PostalCode: "78437",
		Address:    "Calle Reforma 10",
		City:       "San Luis Potosi",
		State:      "SLP",
	}
	assert.Equal(t, "Calle Reforma 10, CP: 78437, San Luis Potosi, SLP", s.FormatAddress())
}
