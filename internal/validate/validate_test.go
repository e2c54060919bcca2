package validate

import "testing"

func TestPostalCode(t *testing.T) {
	cases := map[string]bool{
		"78000":  true,
		" 78396": true,
		"7800":   false,
		"780000": false,
		"78-00":  false,
		"":       false,
	}
	for in, want := range cases {
		if _, ok := PostalCode(in); ok != want {
			t.Errorf("PostalCode(%q) = %v, want %v", in, ok, want)
		}
	}
}

func TestQtyClamps(t *testing.T) {
	cases := map[string]int{
		"3":   3,
		"0":   1,
		"-5":  1,
		"abc": 1,
		"999": 50,
	}
	for in, want := range cases {
		if got := Qty(in); got != want {
			t.Errorf("Qty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPaymentMethod(t *testing.T) {
	if _, ok := PaymentMethod(" Transferencia "); !ok {
		t.Error("expected transferencia to validate case-insensitively")
	}
	if _, ok := PaymentMethod("paypal"); ok {
		t.Error("paypal is not a supported method")
	}
}

func TestOrderStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "procesando", "Enviado", "COMPLETADO", "CANCELADO"} {
		if _, ok := OrderStatus(s); !ok {
			t.Errorf("expected %q to validate", s)
		}
	}
	if _, ok := OrderStatus("SHIPPED"); ok {
		t.Error("SHIPPED is not a known status")
	}
}

func TestID(t *testing.T) {
	if _, ok := ID("whey-001"); !ok {
		t.Error("expected product id to validate")
	}
	if _, ok := ID("a b"); ok {
		t.Error("ids must not contain spaces")
	}
	if _, ok := ID("../etc"); ok {
		t.Error("ids must not contain path characters")
	}
}
