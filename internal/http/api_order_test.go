package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"suplementia/internal/config"
	"suplementia/internal/events"
	"suplementia/internal/http/handlers"
	"suplementia/internal/repos"
	"suplementia/internal/services"
)

// Minimal app for the JSON API surface.
func newAPIApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	authSvc := services.NewAuthService(repos.NewUserRepo(db))
	deps := handlers.NewDeps(db, cfg, authSvc, events.NopPublisher{})

	app := fiber.New()
	app.Use(requestid.New())
	api := app.Group("/api")
	api.Get("/products", deps.APIHandler.Products)
	api.Get("/availability", deps.APIHandler.Availability)
	api.Get("/shipping/quote", deps.APIHandler.ShippingQuote)
	api.Post("/orders", deps.APIHandler.PlaceOrder)
	return app
}

func TestAPIProductsEnvelope(t *testing.T) {
	app := newAPIApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []struct {
			ID       string  `json:"id"`
			Price    float64 `json:"price"`
			ImageURL string  `json:"image_url"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Items) == 0 {
		t.Fatal("expected seeded products in items envelope")
	}
	for _, it := range body.Items {
		// image refs stored as JSON arrays must come out as plain URLs
		if len(it.ImageURL) > 0 && it.ImageURL[0] == '[' {
			t.Fatalf("image_url not normalized for %s: %q", it.ID, it.ImageURL)
		}
	}
}

func TestAPIShippingQuote(t *testing.T) {
	app := newAPIApp(t)

	cases := []struct {
		query string
		want  string
	}{
		{"type=branch", `"cost":0`},
		{"type=delivery&postal=78396", `"cost":49`},
		{"type=delivery&postal=78200", `"cost":99`},
		{"type=delivery&city=San%20Luis%20Potosi", `"cost":99`},
		{"type=delivery&postal=99999", `"cost":249`},
		{"type=delivery", `"cost":null`},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/shipping/quote?"+tc.query, nil))
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if !bytes.Contains(body, []byte(tc.want)) {
			t.Fatalf("%s: want %s in %s", tc.query, tc.want, body)
		}
	}
}

func TestAPIPlaceOrder(t *testing.T) {
	app := newAPIApp(t)

	payload := map[string]any{
		"payment_method":   "transferencia",
		"shipping_type":    "delivery",
		"shipping_address": "Calle Falsa 123, CP: 78396, Soledad, SLP",
		"shipping_cost":    49,
		"items":            []map[string]any{{"product_id": "whey-001", "quantity": 2}},
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		ID            string  `json:"id"`
		PaymentMethod string  `json:"payment_method"`
		Total         float64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.ID == "" {
		t.Fatal("missing order id")
	}
	// 2 x 899.00 from the catalog plus the near-tier delivery cost
	if out.Total != 1847.00 {
		t.Fatalf("server-side total wrong: %v", out.Total)
	}
}

func TestAPIPlaceOrderRejections(t *testing.T) {
	app := newAPIApp(t)

	post := func(payload map[string]any) *http.Response {
		raw, _ := json.Marshal(payload)
		req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	base := map[string]any{
		"payment_method":   "transferencia",
		"shipping_type":    "delivery",
		"shipping_address": "Calle Falsa 123, CP: 78396, Soledad, SLP",
		"shipping_cost":    49,
		"items":            []map[string]any{{"product_id": "whey-001", "quantity": 1}},
	}

	bad := func(k string, v any) map[string]any {
		m := map[string]any{}
		for kk, vv := range base {
			m[kk] = vv
		}
		m[k] = v
		return m
	}

	for name, payload := range map[string]map[string]any{
		"unknown payment":  bad("payment_method", "paypal"),
		"made-up cost":     bad("shipping_cost", 10),
		"missing address":  bad("shipping_address", ""),
		"no items":         bad("items", []map[string]any{}),
		"unknown shipping": bad("shipping_type", "drone"),
	} {
		resp := post(payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, resp.StatusCode)
		}
		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if _, ok := out["detail"]; !ok {
			t.Fatalf("%s: expected detail field in error body", name)
		}
	}
}

func TestAPIAvailability(t *testing.T) {
	app := newAPIApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/availability?productId=whey-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "IN_STOCK" {
		t.Fatalf("expected IN_STOCK for seeded product, got %q", out.Status)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/availability?productId=ghost-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "OUT_OF_STOCK" {
		t.Fatalf("expected OUT_OF_STOCK for unknown product, got %q", out.Status)
	}
}
