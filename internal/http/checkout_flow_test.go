package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"suplementia/internal/config"
	"suplementia/internal/events"
	"suplementia/internal/http/handlers"
	"suplementia/internal/repos"
	"suplementia/internal/services"
)

// Minimal app for checkout flow and order ownership testing
func newCheckoutApp(t *testing.T) *fiber.App {
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

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())

	app.Post("/cart", deps.CartHandler.Add)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)
	return app
}

func TestCheckoutPlacesOrderAndGuardsOwnership(t *testing.T) {
	app := newCheckoutApp(t)
	sid := "sid-checkout"

	resp, err := app.Test(formReq("POST", "/cart", url.Values{"productId": {"multi-001"}, "qty": {"2"}}, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add: expected redirect, got %d", resp.StatusCode)
	}

	// checkout page renders the branch address and an idempotency key
	req := httptest.NewRequest("GET", "/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "Av Vicente Rivera 131 A") {
		t.Fatalf("checkout page missing branch address:\n%s", page)
	}
	if !strings.Contains(string(page), `name="idempotency_key"`) {
		t.Fatal("checkout page missing idempotency key field")
	}

	// place a delivery order to the near tier
	resp, err = app.Test(formReq("POST", "/orders", url.Values{
		"payment_method": {"transferencia"},
		"shipping_type":  {"delivery"},
		"postal":         {"78396"},
		"address":        {"Calle Falsa 123"},
		"city":           {"Soledad"},
		"state":          {"SLP"},
		"name":           {"María"},
		"email":          {"maria@suplementia.test"},
	}, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("place: expected redirect, got %d: %s", resp.StatusCode, body)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	// owner sees the confirmation with the tier cost folded into the total
	req = httptest.NewRequest("GET", loc, nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner view: expected 200, got %d", resp.StatusCode)
	}
	page, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "647.00") { // 2 x 299.00 + 49.00
		t.Fatalf("confirmation missing total:\n%s", page)
	}

	// a different session gets a 404, not someone else's order
	req = httptest.NewRequest("GET", loc, nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-stranger"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("stranger view: expected 404, got %d", resp.StatusCode)
	}
}

func TestCheckoutRejectsInvalidForm(t *testing.T) {
	app := newCheckoutApp(t)
	sid := "sid-checkout-bad"

	if _, err := app.Test(formReq("POST", "/cart", url.Values{"productId": {"multi-001"}, "qty": {"1"}}, sid)); err != nil {
		t.Fatal(err)
	}

	// delivery with a malformed postal code
	resp, err := app.Test(formReq("POST", "/orders", url.Values{
		"payment_method": {"transferencia"},
		"shipping_type":  {"delivery"},
		"postal":         {"78-39"},
		"address":        {"Calle Falsa 123"},
		"city":           {"Soledad"},
		"state":          {"SLP"},
	}, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad postal, got %d", resp.StatusCode)
	}

	// unknown payment method
	resp, err = app.Test(formReq("POST", "/orders", url.Values{
		"payment_method": {"paypal"},
		"shipping_type":  {"branch"},
	}, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad payment method, got %d", resp.StatusCode)
	}
}
