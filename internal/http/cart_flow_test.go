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

// Minimal app for cart flow testing (no CSRF layer; that is covered by
// the middleware config, not per-handler logic).
func newCartApp(t *testing.T) *fiber.App {
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

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	return app
}

func formReq(method, target string, vals url.Values, sid string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func TestCartAddViewRemove(t *testing.T) {
	app := newCartApp(t)
	sid := "sid-cart-flow"

	// add twice -> one merged line
	for i := 0; i < 2; i++ {
		resp, err := app.Test(formReq("POST", "/cart", url.Values{"productId": {"whey-001"}, "qty": {"1"}}, sid))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("add: expected redirect, got %d", resp.StatusCode)
		}
	}

	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("view: expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "Proteína Whey 1kg") {
		t.Fatalf("cart page missing product name:\n%s", page)
	}
	if !strings.Contains(page, "1798.00") {
		t.Fatalf("cart page missing merged total:\n%s", page)
	}

	// remove the line -> empty cart page
	resp, err = app.Test(formReq("POST", "/cart/remove", url.Values{"productId": {"whey-001"}}, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("remove: expected redirect, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Tu carrito está vacío") {
		t.Fatalf("expected empty cart page, got:\n%s", string(body))
	}
}

func TestCartAddRejectsBadInput(t *testing.T) {
	app := newCartApp(t)

	// missing productId
	resp, err := app.Test(formReq("POST", "/cart", url.Values{"qty": {"1"}}, "sid-bad"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing productId, got %d", resp.StatusCode)
	}

	// unknown product
	resp, err = app.Test(formReq("POST", "/cart", url.Values{"productId": {"nope-001"}, "qty": {"1"}}, "sid-bad"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product, got %d", resp.StatusCode)
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	app := newCartApp(t)

	resp, err := app.Test(formReq("POST", "/cart", url.Values{"productId": {"crea-001"}, "qty": {"1"}}, "sid-a"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add: expected redirect, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-b"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Tu carrito está vacío") {
		t.Fatal("another session should not see the first session's cart")
	}
}
