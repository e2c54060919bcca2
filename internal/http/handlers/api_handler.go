package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "suplementia/internal/log"
	"suplementia/internal/services"
	"suplementia/internal/shipping"
	"suplementia/internal/validate"
)

// APIHandler serves the JSON surface consumed by storefront scripts and
// integrations: catalog listing, availability, shipping quotes and order
// submission.
type APIHandler struct {
	Catalog *services.CatalogService
	Order   *services.OrderService
}

// Products responds with {"items": [...]}.
func (h *APIHandler) Products(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
	}
	products, err := h.Catalog.ListProducts(category, 1, 100)
	if err != nil {
		applog.Error(c, "api.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(fiber.Map{"items": products})
}

func (h *APIHandler) Availability(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	avail, err := h.Catalog.CheckAvailability(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(avail)
}

// ShippingQuote recomputes the delivery cost as the user edits postal code
// or city. The lookup itself is a pure in-process table scan.
func (h *APIHandler) ShippingQuote(c *fiber.Ctx) error {
	sType := c.Query("type")
	cost, ok := shipping.Quote(sType, c.Query("postal"), c.Query("city"))
	if !ok {
		return c.JSON(fiber.Map{"cost": nil})
	}
	return c.JSON(fiber.Map{"cost": cost})
}

// PlaceOrder accepts the JSON order payload and responds with the created
// order id.
func (h *APIHandler) PlaceOrder(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var in services.APIOrder
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid order payload"})
	}

	orderID, total, err := h.Order.PlaceAPI(sid, in)
	if err != nil {
		applog.Security(c, "api.order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}
	applog.Audit(c, "api.order.place", map[string]any{"order_id": orderID, "total": total})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":             orderID,
		"payment_method": in.PaymentMethod,
		"total":          total,
	})
}
