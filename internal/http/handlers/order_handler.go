package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"suplementia/internal/domain"
	applog "suplementia/internal/log"
	"suplementia/internal/repos"
	"suplementia/internal/services"
	"suplementia/internal/shipping"
	"suplementia/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
	Auth  *services.AuthService
}

// Checkout renders the checkout form. The embedded idempotency key is
// generated per render so a double-submitted form creates one order.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	if len(cv.Items) == 0 {
		return render(c, "cart", fiber.Map{"Cart": cv})
	}
	return render(c, "checkout", fiber.Map{
		"Cart":           cv,
		"BranchAddress":  shipping.BranchAddress,
		"IdempotencyKey": uuid.NewString(),
	})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	payment, ok := validate.PaymentMethod(c.FormValue("payment_method"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment_method"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid payment method")
	}

	sel := shipping.Selection{Type: c.FormValue("shipping_type")}
	if sel.Type == shipping.TypeDelivery {
		postal, ok := validate.PostalCode(c.FormValue("postal"))
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "postal"})
			return c.Status(fiber.StatusBadRequest).SendString("invalid postal code")
		}
		sel.PostalCode = postal
		sel.Address = c.FormValue("address")
		sel.City = c.FormValue("city")
		sel.State = c.FormValue("state")
	}

	var name, email string
	if v, ok := validate.Name(c.FormValue("name")); ok {
		name = v
	}
	if v, ok := validate.Email(c.FormValue("email")); ok {
		email = v
	}

	key := c.FormValue("idempotency_key")
	if _, ok := validate.ID(key); !ok {
		key = ""
	}

	orderID, total, err := h.Order.Place(sid, services.PlaceInput{
		PaymentMethod:  payment,
		Shipping:       sel,
		IdempotencyKey: key,
		CustomerName:   name,
		CustomerEmail:  email,
	})
	if err != nil {
		// business rule errors (empty cart, stock, incomplete address) surface as 400
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		cv, verr := h.Cart.View(sid)
		if verr != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review your cart and try again.")
		}
		return c.Status(fiber.StatusBadRequest).Render("checkout", fiber.Map{
			"Cart":           cv,
			"BranchAddress":  shipping.BranchAddress,
			"IdempotencyKey": uuid.NewString(),
			"Err":            "Could not place order. Please review your details and try again.",
		})
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total})

	return c.Redirect("/order/" + orderID)
}

// View shows the order confirmation page, keyed by order id.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership: session owner or same user via sessions.user_id; admins allowed.
	sid := c.Cookies("sid")
	var uID, uRole string
	if h.Auth != nil && sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			uID = u.ID
			uRole = u.Role
		}
	}
	owner := (sid != "" && sid == o.SessionID) || (uID != "" && uID == o.UserID)
	if !owner && uRole != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	// Fallback: show session orders if none linked to user (e.g., pre-login)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
