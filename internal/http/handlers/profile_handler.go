package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"suplementia/internal/domain"
	applog "suplementia/internal/log"
	"suplementia/internal/repos"
	"suplementia/internal/validate"
)

// ProfileHandler manages the logged-in customer's saved delivery addresses.
type ProfileHandler struct {
	Addrs *repos.AddressRepo
}

func (h *ProfileHandler) Profile(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	addrs, err := h.Addrs.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "profile.addresses.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your profile"})
	}
	return render(c, "profile", fiber.Map{"Addresses": addrs})
}

func (h *ProfileHandler) SaveAddress(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	postal, okPostal := validate.PostalCode(c.FormValue("postal"))
	street, okStreet := validate.Name(c.FormValue("street"))
	city, okCity := validate.Name(c.FormValue("city"))
	state, okState := validate.Name(c.FormValue("state"))
	if !okPostal || !okStreet || !okCity || !okState {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(400).SendString("invalid address")
	}
	a := domain.Address{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		Street:     street,
		PostalCode: postal,
		City:       city,
		State:      state,
	}
	if err := h.Addrs.Create(a); err != nil {
		applog.Error(c, "profile.addresses.save.fail", err, nil)
		return c.Status(400).SendString("could not save address")
	}
	applog.Audit(c, "profile.addresses.save", map[string]any{"address": a.ID})
	return c.Redirect("/profile")
}

func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Addrs.Delete(id, u.ID); err != nil {
		applog.Error(c, "profile.addresses.delete.fail", err, map[string]any{"address": id})
		return c.Status(400).SendString("could not delete address")
	}
	applog.Audit(c, "profile.addresses.delete", map[string]any{"address": id})
	return c.Redirect("/profile")
}
