package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "suplementia/internal/log"
	"suplementia/internal/services"
	"suplementia/internal/validate"
)

type ShopHandler struct {
	Catalog *services.CatalogService
}

func (h *ShopHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	featured, err := h.Catalog.ListProducts("", 1, 6)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Featured": featured})
}

// Shop lists the catalog, optionally filtered by category and search query.
func (h *ShopHandler) Shop(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			category = ""
		}
	}

	rawQ := strings.TrimSpace(c.Query("q"))
	var products any
	var err error
	if rawQ != "" {
		q, ok := validate.Q(rawQ)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			cats, _ := h.Catalog.ListCategories()
			return c.Status(fiber.StatusBadRequest).Render("shop", fiber.Map{
				"Products": []any{}, "Categories": cats, "CategoryID": category, "Q": "",
				"Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
		products, err = h.Catalog.Search(strings.ToLower(q), category, 1, 20)
	} else {
		products, err = h.Catalog.ListProducts(category, 1, 20)
	}
	if err != nil {
		applog.Error(c, "shop.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}

	cats, _ := h.Catalog.ListCategories()
	return render(c, "shop", fiber.Map{
		"Products": products, "Categories": cats, "CategoryID": category, "Q": rawQ,
	})
}

func (h *ShopHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" || !p.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p})
}
