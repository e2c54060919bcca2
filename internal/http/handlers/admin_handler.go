package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"suplementia/internal/domain"
	applog "suplementia/internal/log"
	"suplementia/internal/repos"
	"suplementia/internal/validate"
)

type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	Prods     *repos.ProductRepo
	Cats      *repos.CategoryRepo
	Users     *repos.UserRepo
	MediaDir  string
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.OrderRepo.Stats()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	recent, _ := h.OrderRepo.ListLatest(10)
	return render(c, "admin_dashboard", fiber.Map{"Stats": stats, "Recent": recent})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	status, okStatus := validate.OrderStatus(c.FormValue("status"))
	if !okID || !okStatus {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.OrderRepo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	prods, err := h.Prods.ListAll()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	cats, _ := h.Cats.List()
	return render(c, "admin_products", fiber.Map{"Products": prods, "Categories": cats})
}

func (h *AdminHandler) parseProductForm(c *fiber.Ctx, id string) (domain.Product, error) {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return domain.Product{}, fmt.Errorf("invalid name")
	}
	category, ok := validate.ID(c.FormValue("category"))
	if !ok {
		return domain.Product{}, fmt.Errorf("invalid category")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil || price < 0 {
		return domain.Product{}, fmt.Errorf("invalid price")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		return domain.Product{}, fmt.Errorf("invalid stock")
	}
	return domain.Product{
		ID:          id,
		CategoryID:  category,
		Name:        name,
		Description: c.FormValue("description"),
		Price:       price,
		Stock:       stock,
		ImageRaw:    strings.TrimSpace(c.FormValue("image_url")),
	}, nil
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	p, err := h.parseProductForm(c, uuid.NewString())
	if err != nil {
		return c.Status(400).SendString(err.Error())
	}
	if err := h.Prods.Create(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"name": p.Name})
		return c.Status(400).SendString("could not create product")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	p, err := h.parseProductForm(c, id)
	if err != nil {
		return c.Status(400).SendString(err.Error())
	}
	if err := h.Prods.Update(p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not update product")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Prods.Deactivate(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/media — multipart image upload; responds with the public path
// for use in a product's image_url field.
func (h *AdminHandler) UploadMedia(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "missing file"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		applog.Security(c, "media.upload.reject", map[string]any{"name": fh.Filename})
		return c.Status(400).JSON(fiber.Map{"error": "unsupported file type"})
	}
	if fh.Size > 5<<20 {
		return c.Status(400).JSON(fiber.Map{"error": "file too large"})
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(h.MediaDir, "products", name)
	if err := c.SaveFile(fh, dest); err != nil {
		applog.Error(c, "media.upload.fail", err, map[string]any{"name": fh.Filename})
		return c.Status(500).JSON(fiber.Map{"error": "could not store file"})
	}

	applog.Audit(c, "media.upload", map[string]any{"stored": name, "bytes": fh.Size})
	return c.JSON(fiber.Map{"url": "/media/products/" + name})
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.ListCustomers()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}
