package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/services"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

// POST /api/products
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if p.Name == "" || p.Price <= 0 || p.SellerID == "" {
		return badRequest(c, "Missing required fields (name, price, seller_id)")
	}
	if p.StockQuantity < 0 {
		return badRequest(c, "stock_quantity must not be negative")
	}

	created, err := h.Products.Add(p)
	if err != nil {
		return serverError(c, "product.add.fail", err)
	}
	applog.Info(c, "product.add", map[string]any{"product_id": created.ID, "seller_id": created.SellerID})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GET /api/products
func (h *ProductHandler) All(c *fiber.Ctx) error {
	products, err := h.Products.All()
	if err != nil {
		return serverError(c, "product.list.fail", err)
	}
	return c.JSON(products)
}

// GET /api/products/seller/:sellerId
func (h *ProductHandler) BySeller(c *fiber.Ctx) error {
	sellerID, okID := validate.ID(c.Params("sellerId"))
	if !okID {
		return badRequest(c, "Missing sellerId parameter")
	}
	products, err := h.Products.BySeller(sellerID)
	if err != nil {
		return serverError(c, "product.seller.list.fail", err)
	}
	return c.JSON(products)
}

// GET /api/products/search?q=
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q, okQ := validate.Q(c.Query("q"))
	if !okQ {
		return badRequest(c, "Missing query parameter q")
	}
	products, err := h.Products.Search(q)
	if err != nil {
		return serverError(c, "product.search.fail", err)
	}
	return c.JSON(products)
}

// GET /api/products/feed?limit=
func (h *ProductHandler) Feed(c *fiber.Ctx) error {
	products, err := h.Products.Feed(validate.Limit(c.Query("limit")))
	if err != nil {
		return serverError(c, "product.feed.fail", err)
	}
	return c.JSON(products)
}

type productUpdateRequest struct {
	SellerID      string   `json:"seller_id"`
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "Missing productId")
	}
	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if req.SellerID == "" {
		return badRequest(c, "Missing seller_id")
	}

	updated, err := h.Products.Update(id, req.SellerID, repos.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			applog.Warn(c, "product.update.denied", nil, map[string]any{"product_id": id, "seller_id": req.SellerID})
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found for seller"})
		}
		return serverError(c, "product.update.fail", err)
	}
	applog.Info(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(updated)
}

// DELETE /api/products/:id?seller_id=
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "Missing productId")
	}
	sellerID, okSeller := validate.ID(c.Query("seller_id"))
	if !okSeller {
		return badRequest(c, "Missing seller_id")
	}

	if err := h.Products.Delete(id, sellerID); err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			applog.Warn(c, "product.delete.denied", nil, map[string]any{"product_id": id, "seller_id": sellerID})
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found for seller"})
		}
		return serverError(c, "product.delete.fail", err)
	}
	applog.Info(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
}
