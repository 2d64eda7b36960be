package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/services"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// GET /api/orders/seller/:sellerId
func (h *OrderHandler) SellerOrders(c *fiber.Ctx) error {
	sellerID, okID := validate.ID(c.Params("sellerId"))
	if !okID {
		return badRequest(c, "Missing sellerId")
	}
	orders, err := h.Orders.SellerOrders(sellerID)
	if err != nil {
		return serverError(c, "order.seller.list.fail", err)
	}
	return c.JSON(orders)
}

// GET /api/orders/seller/:sellerId/stats
func (h *OrderHandler) SellerStats(c *fiber.Ctx) error {
	sellerID, okID := validate.ID(c.Params("sellerId"))
	if !okID {
		return badRequest(c, "Missing sellerId")
	}
	stats, err := h.Orders.SellerStats(sellerID)
	if err != nil {
		return serverError(c, "order.seller.stats.fail", err)
	}
	return c.JSON(stats)
}

// GET /api/orders/buyer/:buyerId
func (h *OrderHandler) BuyerOrders(c *fiber.Ctx) error {
	buyerID, okID := validate.ID(c.Params("buyerId"))
	if !okID {
		return badRequest(c, "Missing buyerId")
	}
	orders, err := h.Orders.BuyerOrders(buyerID)
	if err != nil {
		return serverError(c, "order.buyer.list.fail", err)
	}
	return c.JSON(orders)
}

// GET /api/orders/buyer/:buyerId/stats
func (h *OrderHandler) BuyerStats(c *fiber.Ctx) error {
	buyerID, okID := validate.ID(c.Params("buyerId"))
	if !okID {
		return badRequest(c, "Missing buyerId")
	}
	stats, err := h.Orders.BuyerStats(buyerID)
	if err != nil {
		return serverError(c, "order.buyer.stats.fail", err)
	}
	return c.JSON(stats)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "Missing orderId")
	}
	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if req.Status == "" {
		return badRequest(c, "Missing orderId or status")
	}
	if !domain.ValidOrderStatus(req.Status) {
		return badRequest(c, "Invalid status provided")
	}

	order, err := h.Orders.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		return serverError(c, "order.status.update.fail", err)
	}
	applog.Info(c, "order.status.update", map[string]any{"order_id": id, "status": req.Status})
	return c.JSON(order)
}
