package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/services"
)

// Gateway is everything the HTTP layer needs from the marketplace client.
// Tests wire an in-memory fake here.
type Gateway interface {
	services.FlowGateway
	ActionGateway
}

type Deps struct {
	TransactionHandler *TransactionHandler
	ProductHandler     *ProductHandler
	OrderHandler       *OrderHandler
}

func NewDeps(db *sqlx.DB, gw Gateway) *Deps {
	txnRepo := repos.NewTransactionRepo(db)
	prodRepo := repos.NewProductRepo(db)
	ordRepo := repos.NewOrderRepo(db)

	txnSvc := services.NewTransactionService(gw, txnRepo, prodRepo, ordRepo)
	prodSvc := services.NewProductService(prodRepo)
	ordSvc := services.NewOrderService(ordRepo, prodRepo)

	return &Deps{
		TransactionHandler: &TransactionHandler{Txn: txnSvc, Actions: gw},
		ProductHandler:     &ProductHandler{Products: prodSvc},
		OrderHandler:       &OrderHandler{Orders: ordSvc},
	}
}

// Register mounts every route on app; main and the HTTP tests share it.
func (d *Deps) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "bharatmandi-backend"})
	})

	api := app.Group("/api")

	// Checkout flow
	api.Post("/checkout/create-flow", d.TransactionHandler.CreateFlow)
	api.Post("/search", d.TransactionHandler.Search)
	api.Post("/select", d.TransactionHandler.Select)
	api.Post("/init", d.TransactionHandler.Init)
	api.Post("/confirm", d.TransactionHandler.Confirm)
	api.Get("/status/:transactionId", d.TransactionHandler.GetStatus)
	api.Post("/action/trigger", d.TransactionHandler.TriggerAction)

	// Products
	api.Post("/products", d.ProductHandler.Add)
	api.Get("/products", d.ProductHandler.All)
	api.Get("/products/search", d.ProductHandler.Search)
	api.Get("/products/feed", d.ProductHandler.Feed)
	api.Get("/products/seller/:sellerId", d.ProductHandler.BySeller)
	api.Put("/products/:id", d.ProductHandler.Update)
	api.Delete("/products/:id", d.ProductHandler.Delete)

	// Orders
	api.Get("/orders/seller/:sellerId", d.OrderHandler.SellerOrders)
	api.Get("/orders/seller/:sellerId/stats", d.OrderHandler.SellerStats)
	api.Get("/orders/buyer/:buyerId", d.OrderHandler.BuyerOrders)
	api.Get("/orders/buyer/:buyerId/stats", d.OrderHandler.BuyerStats)
	api.Patch("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
