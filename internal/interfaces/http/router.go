package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory *inventory.ReconciliationService
	JWTSecret string
	Location  *time.Location
	Log       zerolog.Logger
}

// Router registra las rutas de la API. Todo /api/inventory requiere Bearer Token;
// las reparaciones y la reserva de números de diario solo owner/admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(jwt.RoleOwner, jwt.RoleAdmin)

	inv := protected.Group("/inventory")
	h := NewInventoryHandler(deps.Inventory, deps.Location, deps.Log)

	// Escrituras disparadas por compras y caja
	inv.Post("/purchases", h.ProcessPurchase)
	inv.Post("/purchases/reverse", h.ReversePurchase)
	inv.Post("/transactions", h.ProcessTransaction)
	inv.Post("/validate", h.ValidateStock)
	inv.Post("/validate/strict", h.ValidateStockStrict)

	// Diario de ajustes
	inv.Post("/adjustments", h.CreateAdjustment)
	inv.Get("/adjustments", h.ListAdjustments)
	inv.Post("/adjustments/journal-number", managers, h.GenerateJournalNumber)
	inv.Post("/corrections", h.StockCorrection)

	// Consultas
	inv.Get("/movements", h.ListMovements)
	inv.Get("/movement-types", h.ListMovementTypes)
	inv.Get("/summary", h.Summary)
	inv.Get("/products/:id/stock", h.ProductStock)
	inv.Get("/products/:id/history", h.ProductHistory)

	// Reparación
	inv.Post("/sync/products", managers, h.SyncWithProducts)
	inv.Post("/sync/movements", managers, h.SyncFromMovements)
}
