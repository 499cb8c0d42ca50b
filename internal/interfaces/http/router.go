package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Metrics   *MetricsHandler
	Dashboard *DashboardHandler
	Inventory *InventoryHandler
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; el
// ajuste de stock y la reevaluación quedan además restringidos por rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Métricas (lecturas sin efectos secundarios)
	m := api.Group("/metrics")
	m.Get("/summary", deps.Metrics.GetSummary)
	m.Get("/revenue", deps.Metrics.GetRevenue)
	m.Get("/revenue-overview", deps.Metrics.GetRevenueOverview)
	m.Get("/order-status", deps.Metrics.GetOrderStatus)
	m.Get("/top-products", deps.Metrics.GetTopProducts)
	m.Get("/recent-orders", deps.Metrics.GetRecentOrders)
	m.Get("/low-stock", deps.Metrics.GetLowStock)
	m.Get("/out-of-stock", deps.Metrics.GetOutOfStock)
	m.Get("/dashboard", deps.Dashboard.GetDashboard)

	// Inventario (escrituras; solo admin y operador)
	inv := api.Group("/inventory", RequireRole("admin", "operador"))
	inv.Post("/adjustments", deps.Inventory.AdjustStock)
	inv.Post("/recheck", deps.Inventory.Recheck)
}
