package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	"github.com/tu-usuario/tienda-ops/internal/domain/metrics"
)

// VariantSalesRow fila cruda de ventas por (producto, variante) de pedidos pagados.
// La produce la DB; el use case la anida por producto y la trunca.
type VariantSalesRow struct {
	ProductID   string
	ProductName string
	VariantID   string
	VariantName string
	Quantity    int64
	Revenue     decimal.Decimal
}

// OrderRepository puerto de solo lectura sobre el almacén de pedidos.
type OrderRepository interface {
	// FindByStatus devuelve los pedidos (sin líneas) cuyo estado esté en
	// statuses y cuya fecha de creación caiga dentro del rango. statuses
	// vacío no filtra por estado; un extremo nil del rango no acota.
	FindByStatus(ctx context.Context, statuses []string, r metrics.DateRange) ([]*entity.Order, error)

	// FindRecent devuelve los pedidos más recientes del rango, descendente
	// por fecha de creación, hasta limit.
	FindRecent(ctx context.Context, statuses []string, r metrics.DateRange, limit int) ([]*entity.Order, error)

	// CountByStatus tally de pedidos por estado dentro del rango.
	CountByStatus(ctx context.Context, statuses []string, r metrics.DateRange) (map[string]int, error)

	// SalesByVariant explota las líneas de los pedidos pagados del rango y
	// agrupa ingreso y unidades por (producto, variante), descendente por ingreso.
	SalesByVariant(ctx context.Context, r metrics.DateRange) ([]VariantSalesRow, error)
}
