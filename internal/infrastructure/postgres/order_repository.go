package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	"github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo consultas de solo lectura sobre el almacén de pedidos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_name, customer_email, status, total, currency, created_at, paid_at`

// appendFilters añade las condiciones de estado y rango sobre created_at.
// Un extremo nil del rango no acota; statuses vacío no filtra por estado.
func appendFilters(query string, args []any, statuses []string, r metrics.DateRange) (string, []any) {
	if len(statuses) > 0 {
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if r.Start != nil {
		args = append(args, *r.Start)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if r.End != nil {
		args = append(args, *r.End)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return query, args
}

// FindByStatus devuelve los pedidos del rango sin líneas, ascendente por fecha.
func (r *OrderRepo) FindByStatus(ctx context.Context, statuses []string, dr metrics.DateRange) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE TRUE`
	var args []any
	query, args = appendFilters(query, args, statuses, dr)
	query += ` ORDER BY created_at ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders.FindByStatus: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status,
			&o.Total, &o.Currency, &o.CreatedAt, &o.PaidAt,
		); err != nil {
			return nil, fmt.Errorf("orders.FindByStatus scan: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// FindRecent devuelve los pedidos más recientes del rango, hasta limit.
func (r *OrderRepo) FindRecent(ctx context.Context, statuses []string, dr metrics.DateRange, limit int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE TRUE`
	var args []any
	query, args = appendFilters(query, args, statuses, dr)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders.FindRecent: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status,
			&o.Total, &o.Currency, &o.CreatedAt, &o.PaidAt,
		); err != nil {
			return nil, fmt.Errorf("orders.FindRecent scan: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// CountByStatus tally de pedidos por estado dentro del rango.
func (r *OrderRepo) CountByStatus(ctx context.Context, statuses []string, dr metrics.DateRange) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM orders WHERE TRUE`
	var args []any
	query, args = appendFilters(query, args, statuses, dr)
	query += ` GROUP BY status`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("orders.CountByStatus scan: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// SalesByVariant explota las líneas de los pedidos pagados del rango y agrupa
// ingreso y unidades por (producto, variante), descendente por ingreso.
func (r *OrderRepo) SalesByVariant(ctx context.Context, dr metrics.DateRange) ([]repository.VariantSalesRow, error) {
	query := `
	SELECT
	    i.product_id,
	    i.product_name,
	    i.variant_id,
	    i.variant_name,
	    SUM(i.quantity)  AS quantity,
	    SUM(i.subtotal)  AS revenue
	FROM order_items i
	JOIN orders o ON o.id = i.order_id
	WHERE o.status = 'paid'`
	var args []any
	if dr.Start != nil {
		args = append(args, *dr.Start)
		query += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if dr.End != nil {
		args = append(args, *dr.End)
		query += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}
	query += `
	GROUP BY i.product_id, i.product_name, i.variant_id, i.variant_name
	ORDER BY revenue DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders.SalesByVariant: %w", err)
	}
	defer rows.Close()

	var results []repository.VariantSalesRow
	for rows.Next() {
		var row repository.VariantSalesRow
		if err := rows.Scan(
			&row.ProductID, &row.ProductName, &row.VariantID, &row.VariantName,
			&row.Quantity, &row.Revenue,
		); err != nil {
			return nil, fmt.Errorf("orders.SalesByVariant scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
