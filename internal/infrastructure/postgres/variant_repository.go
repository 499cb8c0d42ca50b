package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo adaptador del almacén de variantes (usable con pool o tx).
// Los campos de alerta viven embebidos en la misma fila de la variante.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

const variantColumns = `id, product_id, product_name, name, status, stock, reserved,
	low_stock_threshold, alert_state, low_notified_at, out_notified_at, updated_at`

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.ProductName, &v.Name, &v.Status,
		&v.Stock, &v.Reserved, &v.LowStockThreshold,
		&v.Alert.State, &v.Alert.LowNotifiedAt, &v.Alert.OutNotifiedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindActive devuelve todas las variantes activas.
func (r *VariantRepo) FindActive(ctx context.Context) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE status = 'active'`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("variants.FindActive: %w", err)
	}
	defer rows.Close()

	var variants []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("variants.FindActive scan: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// GetForUpdate obtiene la variante bloqueando su fila (SELECT FOR UPDATE).
// Devuelve nil sin error si no existe.
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1 FOR UPDATE`
	v, err := scanVariant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("variants.GetForUpdate: %w", err)
	}
	return v, nil
}

// UpdateAlertRecord persiste el estado de alerta embebido.
func (r *VariantRepo) UpdateAlertRecord(ctx context.Context, id string, rec entity.AlertRecord) error {
	_, err := r.q.Exec(ctx, `
		UPDATE variants
		SET alert_state = $2, low_notified_at = $3, out_notified_at = $4, updated_at = now()
		WHERE id = $1`,
		id, rec.State, rec.LowNotifiedAt, rec.OutNotifiedAt,
	)
	if err != nil {
		return fmt.Errorf("variants.UpdateAlertRecord: %w", err)
	}
	return nil
}

// UpdateQuantities persiste existencias y reservas tras un ajuste.
func (r *VariantRepo) UpdateQuantities(ctx context.Context, id string, stockQty, reserved int) error {
	_, err := r.q.Exec(ctx, `
		UPDATE variants
		SET stock = $2, reserved = $3, updated_at = now()
		WHERE id = $1`,
		id, stockQty, reserved,
	)
	if err != nil {
		return fmt.Errorf("variants.UpdateQuantities: %w", err)
	}
	return nil
}
