package repository

import (
	"context"

	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
)

// VariantRepository puerto sobre el almacén de variantes (SKUs), incluidos
// los campos de alerta embebidos. GetForUpdate y las escrituras se usan
// dentro de transacciones para serializar la evaluación por variante.
type VariantRepository interface {
	// FindActive devuelve todas las variantes activas con sus cantidades crudas.
	FindActive(ctx context.Context) ([]*entity.Variant, error)

	// GetForUpdate obtiene una variante bloqueando su fila (SELECT FOR UPDATE).
	// Devuelve nil sin error si no existe. Solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Variant, error)

	// UpdateAlertRecord persiste el estado de alerta embebido de la variante.
	UpdateAlertRecord(ctx context.Context, id string, rec entity.AlertRecord) error

	// UpdateQuantities persiste existencias y reservas tras un ajuste manual.
	UpdateQuantities(ctx context.Context, id string, stockQty, reserved int) error
}
