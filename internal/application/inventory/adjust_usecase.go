// Package inventory contiene el ajuste manual de existencias, el camino de
// escritura que alimenta al pipeline de alertas desde esta API.
package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/internal/domain"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

// reevalTimeout plazo de la reevaluación asíncrona tras un ajuste.
const reevalTimeout = 30 * time.Second

// AdjustInput entrada de un ajuste manual. Deltas con signo sobre existencias
// y reservas; al menos uno debe ser distinto de cero.
type AdjustInput struct {
	VariantID     string
	StockDelta    int
	ReservedDelta int
}

// AdjustStockUseCase aplica ajustes manuales de stock de forma transaccional
// (bloqueo de fila + Commit/Rollback) y dispara la reevaluación de alertas de
// la variante de forma asíncrona: el pipeline de alertas no tiene contrato de
// latencia frente al ajuste que lo provoca.
type AdjustStockUseCase struct {
	txRunner alerts.TxRunner
	alertsUC *alerts.UseCase
	log      *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner alerts.TxRunner, alertsUC *alerts.UseCase, log *logger.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, alertsUC: alertsUC, log: log}
}

// Adjust valida y aplica el ajuste; devuelve la variante actualizada.
// Cantidades resultantes negativas rechazan el ajuste completo.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Variant, error) {
	if in.VariantID == "" || (in.StockDelta == 0 && in.ReservedDelta == 0) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Variant
	err := uc.txRunner.Run(ctx, func(variants repository.VariantRepository) error {
		v, err := variants.GetForUpdate(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}

		v.Stock += in.StockDelta
		v.Reserved += in.ReservedDelta
		if v.Stock < 0 || v.Reserved < 0 {
			return domain.ErrInvalidInput
		}
		if err := variants.UpdateQuantities(ctx, v.ID, v.Stock, v.Reserved); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reevalTimeout)
		defer cancel()
		if err := uc.alertsUC.Reevaluate(ctx, []string{in.VariantID}); err != nil {
			uc.log.Error().Err(err).Str("variant_id", in.VariantID).Msg("reevaluación de alertas tras ajuste")
		}
	}()

	return updated, nil
}
