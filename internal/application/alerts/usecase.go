// Package alerts implementa la máquina de estados de alertas de inventario:
// clasifica cada variante, detecta transiciones (ok/low/out) y dispara como
// máximo una ráfaga de notificación por transición (histéresis).
package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tu-usuario/tienda-ops/internal/domain"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
	"github.com/tu-usuario/tienda-ops/internal/domain/stock"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

// UseCase evalúa lotes de variantes y gestiona el estado de alerta embebido.
// Secuencia por variante: leer con bloqueo de fila, clasificar, decidir,
// notificar (mejor esfuerzo) y persistir, todo dentro de una transacción.
type UseCase struct {
	txRunner   TxRunner
	recipients repository.RecipientDirectory
	notifier   Notifier
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. now se inyecta para tests.
func NewUseCase(
	txRunner TxRunner,
	recipients repository.RecipientDirectory,
	notifier Notifier,
	log *logger.Logger,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{txRunner: txRunner, recipients: recipients, notifier: notifier, log: log, now: now}
}

// Reevaluate reevalúa un lote de variantes (nunca el catálogo completo).
// Los destinatarios elegibles se resuelven una sola vez por lote; si ninguna
// de las dos clases de alerta tiene destinatarios, el lote se corta sin tocar
// las variantes. Con destinatarios en una sola clase, las transiciones hacia
// la otra siguen avanzando el estado en silencio.
// Un fallo en una variante no corta el lote: se registra, se sigue con las
// demás y los errores acumulados se devuelven juntos al final.
func (uc *UseCase) Reevaluate(ctx context.Context, variantIDs []string) error {
	if len(variantIDs) == 0 {
		return nil
	}

	lowRcpts, err := uc.recipients.Recipients(ctx, repository.AlertLowStock)
	if err != nil {
		return fmt.Errorf("alerts: destinatarios de stock bajo: %w", err)
	}
	outRcpts, err := uc.recipients.Recipients(ctx, repository.AlertOutOfStock)
	if err != nil {
		return fmt.Errorf("alerts: destinatarios de agotados: %w", err)
	}
	if len(lowRcpts) == 0 && len(outRcpts) == 0 {
		return nil
	}

	var errs []error
	for _, id := range variantIDs {
		if err := uc.reevaluateOne(ctx, id, lowRcpts, outRcpts); err != nil {
			uc.log.Error().Err(err).Str("variant_id", id).Msg("reevaluación de variante falló")
			errs = append(errs, fmt.Errorf("alerts: variante %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// reevaluateOne procesa una variante dentro de su propia transacción. El
// SELECT FOR UPDATE garantiza una sola evaluación en vuelo por variante;
// variantes distintas se evalúan sin ordenarse entre sí.
func (uc *UseCase) reevaluateOne(ctx context.Context, id string, lowRcpts, outRcpts []string) error {
	return uc.txRunner.Run(ctx, func(variants repository.VariantRepository) error {
		v, err := variants.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}

		available, next := stock.Classify(v.Stock, v.Reserved, v.LowStockThreshold)
		prev := v.Alert.State
		if prev == "" {
			prev = stock.StateOK
		}
		if next == prev {
			// Histéresis: sin transición no hay notificación ni escritura.
			return nil
		}

		var rcpts []string
		var template string
		switch next {
		case stock.StateLow:
			rcpts, template = lowRcpts, TemplateLowStock
		case stock.StateOut:
			rcpts, template = outRcpts, TemplateOutOfStock
		case stock.StateOK:
			// Recuperación silenciosa: se avanza el estado sin notificar.
		}

		rec := v.Alert
		rec.State = next

		if len(rcpts) > 0 {
			params := map[string]any{
				"product_name": v.ProductName,
				"variant_name": v.Name,
				"available":    available,
				"threshold":    v.LowStockThreshold,
			}
			// Mejor esfuerzo: un fallo de envío se registra pero el estado
			// avanza igual, para no repetir la ráfaga en cada recomputación.
			// La marca de última notificación solo se escribe si el envío
			// salió; un envío fallido no cuenta como notificado.
			if err := uc.notifier.Dispatch(ctx, rcpts, template, params); err != nil {
				uc.log.Error().Err(err).
					Str("variant_id", v.ID).
					Str("template", template).
					Int("recipients", len(rcpts)).
					Msg("fallo al despachar notificación de stock")
			} else {
				sentAt := uc.now()
				switch next {
				case stock.StateLow:
					rec.LowNotifiedAt = &sentAt
				case stock.StateOut:
					rec.OutNotifiedAt = &sentAt
				}
			}
		}

		return variants.UpdateAlertRecord(ctx, v.ID, rec)
	})
}
