package alerts

import (
	"context"

	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

// Plantillas soportadas por el canal de notificaciones externo.
const (
	TemplateLowStock   = "low-stock-alert"
	TemplateOutOfStock = "out-of-stock-alert"
)

// Notifier canal de notificaciones opaco: el motor no sabe ni le importa cómo
// se renderiza o transporta el mensaje. Un solo despacho cubre a todos los
// destinatarios de la transición.
type Notifier interface {
	Dispatch(ctx context.Context, recipients []string, template string, params map[string]any) error
}

// TxRunner ejecuta fn dentro de una transacción de BD con el repositorio de
// variantes atado a esa tx. El bloqueo de fila dentro de la tx serializa las
// evaluaciones concurrentes de una misma variante.
type TxRunner interface {
	Run(ctx context.Context, fn func(variants repository.VariantRepository) error) error
}
