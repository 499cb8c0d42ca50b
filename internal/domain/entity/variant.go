package entity

import (
	"time"

	"github.com/tu-usuario/tienda-ops/internal/domain/stock"
)

// Estados de ciclo de vida de una variante.
const (
	VariantStatusActive   = "active"
	VariantStatusInactive = "inactive"
)

// AlertRecord estado de alerta embebido en la variante. Es el único estado
// mutable del motor de métricas/alertas; se escribe exactamente una vez por
// transición observada (lectura-clasificación-escritura atómica).
type AlertRecord struct {
	State         stock.State // última clasificación observada (ok|low|out)
	LowNotifiedAt *time.Time  // última notificación de stock bajo enviada
	OutNotifiedAt *time.Time  // última notificación de agotado enviada
}

// Variant unidad de inventario (SKU) de un producto. Stock y Reserved son las
// cantidades crudas; el disponible se deriva siempre con stock.Classify.
type Variant struct {
	ID                string
	ProductID         string
	ProductName       string
	Name              string
	Status            string
	Stock             int
	Reserved          int
	LowStockThreshold int
	Alert             AlertRecord
	UpdatedAt         time.Time
}
