package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido. Las transiciones las ejecuta el
// flujo externo de pago/reembolso; para métricas los pedidos son de solo lectura.
const (
	OrderStatusPending       = "pending"
	OrderStatusPaid          = "paid"
	OrderStatusFailed        = "failed"
	OrderStatusCancelled     = "cancelled"
	OrderStatusRefundPending = "refund_pending"
	OrderStatusRefunded      = "refunded"
	OrderStatusRefundFailed  = "refund_failed"
)

// CountableStatuses estados que cuentan para métricas de volumen y conteo por estado.
// Solo los pedidos "paid" suman además al ingreso.
func CountableStatuses() []string {
	return []string{OrderStatusPaid, OrderStatusRefundPending, OrderStatusRefunded}
}

// statusLabels etiquetas legibles por estado.
var statusLabels = map[string]string{
	OrderStatusPending:       "Pendiente",
	OrderStatusPaid:          "Pagado",
	OrderStatusFailed:        "Fallido",
	OrderStatusCancelled:     "Cancelado",
	OrderStatusRefundPending: "Reembolso pendiente",
	OrderStatusRefunded:      "Reembolsado",
	OrderStatusRefundFailed:  "Reembolso fallido",
}

// StatusLabel devuelve la etiqueta legible del estado; el estado crudo si no se conoce.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// OrderItem línea de un pedido. Nombres denormalizados al momento de la compra.
type OrderItem struct {
	ProductID   string
	ProductName string
	VariantID   string
	VariantName string
	Quantity    int
	Subtotal    decimal.Decimal
}

// Order pedido del cliente. Inmutable una vez pagado salvo transiciones de estado.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Status        string
	Total         decimal.Decimal
	Currency      string
	Items         []OrderItem
	CreatedAt     time.Time
	PaidAt        *time.Time
}

// IsRevenue indica si el pedido suma al ingreso (solo pagados).
func (o *Order) IsRevenue() bool {
	return o.Status == OrderStatusPaid
}
