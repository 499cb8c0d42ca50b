package repository

import "context"

// AlertClass clase de notificación para la que un usuario puede optar.
type AlertClass string

const (
	AlertLowStock   AlertClass = "low-stock"
	AlertOutOfStock AlertClass = "out-of-stock"
	AlertNewOrder   AlertClass = "new-order"
)

// RecipientDirectory resuelve las direcciones actualmente elegibles para una
// clase de alerta. La gestión de usuarios y preferencias vive fuera del motor.
type RecipientDirectory interface {
	Recipients(ctx context.Context, class AlertClass) ([]string, error)
}
