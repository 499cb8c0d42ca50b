package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

var _ repository.RecipientDirectory = (*RecipientRepo)(nil)

// RecipientRepo directorio de destinatarios sobre la tabla users: devuelve
// los correos de usuarios activos con la preferencia de alerta marcada.
type RecipientRepo struct {
	q Querier
}

// NewRecipientRepository construye el adaptador.
func NewRecipientRepository(q Querier) *RecipientRepo {
	return &RecipientRepo{q: q}
}

// Recipients devuelve las direcciones elegibles para la clase de alerta.
func (r *RecipientRepo) Recipients(ctx context.Context, class repository.AlertClass) ([]string, error) {
	// La columna sale de un switch cerrado, nunca de entrada del cliente.
	var column string
	switch class {
	case repository.AlertLowStock:
		column = "notify_low_stock"
	case repository.AlertOutOfStock:
		column = "notify_out_of_stock"
	case repository.AlertNewOrder:
		column = "notify_new_order"
	default:
		return nil, fmt.Errorf("recipients: clase de alerta desconocida %q", class)
	}

	query := `SELECT email FROM users WHERE active AND ` + column
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("recipients.%s: %w", class, err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("recipients.%s scan: %w", class, err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
