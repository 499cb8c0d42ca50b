// Package mail implementa el canal de notificaciones sobre SMTP con gomail.
package mail

import (
	"context"
	"fmt"

	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/pkg/config"
	gomail "gopkg.in/gomail.v2"
)

var _ alerts.Notifier = (*Notifier)(nil)

// Notifier canal SMTP. Cada despacho es un solo mensaje con todos los
// destinatarios en copia, para no presionar los límites de envío del
// proveedor con un correo por destinatario.
type Notifier struct {
	dialer *gomail.Dialer
	from   string
}

// New construye el notificador con la configuración SMTP.
func New(cfg config.SMTPConfig) *Notifier {
	return &Notifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Dispatch envía la notificación a todos los destinatarios en un solo mensaje.
// Sin destinatarios es un no-op. gomail no acepta context, así que solo se
// respeta la cancelación previa al envío.
func (n *Notifier) Dispatch(ctx context.Context, recipients []string, template string, params map[string]any) error {
	if len(recipients) == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subjectFor(template, params))
	m.SetBody("text/html", bodyFor(template, params))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func subjectFor(template string, params map[string]any) string {
	product := fmt.Sprint(params["product_name"])
	variant := fmt.Sprint(params["variant_name"])
	switch template {
	case alerts.TemplateOutOfStock:
		return fmt.Sprintf("Producto agotado: %s (%s)", product, variant)
	case alerts.TemplateLowStock:
		return fmt.Sprintf("Stock bajo: %s (%s)", product, variant)
	default:
		return fmt.Sprintf("Notificación: %s", template)
	}
}

func bodyFor(template string, params map[string]any) string {
	switch template {
	case alerts.TemplateOutOfStock:
		return fmt.Sprintf(
			"<p>La variante <b>%v</b> de <b>%v</b> está agotada (disponible: %v).</p>",
			params["variant_name"], params["product_name"], params["available"],
		)
	case alerts.TemplateLowStock:
		return fmt.Sprintf(
			"<p>La variante <b>%v</b> de <b>%v</b> está por debajo del umbral: disponible %v, umbral %v.</p>",
			params["variant_name"], params["product_name"], params["available"], params["threshold"],
		)
	default:
		return fmt.Sprintf("<p>%v</p>", params)
	}
}
