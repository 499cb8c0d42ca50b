// Package stock contiene la clasificación de disponibilidad de variantes.
// Es la única fuente de verdad para el cálculo de "disponible": los listados
// de stock bajo/agotado y el pipeline de alertas usan exactamente esta función.
package stock

// State clasificación de disponibilidad de una variante.
type State string

const (
	StateOK  State = "ok"
	StateLow State = "low"
	StateOut State = "out"
)

// Available stock disponible: existencias menos reservas.
// Es una cantidad derivada; nunca se persiste ni se cachea.
func Available(stockQty, reserved int) int {
	return stockQty - reserved
}

// Classify calcula el disponible y lo clasifica según el umbral de la variante:
//   - out: disponible <= 0
//   - low: umbral > 0 y disponible <= umbral
//   - ok:  en cualquier otro caso
func Classify(stockQty, reserved, threshold int) (available int, state State) {
	available = Available(stockQty, reserved)
	switch {
	case available <= 0:
		state = StateOut
	case threshold > 0 && available <= threshold:
		state = StateLow
	default:
		state = StateOK
	}
	return available, state
}
