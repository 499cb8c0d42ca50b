package metrics

import (
	"fmt"
	"time"

	"github.com/tu-usuario/tienda-ops/internal/domain"
)

// Granularity granularidad de agrupación de la serie de ingresos.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity valida el parámetro interval. Vacío equivale a "day".
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "":
		return GranularityDay, nil
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("interval %q: %w", s, domain.ErrInvalidParameter)
	}
}

// BucketKey clave tipada de agrupación cronológica. Para week, Year es el
// año ISO de la semana (una semana que cruza el cambio de año se atribuye
// completa a su semana ISO, no se parte en dos cubetas).
type BucketKey struct {
	Granularity Granularity
	Year        int
	Month       int
	Day         int
	Week        int
}

// KeyFor construye la clave de cubeta para un instante en la zona dada.
func KeyFor(t time.Time, g Granularity, loc *time.Location) BucketKey {
	t = t.In(loc)
	switch g {
	case GranularityWeek:
		isoYear, isoWeek := t.ISOWeek()
		return BucketKey{Granularity: g, Year: isoYear, Week: isoWeek}
	case GranularityMonth:
		return BucketKey{Granularity: g, Year: t.Year(), Month: int(t.Month())}
	case GranularityYear:
		return BucketKey{Granularity: g, Year: t.Year()}
	default:
		return BucketKey{Granularity: GranularityDay, Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	}
}

// Before comparador cronológico explícito, independiente del motor de consultas.
func (k BucketKey) Before(other BucketKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Week != other.Week {
		return k.Week < other.Week
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// Label etiqueta estable de la cubeta: "2024-03-15", "2025-W01", "2024-03" o "2024".
func (k BucketKey) Label() string {
	switch k.Granularity {
	case GranularityWeek:
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
	case GranularityMonth:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
	case GranularityYear:
		return fmt.Sprintf("%04d", k.Year)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
	}
}
