// Package metrics contiene las piezas puras del motor de métricas: la
// resolución de rangos de fechas y las claves tipadas de agrupación temporal.
package metrics

import (
	"fmt"
	"time"

	"github.com/tu-usuario/tienda-ops/internal/domain"
)

// Rangos simbólicos aceptados por los endpoints de métricas.
const (
	RangeAll       = "all"
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeLast7     = "last7"
	RangeLast30    = "last30"
	RangeThisMonth = "thisMonth"
	RangeLastMonth = "lastMonth"
	RangeThisYear  = "thisYear"
	RangeLastYear  = "lastYear"
)

// dateLayout formato de fechas explícitas en query params.
const dateLayout = "2006-01-02"

// DateRange intervalo resuelto. Un extremo nil significa "sin límite";
// ambos nil significa todo el histórico.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ResolveRange convierte un rango simbólico o un par from/to explícito en un
// intervalo de instantes anclado a medianoche local. Las fechas explícitas
// tienen precedencia sobre el rango simbólico si ambos llegan en la petición.
// Start siempre queda en 00:00:00.000 y End en 23:59:59.999 de su día.
// Un rango simbólico desconocido o una fecha no parseable devuelven
// domain.ErrInvalidRange; nunca se degrada en silencio a "todo el histórico".
func ResolveRange(keyword, fromStr, toStr string, now time.Time, loc *time.Location) (DateRange, error) {
	if fromStr != "" || toStr != "" {
		return resolveExplicit(fromStr, toStr, loc)
	}

	now = now.In(loc)
	today := dayStart(now)

	switch keyword {
	case "", RangeAll:
		return DateRange{}, nil
	case RangeToday:
		return closed(today, dayEnd(today)), nil
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return closed(y, dayEnd(y)), nil
	case RangeLast7:
		// Ventana rodante inclusiva: 7 días calendario contando hoy.
		return closed(today.AddDate(0, 0, -6), dayEnd(today)), nil
	case RangeLast30:
		return closed(today.AddDate(0, 0, -29), dayEnd(today)), nil
	case RangeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return closed(start, dayEnd(today)), nil
	case RangeLastMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start := firstOfThis.AddDate(0, -1, 0)
		return closed(start, dayEnd(firstOfThis.AddDate(0, 0, -1))), nil
	case RangeThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return closed(start, dayEnd(today)), nil
	case RangeLastYear:
		start := time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(now.Year()-1, 12, 31, 0, 0, 0, 0, loc)
		return closed(start, dayEnd(end)), nil
	default:
		return DateRange{}, fmt.Errorf("rango simbólico %q: %w", keyword, domain.ErrInvalidRange)
	}
}

// resolveExplicit parsea el par from/to. Cada extremo es opcional por separado;
// una fecha malformada o from posterior a to invalidan el rango completo.
func resolveExplicit(fromStr, toStr string, loc *time.Location) (DateRange, error) {
	var r DateRange

	if fromStr != "" {
		from, err := time.ParseInLocation(dateLayout, fromStr, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("from %q: %w", fromStr, domain.ErrInvalidRange)
		}
		start := dayStart(from)
		r.Start = &start
	}
	if toStr != "" {
		to, err := time.ParseInLocation(dateLayout, toStr, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("to %q: %w", toStr, domain.ErrInvalidRange)
		}
		end := dayEnd(to)
		r.End = &end
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return DateRange{}, fmt.Errorf("from posterior a to: %w", domain.ErrInvalidRange)
	}
	return r, nil
}

func closed(start, end time.Time) DateRange {
	return DateRange{Start: &start, End: &end}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayEnd fin del día con precisión de milisegundos (23:59:59.999).
func dayEnd(t time.Time) time.Time {
	return dayStart(t).Add(24*time.Hour - time.Millisecond)
}
