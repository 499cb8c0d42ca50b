// Package metrics contiene los casos de uso del motor de métricas
// operacionales: serie de ingresos, snapshots y el sobre del dashboard.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	"github.com/tu-usuario/tienda-ops/internal/domain"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	dommetrics "github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

// Límites del overview de N días.
const (
	overviewMinDays     = 7
	overviewMaxDays     = 90
	overviewDefaultDays = 30
)

// TimeSeriesUseCase produce la serie de ingresos por granularidad y el
// overview diario de N días sin huecos. Recalcula siempre desde los pedidos;
// no persiste nada. now se inyecta para poder congelar el reloj en tests.
type TimeSeriesUseCase struct {
	orderRepo repository.OrderRepository
	loc       *time.Location
	now       func() time.Time
}

// NewTimeSeriesUseCase construye el caso de uso.
func NewTimeSeriesUseCase(orderRepo repository.OrderRepository, loc *time.Location, now func() time.Time) *TimeSeriesUseCase {
	if now == nil {
		now = time.Now
	}
	return &TimeSeriesUseCase{orderRepo: orderRepo, loc: loc, now: now}
}

// RevenueSeries agrupa los pedidos pagados del rango por la granularidad
// pedida. Las cubetas salen en orden cronológico ascendente; los períodos sin
// ventas no aparecen (serie dispersa, el overview es quien rellena huecos).
func (uc *TimeSeriesUseCase) RevenueSeries(ctx context.Context, req dto.RevenueSeriesRequest) ([]dto.MetricBucketDTO, error) {
	g, err := dommetrics.ParseGranularity(req.Interval)
	if err != nil {
		return nil, err
	}
	r, err := dommetrics.ResolveRange(req.Range, req.From, req.To, uc.now(), uc.loc)
	if err != nil {
		return nil, err
	}
	return uc.seriesFor(ctx, r, g)
}

// seriesFor agrega la serie sobre un rango y granularidad ya resueltos; el
// compositor del dashboard entra por aquí para compartir la resolución.
func (uc *TimeSeriesUseCase) seriesFor(ctx context.Context, r dommetrics.DateRange, g dommetrics.Granularity) ([]dto.MetricBucketDTO, error) {
	orders, err := uc.orderRepo.FindByStatus(ctx, []string{entity.OrderStatusPaid}, r)
	if err != nil {
		return nil, fmt.Errorf("serie de ingresos: %w", err)
	}

	type agg struct {
		revenue decimal.Decimal
		count   int
	}
	buckets := make(map[dommetrics.BucketKey]*agg)
	for _, o := range orders {
		key := dommetrics.KeyFor(o.CreatedAt, g, uc.loc)
		b, ok := buckets[key]
		if !ok {
			b = &agg{}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(o.Total)
		b.count++
	}

	keys := make([]dommetrics.BucketKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	series := make([]dto.MetricBucketDTO, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, dto.MetricBucketDTO{
			Label:      k.Label(),
			Revenue:    b.revenue.Round(2),
			OrderCount: b.count,
		})
	}
	return series, nil
}

// RevenueOverview produce exactamente N cubetas diarias contiguas terminando
// hoy en la zona pedida; los días sin ventas salen con ingreso y conteo cero.
// Los gráficos del dashboard tienen ancho fijo y no toleran puntos ausentes.
func (uc *TimeSeriesUseCase) RevenueOverview(ctx context.Context, req dto.RevenueOverviewRequest) ([]dto.OverviewBucketDTO, error) {
	days := req.Days
	if days == 0 {
		days = overviewDefaultDays
	}
	if days < overviewMinDays {
		days = overviewMinDays
	}
	if days > overviewMaxDays {
		days = overviewMaxDays
	}

	loc := uc.loc
	if req.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(req.Timezone)
		if err != nil {
			return nil, fmt.Errorf("tz %q: %w", req.Timezone, domain.ErrInvalidParameter)
		}
	}

	now := uc.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(days - 1))
	end := today.Add(24*time.Hour - time.Millisecond)
	r := dommetrics.DateRange{Start: &start, End: &end}

	orders, err := uc.orderRepo.FindByStatus(ctx, []string{entity.OrderStatusPaid}, r)
	if err != nil {
		return nil, fmt.Errorf("overview de ingresos: %w", err)
	}

	type agg struct {
		revenue decimal.Decimal
		count   int
	}
	byDate := make(map[string]*agg, days)
	for _, o := range orders {
		date := o.CreatedAt.In(loc).Format("2006-01-02")
		b, ok := byDate[date]
		if !ok {
			b = &agg{}
			byDate[date] = b
		}
		b.revenue = b.revenue.Add(o.Total)
		b.count++
	}

	todayLabel := today.Format("2006-01-02")
	series := make([]dto.OverviewBucketDTO, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		bucket := dto.OverviewBucketDTO{
			Date:    date,
			Revenue: decimal.Zero,
			IsToday: date == todayLabel,
		}
		if b, ok := byDate[date]; ok {
			bucket.Revenue = b.revenue.Round(2)
			bucket.OrderCount = b.count
		}
		series = append(series, bucket)
	}
	return series, nil
}
