package metrics

import (
	"context"

	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	dommetrics "github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

// Nombres de las secciones del sobre del dashboard.
const (
	sectionSummary      = "summary"
	sectionRevenue      = "revenue"
	sectionTopProducts  = "top_products"
	sectionRecentOrders = "recent_orders"
	sectionLowStock     = "low_stock"
	sectionOutOfStock   = "out_of_stock"
)

// sectionResult resultado etiquetado de una sub-consulta: o aplica sus datos
// al sobre, o lleva el error que la hizo fallar. Nunca ambos.
type sectionResult struct {
	section string
	apply   func(env *dto.DashboardDTO)
	err     error
}

// DashboardUseCase compone el sobre del dashboard lanzando las seis
// sub-consultas en paralelo contra el mismo rango resuelto. Un fallo en una
// sub-consulta se aísla en su sección; las demás se devuelven intactas.
// Las lecturas concurrentes pueden ver un sesgo mínimo entre sí (un pedido
// pagado entre dos de ellas); es una inconsistencia aceptada, no un bug.
type DashboardUseCase struct {
	series    *TimeSeriesUseCase
	snapshots *SnapshotUseCase
	log       *logger.Logger
}

// NewDashboardUseCase construye el compositor.
func NewDashboardUseCase(series *TimeSeriesUseCase, snapshots *SnapshotUseCase, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{series: series, snapshots: snapshots, log: log}
}

// Compose resuelve rango e intervalo exactamente una vez y lanza las seis
// sub-consultas sobre ese mismo intervalo resuelto: cerca de la medianoche,
// re-resolver por sección produciría secciones de días distintos.
// Rango o intervalo inválidos abortan la petición completa antes de consultar.
func (uc *DashboardUseCase) Compose(ctx context.Context, req dto.DashboardRequest) (*dto.DashboardDTO, error) {
	r, err := dommetrics.ResolveRange(req.Range, req.From, req.To, uc.series.now(), uc.series.loc)
	if err != nil {
		return nil, err
	}
	g, err := dommetrics.ParseGranularity(req.Interval)
	if err != nil {
		return nil, err
	}

	ch := make(chan sectionResult, 6)

	go func() {
		s, err := uc.snapshots.summaryFor(ctx, r)
		ch <- sectionResult{sectionSummary, func(env *dto.DashboardDTO) { env.Summary = s }, err}
	}()
	go func() {
		series, err := uc.series.seriesFor(ctx, r, g)
		ch <- sectionResult{sectionRevenue, func(env *dto.DashboardDTO) { env.Revenue = series }, err}
	}()
	go func() {
		top, err := uc.snapshots.topProductsFor(ctx, r, req.Limit)
		ch <- sectionResult{sectionTopProducts, func(env *dto.DashboardDTO) { env.TopProducts = top }, err}
	}()
	go func() {
		recent, err := uc.snapshots.recentOrdersFor(ctx, r, req.Limit)
		ch <- sectionResult{sectionRecentOrders, func(env *dto.DashboardDTO) { env.RecentOrders = recent }, err}
	}()
	go func() {
		low, err := uc.snapshots.LowStock(ctx, dto.StockListingRequest{})
		ch <- sectionResult{sectionLowStock, func(env *dto.DashboardDTO) { env.LowStock = low }, err}
	}()
	go func() {
		out, err := uc.snapshots.OutOfStock(ctx, dto.StockListingRequest{})
		ch <- sectionResult{sectionOutOfStock, func(env *dto.DashboardDTO) { env.OutOfStock = out }, err}
	}()

	env := &dto.DashboardDTO{}
	for i := 0; i < 6; i++ {
		res := <-ch
		if res.err != nil {
			if env.Errors == nil {
				env.Errors = make(map[string]string)
			}
			env.Errors[res.section] = res.err.Error()
			uc.log.Error().Err(res.err).Str("section", res.section).Msg("sub-consulta del dashboard falló")
			continue
		}
		res.apply(env)
	}
	env.Partial = len(env.Errors) > 0
	return env, nil
}
