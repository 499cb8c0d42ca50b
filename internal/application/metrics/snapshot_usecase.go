package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	dommetrics "github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
	"github.com/tu-usuario/tienda-ops/internal/domain/stock"
)

// Límites y defaults de los snapshots.
const (
	maxListLimit        = 25 // top products y recent orders
	defaultTopProducts  = 5
	defaultRecentOrders = 10
	maxStockLimit       = 200 // listados de stock bajo/agotado
	defaultStockLimit   = 50
)

// SnapshotUseCase consultas puntuales de solo lectura del dashboard:
// resumen, conteo por estado, top de productos, pedidos recientes y
// listados de stock bajo/agotado. Todas son independientes entre sí.
type SnapshotUseCase struct {
	orderRepo   repository.OrderRepository
	variantRepo repository.VariantRepository
	loc         *time.Location
	now         func() time.Time
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(
	orderRepo repository.OrderRepository,
	variantRepo repository.VariantRepository,
	loc *time.Location,
	now func() time.Time,
) *SnapshotUseCase {
	if now == nil {
		now = time.Now
	}
	return &SnapshotUseCase{orderRepo: orderRepo, variantRepo: variantRepo, loc: loc, now: now}
}

func (uc *SnapshotUseCase) resolve(req dto.RangeRequest) (dommetrics.DateRange, error) {
	return dommetrics.ResolveRange(req.Range, req.From, req.To, uc.now(), uc.loc)
}

// StatusCounts tally de pedidos contables por estado, con clave máquina y etiqueta.
// Los estados contables sin pedidos en el rango salen con conteo cero.
func (uc *SnapshotUseCase) StatusCounts(ctx context.Context, req dto.RangeRequest) ([]dto.StatusCountDTO, error) {
	r, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}
	counts, err := uc.orderRepo.CountByStatus(ctx, entity.CountableStatuses(), r)
	if err != nil {
		return nil, fmt.Errorf("conteo por estado: %w", err)
	}

	result := make([]dto.StatusCountDTO, 0, len(entity.CountableStatuses()))
	for _, status := range entity.CountableStatuses() {
		result = append(result, dto.StatusCountDTO{
			Status: status,
			Label:  entity.StatusLabel(status),
			Count:  counts[status],
		})
	}
	return result, nil
}

// Summary resumen del rango: pedidos contables, ingreso pagado y conteos de stock.
func (uc *SnapshotUseCase) Summary(ctx context.Context, req dto.RangeRequest) (*dto.SummaryDTO, error) {
	r, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}
	return uc.summaryFor(ctx, r)
}

// summaryFor calcula el resumen sobre un rango ya resuelto; el compositor del
// dashboard entra por aquí para compartir la resolución entre secciones.
// Una sola lectura de pedidos contables alimenta el conteo por estado y el
// ingreso (solo pedidos con IsRevenue).
func (uc *SnapshotUseCase) summaryFor(ctx context.Context, r dommetrics.DateRange) (*dto.SummaryDTO, error) {
	orders, err := uc.orderRepo.FindByStatus(ctx, entity.CountableStatuses(), r)
	if err != nil {
		return nil, fmt.Errorf("resumen: pedidos contables: %w", err)
	}

	counts := make(map[string]int)
	revenue := decimal.Zero
	for _, o := range orders {
		counts[o.Status]++
		if o.IsRevenue() {
			revenue = revenue.Add(o.Total)
		}
	}

	statusCounts := make([]dto.StatusCountDTO, 0, len(entity.CountableStatuses()))
	for _, status := range entity.CountableStatuses() {
		statusCounts = append(statusCounts, dto.StatusCountDTO{
			Status: status,
			Label:  entity.StatusLabel(status),
			Count:  counts[status],
		})
	}

	// Los conteos de stock ignoran el rango y recorren el catálogo completo:
	// el límite de los listados nunca acota este tally.
	variants, err := uc.variantRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("resumen: variantes activas: %w", err)
	}
	lowCount, outCount := 0, 0
	for _, v := range variants {
		_, state := stock.Classify(v.Stock, v.Reserved, v.LowStockThreshold)
		switch state {
		case stock.StateLow:
			lowCount++
		case stock.StateOut:
			outCount++
		}
	}

	return &dto.SummaryDTO{
		OrderCount:      len(orders),
		Revenue:         revenue.Round(2),
		StatusCounts:    statusCounts,
		LowStockCount:   lowCount,
		OutOfStockCount: outCount,
	}, nil
}

// TopProducts explota las líneas de los pedidos pagados, agrupa por variante,
// vuelve a agrupar por producto y devuelve los `limit` productos con mayor
// ingreso; las variantes de cada producto quedan ordenadas por su propio
// ingreso descendente.
func (uc *SnapshotUseCase) TopProducts(ctx context.Context, req dto.TopProductsRequest) ([]dto.TopProductDTO, error) {
	r, err := uc.resolve(req.RangeRequest)
	if err != nil {
		return nil, err
	}
	return uc.topProductsFor(ctx, r, req.Limit)
}

func (uc *SnapshotUseCase) topProductsFor(ctx context.Context, r dommetrics.DateRange, reqLimit int) ([]dto.TopProductDTO, error) {
	limit := clampLimit(reqLimit, defaultTopProducts, maxListLimit)

	rows, err := uc.orderRepo.SalesByVariant(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("top productos: %w", err)
	}

	byProduct := make(map[string]*dto.TopProductDTO)
	order := make([]string, 0) // primer avistamiento; el orden final es por ingreso
	for _, row := range rows {
		p, ok := byProduct[row.ProductID]
		if !ok {
			p = &dto.TopProductDTO{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Revenue:     decimal.Zero,
			}
			byProduct[row.ProductID] = p
			order = append(order, row.ProductID)
		}
		p.Quantity += row.Quantity
		p.Revenue = p.Revenue.Add(row.Revenue)
		p.Variants = append(p.Variants, dto.TopVariantDTO{
			VariantID:   row.VariantID,
			VariantName: row.VariantName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.Round(2),
		})
	}

	products := make([]dto.TopProductDTO, 0, len(byProduct))
	for _, id := range order {
		p := byProduct[id]
		sort.SliceStable(p.Variants, func(i, j int) bool {
			return p.Variants[i].Revenue.GreaterThan(p.Variants[j].Revenue)
		})
		p.Revenue = p.Revenue.Round(2)
		products = append(products, *p)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Revenue.GreaterThan(products[j].Revenue)
	})

	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// RecentOrders pedidos más recientes del rango con identidad del cliente.
func (uc *SnapshotUseCase) RecentOrders(ctx context.Context, req dto.RecentOrdersRequest) ([]dto.RecentOrderDTO, error) {
	r, err := uc.resolve(req.RangeRequest)
	if err != nil {
		return nil, err
	}
	return uc.recentOrdersFor(ctx, r, req.Limit)
}

func (uc *SnapshotUseCase) recentOrdersFor(ctx context.Context, r dommetrics.DateRange, reqLimit int) ([]dto.RecentOrderDTO, error) {
	limit := clampLimit(reqLimit, defaultRecentOrders, maxListLimit)

	orders, err := uc.orderRepo.FindRecent(ctx, nil, r, limit)
	if err != nil {
		return nil, fmt.Errorf("pedidos recientes: %w", err)
	}

	result := make([]dto.RecentOrderDTO, 0, len(orders))
	for _, o := range orders {
		result = append(result, dto.RecentOrderDTO{
			ID:            o.ID,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Status:        o.Status,
			StatusLabel:   entity.StatusLabel(o.Status),
			Total:         o.Total.Round(2),
			Currency:      o.Currency,
			CreatedAt:     o.CreatedAt,
		})
	}
	return result, nil
}

// LowStock variantes activas con 0 < disponible <= umbral, ascendente por disponible.
func (uc *SnapshotUseCase) LowStock(ctx context.Context, req dto.StockListingRequest) ([]dto.StockListingDTO, error) {
	return uc.stockListing(ctx, req.Limit, stock.StateLow)
}

// OutOfStock variantes activas con disponible <= 0, ascendente por disponible.
func (uc *SnapshotUseCase) OutOfStock(ctx context.Context, req dto.StockListingRequest) ([]dto.StockListingDTO, error) {
	return uc.stockListing(ctx, req.Limit, stock.StateOut)
}

func (uc *SnapshotUseCase) stockListing(ctx context.Context, limit int, want stock.State) ([]dto.StockListingDTO, error) {
	limit = clampLimit(limit, defaultStockLimit, maxStockLimit)

	variants, err := uc.variantRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listado de stock: %w", err)
	}

	listing := make([]dto.StockListingDTO, 0)
	for _, v := range variants {
		available, state := stock.Classify(v.Stock, v.Reserved, v.LowStockThreshold)
		if state != want {
			continue
		}
		listing = append(listing, dto.StockListingDTO{
			VariantID:   v.ID,
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			VariantName: v.Name,
			Stock:       v.Stock,
			Reserved:    v.Reserved,
			Available:   available,
			Threshold:   v.LowStockThreshold,
			State:       string(state),
		})
	}
	sort.SliceStable(listing, func(i, j int) bool {
		return listing[i].Available < listing[j].Available
	})
	if len(listing) > limit {
		listing = listing[:limit]
	}
	return listing, nil
}

// clampLimit aplica default y recorta a [1, max]. El recorte es restricción
// de rango intencional, no recuperación de errores.
func clampLimit(limit, def, max int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
