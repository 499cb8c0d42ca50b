package metrics_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	dommetrics "github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
)

// fakeOrderRepo repositorio de pedidos en memoria. Replica el contrato del
// puerto (filtro por estado y rango, orden descendente en FindRecent) para
// que los casos de uso se ejerciten contra datos deterministas.
type fakeOrderRepo struct {
	orders []*entity.Order

	findErr  error
	salesErr error
	countErr error
}

func (f *fakeOrderRepo) matches(o *entity.Order, statuses []string, r dommetrics.DateRange) bool {
	if len(statuses) > 0 {
		ok := false
		for _, s := range statuses {
			if o.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if r.Start != nil && o.CreatedAt.Before(*r.Start) {
		return false
	}
	if r.End != nil && o.CreatedAt.After(*r.End) {
		return false
	}
	return true
}

func (f *fakeOrderRepo) FindByStatus(_ context.Context, statuses []string, r dommetrics.DateRange) ([]*entity.Order, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Order
	for _, o := range f.orders {
		if f.matches(o, statuses, r) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindRecent(_ context.Context, statuses []string, r dommetrics.DateRange, limit int) ([]*entity.Order, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Order
	for _, o := range f.orders {
		if f.matches(o, statuses, r) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) CountByStatus(_ context.Context, statuses []string, r dommetrics.DateRange) (map[string]int, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(map[string]int)
	for _, o := range f.orders {
		if f.matches(o, statuses, r) {
			counts[o.Status]++
		}
	}
	return counts, nil
}

func (f *fakeOrderRepo) SalesByVariant(_ context.Context, r dommetrics.DateRange) ([]repository.VariantSalesRow, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	type key struct{ productID, variantID string }
	agg := make(map[key]*repository.VariantSalesRow)
	var order []key
	for _, o := range f.orders {
		if !f.matches(o, []string{entity.OrderStatusPaid}, r) {
			continue
		}
		for _, it := range o.Items {
			k := key{it.ProductID, it.VariantID}
			row, ok := agg[k]
			if !ok {
				row = &repository.VariantSalesRow{
					ProductID:   it.ProductID,
					ProductName: it.ProductName,
					VariantID:   it.VariantID,
					VariantName: it.VariantName,
					Revenue:     decimal.Zero,
				}
				agg[k] = row
				order = append(order, k)
			}
			row.Quantity += int64(it.Quantity)
			row.Revenue = row.Revenue.Add(it.Subtotal)
		}
	}
	rows := make([]repository.VariantSalesRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *agg[k])
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue.GreaterThan(rows[j].Revenue) })
	return rows, nil
}

// fakeVariantRepo repositorio de variantes en memoria de solo lectura.
type fakeVariantRepo struct {
	variants []*entity.Variant
	findErr  error
}

func (f *fakeVariantRepo) FindActive(_ context.Context) ([]*entity.Variant, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Variant
	for _, v := range f.variants {
		if v.Status == entity.VariantStatusActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVariantRepo) GetForUpdate(_ context.Context, id string) (*entity.Variant, error) {
	for _, v := range f.variants {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVariantRepo) UpdateAlertRecord(_ context.Context, id string, rec entity.AlertRecord) error {
	for _, v := range f.variants {
		if v.ID == id {
			v.Alert = rec
		}
	}
	return nil
}

func (f *fakeVariantRepo) UpdateQuantities(_ context.Context, id string, stockQty, reserved int) error {
	for _, v := range f.variants {
		if v.ID == id {
			v.Stock = stockQty
			v.Reserved = reserved
		}
	}
	return nil
}

// Helpers de construcción de datos de prueba.

func paidOrder(id string, total string, createdAt time.Time) *entity.Order {
	return &entity.Order{
		ID:        id,
		Status:    entity.OrderStatusPaid,
		Total:     decimal.RequireFromString(total),
		Currency:  "COP",
		CreatedAt: createdAt,
	}
}

func frozenNow(loc *time.Location) func() time.Time {
	at := time.Date(2024, 3, 15, 12, 30, 0, 0, loc)
	return func() time.Time { return at }
}
