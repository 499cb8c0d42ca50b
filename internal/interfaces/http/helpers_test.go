package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/internal/application/inventory"
	appmetrics "github.com/tu-usuario/tienda-ops/internal/application/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	dommetrics "github.com/tu-usuario/tienda-ops/internal/domain/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
	apphttp "github.com/tu-usuario/tienda-ops/internal/interfaces/http"
	"github.com/tu-usuario/tienda-ops/pkg/jwt"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

const testSecret = "secreto-de-pruebas"

// fakeOrderRepo pedidos en memoria con el filtrado mínimo que ejercitan los handlers.
type fakeOrderRepo struct {
	orders []*entity.Order
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
	var out []*entity.Order
	for _, o := range f.orders {
		if f.matches(o, statuses, r) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindRecent(_ context.Context, statuses []string, r dommetrics.DateRange, limit int) ([]*entity.Order, error) {
	out, _ := f.FindByStatus(nil, statuses, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) CountByStatus(_ context.Context, statuses []string, r dommetrics.DateRange) (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range f.orders {
		if f.matches(o, statuses, r) {
			counts[o.Status]++
		}
	}
	return counts, nil
}

func (f *fakeOrderRepo) SalesByVariant(_ context.Context, r dommetrics.DateRange) ([]repository.VariantSalesRow, error) {
	var rows []repository.VariantSalesRow
	for _, o := range f.orders {
		if !f.matches(o, []string{entity.OrderStatusPaid}, r) {
			continue
		}
		for _, it := range o.Items {
			rows = append(rows, repository.VariantSalesRow{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				VariantID:   it.VariantID,
				VariantName: it.VariantName,
				Quantity:    int64(it.Quantity),
				Revenue:     it.Subtotal,
			})
		}
	}
	return rows, nil
}

// fakeVariantRepo variantes en memoria.
type fakeVariantRepo struct {
	variants map[string]*entity.Variant
}

func (f *fakeVariantRepo) FindActive(_ context.Context) ([]*entity.Variant, error) {
	var out []*entity.Variant
	for _, v := range f.variants {
		if v.Status == entity.VariantStatusActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVariantRepo) GetForUpdate(_ context.Context, id string) (*entity.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, nil
	}
	copia := *v
	return &copia, nil
}

func (f *fakeVariantRepo) UpdateAlertRecord(_ context.Context, id string, rec entity.AlertRecord) error {
	if v, ok := f.variants[id]; ok {
		v.Alert = rec
	}
	return nil
}

func (f *fakeVariantRepo) UpdateQuantities(_ context.Context, id string, stockQty, reserved int) error {
	if v, ok := f.variants[id]; ok {
		v.Stock = stockQty
		v.Reserved = reserved
	}
	return nil
}

type fakeTxRunner struct {
	variants *fakeVariantRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.VariantRepository) error) error {
	return fn(f.variants)
}

type emptyDirectory struct{}

func (emptyDirectory) Recipients(_ context.Context, _ repository.AlertClass) ([]string, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(_ context.Context, _ []string, _ string, _ map[string]any) error {
	return nil
}

// setupApp monta la app Fiber completa con repositorios en memoria y el reloj
// congelado, igual que lo hace cmd/api pero sin DB ni SMTP.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, loc) }

	orders := &fakeOrderRepo{orders: []*entity.Order{
		{
			ID: "o1", CustomerName: "Ana", CustomerEmail: "ana@test", Status: entity.OrderStatusPaid,
			Total: decimal.RequireFromString("120"), Currency: "COP",
			CreatedAt: time.Date(2024, 3, 14, 10, 0, 0, 0, loc),
			Items: []entity.OrderItem{
				{ProductID: "p1", ProductName: "Camisa", VariantID: "v1", VariantName: "Camisa M", Quantity: 2, Subtotal: decimal.RequireFromString("120")},
			},
		},
	}}
	variants := &fakeVariantRepo{variants: map[string]*entity.Variant{
		"v1": {ID: "v1", ProductID: "p1", ProductName: "Camisa", Name: "Camisa M",
			Status: entity.VariantStatusActive, Stock: 10, Reserved: 2, LowStockThreshold: 5},
	}}
	tx := &fakeTxRunner{variants: variants}

	series := appmetrics.NewTimeSeriesUseCase(orders, loc, now)
	snapshots := appmetrics.NewSnapshotUseCase(orders, variants, loc, now)
	dashboard := appmetrics.NewDashboardUseCase(series, snapshots, logger.Nop())
	alertsUC := alerts.NewUseCase(tx, emptyDirectory{}, nopNotifier{}, logger.Nop(), now)
	adjust := inventory.NewAdjustStockUseCase(tx, alertsUC, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Metrics:   apphttp.NewMetricsHandler(series, snapshots),
		Dashboard: apphttp.NewDashboardHandler(dashboard),
		Inventory: apphttp.NewInventoryHandler(adjust, alertsUC),
		JWTSecret: testSecret,
	})
	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "u1", role, "tienda-ops", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func decodeError(t *testing.T, body []byte) (code string) {
	t.Helper()
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Code
}
