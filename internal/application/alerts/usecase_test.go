package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/internal/domain"
	"github.com/tu-usuario/tienda-ops/internal/domain/entity"
	"github.com/tu-usuario/tienda-ops/internal/domain/repository"
	"github.com/tu-usuario/tienda-ops/internal/domain/stock"
	"github.com/tu-usuario/tienda-ops/pkg/logger"
)

// fakeVariantRepo almacén de variantes en memoria que registra las llamadas.
type fakeVariantRepo struct {
	variants map[string]*entity.Variant

	getCalls    int
	updateCalls int
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
	f.getCalls++
	v, ok := f.variants[id]
	if !ok {
		return nil, nil
	}
	copia := *v
	return &copia, nil
}

func (f *fakeVariantRepo) UpdateAlertRecord(_ context.Context, id string, rec entity.AlertRecord) error {
	f.updateCalls++
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

// fakeTxRunner ejecuta fn directamente; los tests no necesitan una tx real.
type fakeTxRunner struct {
	variants *fakeVariantRepo
	runs     int
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.VariantRepository) error) error {
	f.runs++
	return fn(f.variants)
}

// fakeDirectory directorio de destinatarios fijo por clase.
type fakeDirectory struct {
	byClass map[repository.AlertClass][]string
}

func (f *fakeDirectory) Recipients(_ context.Context, class repository.AlertClass) ([]string, error) {
	return f.byClass[class], nil
}

// fakeNotifier registra cada despacho; puede fallar a voluntad.
type dispatch struct {
	recipients []string
	template   string
	params     map[string]any
}

type fakeNotifier struct {
	dispatches []dispatch
	err        error
}

func (f *fakeNotifier) Dispatch(_ context.Context, recipients []string, template string, params map[string]any) error {
	f.dispatches = append(f.dispatches, dispatch{recipients, template, params})
	return f.err
}

// ──────────────────────────────────────────────────────────────

var frozenAt = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *fakeVariantRepo
	tx       *fakeTxRunner
	dir      *fakeDirectory
	notifier *fakeNotifier
	uc       *alerts.UseCase
}

func newFixture(variants ...*entity.Variant) *fixture {
	repo := &fakeVariantRepo{variants: make(map[string]*entity.Variant)}
	for _, v := range variants {
		repo.variants[v.ID] = v
	}
	tx := &fakeTxRunner{variants: repo}
	dir := &fakeDirectory{byClass: map[repository.AlertClass][]string{
		repository.AlertLowStock:   {"ops@tienda.test"},
		repository.AlertOutOfStock: {"ops@tienda.test", "gerencia@tienda.test"},
	}}
	notifier := &fakeNotifier{}
	uc := alerts.NewUseCase(tx, dir, notifier, logger.Nop(), func() time.Time { return frozenAt })
	return &fixture{repo: repo, tx: tx, dir: dir, notifier: notifier, uc: uc}
}

func variante(id string, stockQty, reserved, threshold int, state stock.State) *entity.Variant {
	return &entity.Variant{
		ID:                id,
		ProductID:         "p1",
		ProductName:       "Camisa",
		Name:              "Camisa " + id,
		Status:            entity.VariantStatusActive,
		Stock:             stockQty,
		Reserved:          reserved,
		LowStockThreshold: threshold,
		Alert:             entity.AlertRecord{State: state},
	}
}

func TestReevaluate_TransicionOkALowNotificaUnaVez(t *testing.T) {
	f := newFixture(variante("v1", 10, 8, 5, stock.StateOK)) // disponible 2: low

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	require.Len(t, f.notifier.dispatches, 1, "una sola ráfaga por transición")
	d := f.notifier.dispatches[0]
	assert.Equal(t, alerts.TemplateLowStock, d.template)
	assert.Equal(t, []string{"ops@tienda.test"}, d.recipients)
	assert.Equal(t, "Camisa", d.params["product_name"])
	assert.Equal(t, 2, d.params["available"])

	v := f.repo.variants["v1"]
	assert.Equal(t, stock.StateLow, v.Alert.State)
	require.NotNil(t, v.Alert.LowNotifiedAt)
	assert.Equal(t, frozenAt, *v.Alert.LowNotifiedAt)
	assert.Nil(t, v.Alert.OutNotifiedAt)
}

func TestReevaluate_SinTransicionNoHaceNada(t *testing.T) {
	f := newFixture(variante("v1", 10, 8, 5, stock.StateLow)) // sigue low

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	assert.Empty(t, f.notifier.dispatches, "histéresis: low permanece low en silencio")
	assert.Zero(t, f.repo.updateCalls, "sin transición tampoco hay escritura")
}

func TestReevaluate_LowAOutEscalaLaAlerta(t *testing.T) {
	f := newFixture(variante("v1", 5, 5, 5, stock.StateLow)) // disponible 0: out

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	require.Len(t, f.notifier.dispatches, 1)
	assert.Equal(t, alerts.TemplateOutOfStock, f.notifier.dispatches[0].template)
	assert.Len(t, f.notifier.dispatches[0].recipients, 2)

	v := f.repo.variants["v1"]
	assert.Equal(t, stock.StateOut, v.Alert.State)
	require.NotNil(t, v.Alert.OutNotifiedAt)
}

func TestReevaluate_RecuperacionEsSilenciosa(t *testing.T) {
	sent := frozenAt.Add(-time.Hour)
	v := variante("v1", 50, 0, 5, stock.StateOut) // disponible 50: ok
	v.Alert.OutNotifiedAt = &sent
	f := newFixture(v)

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	assert.Empty(t, f.notifier.dispatches, "volver a ok nunca notifica")
	got := f.repo.variants["v1"]
	assert.Equal(t, stock.StateOK, got.Alert.State, "pero el estado sí se rearma")
	require.NotNil(t, got.Alert.OutNotifiedAt, "las marcas históricas se conservan")
}

func TestReevaluate_EstadoVacioEquivaleAOk(t *testing.T) {
	v := variante("v1", 50, 0, 5, "") // variante nunca evaluada, disponible ok
	f := newFixture(v)

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	assert.Empty(t, f.notifier.dispatches)
	assert.Zero(t, f.repo.updateCalls, "ok implícito a ok no es transición")
}

func TestReevaluate_SinDestinatariosCortaElLote(t *testing.T) {
	f := newFixture(variante("v1", 10, 8, 5, stock.StateOK))
	f.dir.byClass = map[repository.AlertClass][]string{}

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	assert.Zero(t, f.repo.getCalls, "sin destinatarios el lote ni toca las variantes")
	assert.Zero(t, f.tx.runs)
}

func TestReevaluate_UnaClaseVaciaAvanzaEnSilencio(t *testing.T) {
	f := newFixture(variante("v1", 10, 8, 5, stock.StateOK)) // transición a low
	f.dir.byClass = map[repository.AlertClass][]string{
		repository.AlertOutOfStock: {"ops@tienda.test"}, // low sin destinatarios
	}

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err)

	assert.Empty(t, f.notifier.dispatches)
	v := f.repo.variants["v1"]
	assert.Equal(t, stock.StateLow, v.Alert.State, "el estado avanza igual")
	assert.Nil(t, v.Alert.LowNotifiedAt, "sin envío no hay marca de notificación")
}

func TestReevaluate_FalloDeEnvioNoBloqueaElEstado(t *testing.T) {
	f := newFixture(variante("v1", 0, 0, 5, stock.StateOK)) // transición a out
	f.notifier.err = errors.New("smtp caído")

	err := f.uc.Reevaluate(context.Background(), []string{"v1"})
	require.NoError(t, err, "el fallo de envío es mejor esfuerzo")

	v := f.repo.variants["v1"]
	assert.Equal(t, stock.StateOut, v.Alert.State, "el estado avanza para no repetir la ráfaga")
	assert.Nil(t, v.Alert.OutNotifiedAt, "un envío fallido no cuenta como notificado")
}

func TestReevaluate_VarianteInexistente(t *testing.T) {
	f := newFixture()

	err := f.uc.Reevaluate(context.Background(), []string{"fantasma"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReevaluate_LoteProcesaCadaVariante(t *testing.T) {
	f := newFixture(
		variante("v1", 10, 8, 5, stock.StateOK), // -> low
		variante("v2", 0, 0, 5, stock.StateOK),  // -> out
		variante("v3", 50, 0, 5, stock.StateOK), // sin cambio
	)

	err := f.uc.Reevaluate(context.Background(), []string{"v1", "v2", "v3"})
	require.NoError(t, err)

	assert.Len(t, f.notifier.dispatches, 2)
	assert.Equal(t, 3, f.tx.runs, "una transacción por variante")
	assert.Equal(t, stock.StateLow, f.repo.variants["v1"].Alert.State)
	assert.Equal(t, stock.StateOut, f.repo.variants["v2"].Alert.State)
	assert.Equal(t, stock.StateOK, f.repo.variants["v3"].Alert.State)
}

func TestReevaluate_UnaVarianteFallidaNoCortaElLote(t *testing.T) {
	f := newFixture(variante("v1", 10, 8, 5, stock.StateOK)) // -> low

	err := f.uc.Reevaluate(context.Background(), []string{"fantasma", "v1"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el fallo se reporta al final")

	require.Len(t, f.notifier.dispatches, 1, "las variantes restantes se procesan igual")
	assert.Equal(t, stock.StateLow, f.repo.variants["v1"].Alert.State)
}

func TestReevaluate_LoteVacioNoHaceNada(t *testing.T) {
	f := newFixture()

	err := f.uc.Reevaluate(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, f.tx.runs)
}
