// seed crea el esquema de la base de datos y la puebla con datos de demo:
// usuarios con preferencias de alerta, variantes con umbrales y un mes de
// pedidos pagados repartidos por días. Pensado para desarrollo local.
//
// Uso: go run ./cmd/seed
// Lee la conexión de las mismas variables de entorno que cmd/api.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/tienda-ops/internal/infrastructure/postgres"
	"github.com/tu-usuario/tienda-ops/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                  TEXT PRIMARY KEY,
    email               TEXT NOT NULL UNIQUE,
    role                TEXT NOT NULL DEFAULT 'operador',
    active              BOOLEAN NOT NULL DEFAULT TRUE,
    notify_low_stock    BOOLEAN NOT NULL DEFAULT FALSE,
    notify_out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
    notify_new_order    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS variants (
    id                  TEXT PRIMARY KEY,
    product_id          TEXT NOT NULL,
    product_name        TEXT NOT NULL,
    name                TEXT NOT NULL,
    status              TEXT NOT NULL DEFAULT 'active',
    stock               INTEGER NOT NULL DEFAULT 0,
    reserved            INTEGER NOT NULL DEFAULT 0,
    low_stock_threshold INTEGER NOT NULL DEFAULT 0,
    alert_state         TEXT NOT NULL DEFAULT '',
    low_notified_at     TIMESTAMPTZ,
    out_notified_at     TIMESTAMPTZ,
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    customer_name  TEXT NOT NULL,
    customer_email TEXT NOT NULL,
    status         TEXT NOT NULL,
    total          NUMERIC(12,2) NOT NULL,
    currency       TEXT NOT NULL DEFAULT 'COP',
    created_at     TIMESTAMPTZ NOT NULL,
    paid_at        TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS order_items (
    id           TEXT PRIMARY KEY,
    order_id     TEXT NOT NULL REFERENCES orders(id),
    product_id   TEXT NOT NULL,
    product_name TEXT NOT NULL,
    variant_id   TEXT NOT NULL,
    variant_name TEXT NOT NULL,
    quantity     INTEGER NOT NULL,
    subtotal     NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders (status, created_at);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);
CREATE INDEX IF NOT EXISTS idx_variants_status ON variants (status);
`

type demoVariant struct {
	productID   string
	productName string
	name        string
	stock       int
	reserved    int
	threshold   int
	price       string
}

var catalog = []demoVariant{
	{"p-camisa", "Camisa Oxford", "Camisa Oxford M", 40, 3, 10, "89900"},
	{"p-camisa", "Camisa Oxford", "Camisa Oxford L", 8, 2, 10, "89900"},
	{"p-gorra", "Gorra Clásica", "Gorra única", 5, 5, 4, "39900"},
	{"p-pantalon", "Pantalón Chino", "Pantalón Chino 32", 25, 0, 8, "129900"},
	{"p-pantalon", "Pantalón Chino", "Pantalón Chino 34", 0, 0, 8, "129900"},
	{"p-medias", "Medias Pack x3", "Medias única", 120, 10, 20, "24900"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a la DB: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "Crear esquema: %v\n", err)
		os.Exit(1)
	}

	if err := seedUsers(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar usuarios: %v\n", err)
		os.Exit(1)
	}

	variantIDs, err := seedVariants(ctx, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar variantes: %v\n", err)
		os.Exit(1)
	}

	nOrders, err := seedOrders(ctx, pool, variantIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar pedidos: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Listo: %d usuarios, %d variantes, %d pedidos\n", 3, len(variantIDs), nOrders)
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	users := []struct {
		email                           string
		role                            string
		notifyLow, notifyOut, notifyNew bool
	}{
		{"admin@tienda.test", "admin", true, true, true},
		{"bodega@tienda.test", "operador", true, true, false},
		{"ventas@tienda.test", "operador", false, false, true},
	}
	for _, u := range users {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, role, active, notify_low_stock, notify_out_of_stock, notify_new_order)
			VALUES ($1, $2, $3, TRUE, $4, $5, $6)
			ON CONFLICT (email) DO NOTHING`,
			uuid.NewString(), u.email, u.role, u.notifyLow, u.notifyOut, u.notifyNew)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedVariants(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	ids := make([]string, 0, len(catalog))
	for _, v := range catalog {
		id := uuid.NewString()
		_, err := pool.Exec(ctx, `
			INSERT INTO variants (id, product_id, product_name, name, status, stock, reserved, low_stock_threshold)
			VALUES ($1, $2, $3, $4, 'active', $5, $6, $7)`,
			id, v.productID, v.productName, v.name, v.stock, v.reserved, v.threshold)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedOrders genera 30 días de pedidos pagados (1 a 4 por día) más unos pocos
// pendientes y reembolsados para que los conteos por estado no salgan vacíos.
func seedOrders(ctx context.Context, pool *pgxpool.Pool, variantIDs []string) (int, error) {
	rng := rand.New(rand.NewSource(42)) // semilla fija para demos reproducibles
	now := time.Now()
	total := 0

	statuses := []string{"paid", "paid", "paid", "pending", "refunded", "refund_pending"}

	for day := 0; day < 30; day++ {
		date := now.AddDate(0, 0, -day)
		for n := 0; n < 1+rng.Intn(4); n++ {
			status := statuses[rng.Intn(len(statuses))]
			createdAt := date.Add(-time.Duration(rng.Intn(12)) * time.Hour)

			orderID := uuid.NewString()
			items := 1 + rng.Intn(3)
			orderTotal := decimal.Zero

			type line struct {
				variantIdx int
				quantity   int
				subtotal   decimal.Decimal
			}
			lines := make([]line, 0, items)
			for i := 0; i < items; i++ {
				idx := rng.Intn(len(catalog))
				qty := 1 + rng.Intn(3)
				price := decimal.RequireFromString(catalog[idx].price)
				subtotal := price.Mul(decimal.NewFromInt(int64(qty)))
				orderTotal = orderTotal.Add(subtotal)
				lines = append(lines, line{idx, qty, subtotal})
			}

			var paidAt *time.Time
			if status == "paid" || status == "refunded" || status == "refund_pending" {
				at := createdAt.Add(5 * time.Minute)
				paidAt = &at
			}

			_, err := pool.Exec(ctx, `
				INSERT INTO orders (id, customer_name, customer_email, status, total, currency, created_at, paid_at)
				VALUES ($1, $2, $3, $4, $5, 'COP', $6, $7)`,
				orderID, "Cliente Demo", "cliente@tienda.test", status, orderTotal, createdAt, paidAt)
			if err != nil {
				return total, err
			}
			for _, l := range lines {
				v := catalog[l.variantIdx]
				_, err := pool.Exec(ctx, `
					INSERT INTO order_items (id, order_id, product_id, product_name, variant_id, variant_name, quantity, subtotal)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					uuid.NewString(), orderID, v.productID, v.productName, variantIDs[l.variantIdx], v.name, l.quantity, l.subtotal)
				if err != nil {
					return total, err
				}
			}
			total++
		}
	}
	return total, nil
}
