package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueSeriesRequest parámetros de GET /api/metrics/revenue.
type RevenueSeriesRequest struct {
	RangeRequest
	Interval string `query:"interval"` // day|week|month|year (default day)
}

// RevenueOverviewRequest parámetros de GET /api/metrics/revenue-overview.
// Days se recorta a [7, 90]; Timezone es una zona IANA (vacía = zona de la app).
type RevenueOverviewRequest struct {
	Days     int    `query:"days"`
	Timezone string `query:"tz"`
}

// TopProductsRequest parámetros de GET /api/metrics/top-products.
type TopProductsRequest struct {
	RangeRequest
	Limit int `query:"limit"` // recortado a [1, 25]
}

// RecentOrdersRequest parámetros de GET /api/metrics/recent-orders.
type RecentOrdersRequest struct {
	RangeRequest
	Limit int `query:"limit"` // recortado a [1, 25]
}

// StockListingRequest parámetros de los listados de stock bajo/agotado.
// Ignoran rango: siempre reflejan el estado actual.
type StockListingRequest struct {
	Limit int `query:"limit"` // recortado a [1, 200]
}

// MetricBucketDTO cubeta de la serie de ingresos. Efímera, nunca se persiste.
type MetricBucketDTO struct {
	Label      string          `json:"label"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
}

// OverviewBucketDTO cubeta diaria del overview de N días. IsToday depende de
// la fecha de pared en la zona pedida, no de la zona del servidor.
type OverviewBucketDTO struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
	IsToday    bool            `json:"is_today"`
}

// StatusCountDTO conteo de pedidos por estado, con clave máquina y etiqueta legible.
type StatusCountDTO struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// SummaryDTO respuesta de GET /api/metrics/summary.
type SummaryDTO struct {
	OrderCount      int              `json:"order_count"` // pedidos contables del rango
	Revenue         decimal.Decimal  `json:"revenue"`     // solo pedidos pagados
	StatusCounts    []StatusCountDTO `json:"status_counts"`
	LowStockCount   int              `json:"low_stock_count"`
	OutOfStockCount int              `json:"out_of_stock_count"`
}

// TopVariantDTO variante dentro de un producto top, ordenada por ingreso descendente.
type TopVariantDTO struct {
	VariantID   string          `json:"variant_id"`
	VariantName string          `json:"variant_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopProductDTO producto top por ingreso con sus variantes anidadas.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Variants    []TopVariantDTO `json:"variants"`
}

// RecentOrderDTO pedido reciente con identidad del cliente.
type RecentOrderDTO struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"status_label"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockListingDTO variante en los listados de stock bajo/agotado.
type StockListingDTO struct {
	VariantID   string `json:"variant_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
	Stock       int    `json:"stock"`
	Reserved    int    `json:"reserved"`
	Available   int    `json:"available"`
	Threshold   int    `json:"threshold"`
	State       string `json:"state"`
}
