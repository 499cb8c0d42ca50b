package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	appmetrics "github.com/tu-usuario/tienda-ops/internal/application/metrics"
	"github.com/tu-usuario/tienda-ops/internal/domain"
)

// MetricsHandler maneja los endpoints de métricas operacionales.
type MetricsHandler struct {
	series    *appmetrics.TimeSeriesUseCase
	snapshots *appmetrics.SnapshotUseCase
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(series *appmetrics.TimeSeriesUseCase, snapshots *appmetrics.SnapshotUseCase) *MetricsHandler {
	return &MetricsHandler{series: series, snapshots: snapshots}
}

// metricsError mapea los errores de dominio a respuestas HTTP. Rango o
// parámetro inválidos son errores del cliente y abortan la petición completa.
func metricsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RANGE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidParameter):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMETER", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	return nil
}

// GetSummary godoc
// @Summary      Resumen de pedidos, ingreso y stock del rango
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        range  query  string  false  "Rango simbólico (all, today, yesterday, last7, last30, thisMonth, lastMonth, thisYear, lastYear)"
// @Param        from   query  string  false  "Inicio explícito YYYY-MM-DD (tiene precedencia sobre range)"
// @Param        to     query  string  false  "Fin explícito YYYY-MM-DD"
// @Success      200  {object}  dto.SummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/summary [get]
func (h *MetricsHandler) GetSummary(c *fiber.Ctx) error {
	var req dto.RangeRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	summary, err := h.snapshots.Summary(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(summary)
}

// GetRevenue godoc
// @Summary      Serie de ingresos por día/semana/mes/año
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        interval  query  string  false  "day|week|month|year (default day)"
// @Success      200  {array}   dto.MetricBucketDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/revenue [get]
func (h *MetricsHandler) GetRevenue(c *fiber.Ctx) error {
	var req dto.RevenueSeriesRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	series, err := h.series.RevenueSeries(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(series)
}

// GetRevenueOverview godoc
// @Summary      Serie diaria de N días sin huecos para gráficos de ancho fijo
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        days  query  int     false  "Días de la ventana, recortado a [7, 90] (default 30)"
// @Param        tz    query  string  false  "Zona IANA para el corte de día (default zona de la app)"
// @Success      200  {array}   dto.OverviewBucketDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/revenue-overview [get]
func (h *MetricsHandler) GetRevenueOverview(c *fiber.Ctx) error {
	var req dto.RevenueOverviewRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	series, err := h.series.RevenueOverview(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(series)
}

// GetOrderStatus godoc
// @Summary      Conteo de pedidos contables por estado
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StatusCountDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/order-status [get]
func (h *MetricsHandler) GetOrderStatus(c *fiber.Ctx) error {
	var req dto.RangeRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	counts, err := h.snapshots.StatusCounts(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(counts)
}

// GetTopProducts godoc
// @Summary      Productos con mayor ingreso del rango, con variantes anidadas
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. productos, recortado a [1, 25] (default 5)"
// @Success      200  {array}   dto.TopProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/top-products [get]
func (h *MetricsHandler) GetTopProducts(c *fiber.Ctx) error {
	var req dto.TopProductsRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	top, err := h.snapshots.TopProducts(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(top)
}

// GetRecentOrders godoc
// @Summary      Pedidos más recientes del rango
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. pedidos, recortado a [1, 25] (default 10)"
// @Success      200  {array}   dto.RecentOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/recent-orders [get]
func (h *MetricsHandler) GetRecentOrders(c *fiber.Ctx) error {
	var req dto.RecentOrdersRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	recent, err := h.snapshots.RecentOrders(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(recent)
}

// GetLowStock godoc
// @Summary      Variantes activas bajo el umbral, ascendente por disponible
// @Description  Ignora el rango: siempre refleja el estado actual del inventario.
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. variantes, recortado a [1, 200] (default 50)"
// @Success      200  {array}   dto.StockListingDTO
// @Router       /api/metrics/low-stock [get]
func (h *MetricsHandler) GetLowStock(c *fiber.Ctx) error {
	var req dto.StockListingRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	listing, err := h.snapshots.LowStock(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(listing)
}

// GetOutOfStock godoc
// @Summary      Variantes activas sin disponible, ascendente por disponible
// @Description  Ignora el rango: siempre refleja el estado actual del inventario.
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. variantes, recortado a [1, 200] (default 50)"
// @Success      200  {array}   dto.StockListingDTO
// @Router       /api/metrics/out-of-stock [get]
func (h *MetricsHandler) GetOutOfStock(c *fiber.Ctx) error {
	var req dto.StockListingRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	listing, err := h.snapshots.OutOfStock(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(listing)
}
