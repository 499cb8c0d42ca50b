package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-ops/internal/application/alerts"
	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	"github.com/tu-usuario/tienda-ops/internal/application/inventory"
	"github.com/tu-usuario/tienda-ops/internal/domain"
)

// AdjustStockRequest cuerpo de POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	VariantID     string `json:"variant_id"`
	StockDelta    int    `json:"stock_delta"`
	ReservedDelta int    `json:"reserved_delta"`
}

// RecheckRequest cuerpo de POST /api/inventory/recheck: lote de variantes a reevaluar.
type RecheckRequest struct {
	VariantIDs []string `json:"variant_ids"`
}

// InventoryHandler maneja el ajuste manual de stock y la reevaluación de alertas.
type InventoryHandler struct {
	adjust   *inventory.AdjustStockUseCase
	alertsUC *alerts.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, alertsUC *alerts.UseCase) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, alertsUC: alertsUC}
}

// AdjustStock godoc
// @Summary      Ajuste manual de existencias/reservas de una variante
// @Description  Aplica deltas con signo de forma transaccional y dispara la
//               reevaluación de alertas de la variante de forma asíncrona.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  AdjustStockRequest  true  "variant_id y deltas"
// @Success      200  {object}  dto.StockListingDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	v, err := h.adjust.Adjust(c.Context(), inventory.AdjustInput{
		VariantID:     req.VariantID,
		StockDelta:    req.StockDelta,
		ReservedDelta: req.ReservedDelta,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ajuste inválido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante no encontrada"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"variant_id": v.ID,
		"stock":      v.Stock,
		"reserved":   v.Reserved,
	})
}

// Recheck godoc
// @Summary      Reevaluación de alertas para un lote de variantes
// @Description  Entrada batch del pipeline de alertas para los flujos externos
//               de pedido/cancelación/reembolso que mutan stock fuera de esta API.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  RecheckRequest  true  "variant_ids a reevaluar"
// @Success      202  {object}  map[string]int
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/recheck [post]
func (h *InventoryHandler) Recheck(c *fiber.Ctx) error {
	var req RecheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(req.VariantIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_ids requerido"})
	}

	if err := h.alertsUC.Reevaluate(c.Context(), req.VariantIDs); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"rechecked": len(req.VariantIDs)})
}
