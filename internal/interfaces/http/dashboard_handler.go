package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-ops/internal/application/dto"
	appmetrics "github.com/tu-usuario/tienda-ops/internal/application/metrics"
)

// DashboardHandler maneja el sobre compuesto del dashboard.
type DashboardHandler struct {
	uc *appmetrics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appmetrics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetDashboard godoc
// @Summary      Sobre compuesto: resumen, serie, top productos, recientes y stock
// @Description  Lanza las seis sub-consultas en paralelo. Si una falla, su sección
//               queda ausente y la razón aparece en errors; las demás llegan intactas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        range     query  string  false  "Rango simbólico o from/to explícitos"
// @Param        interval  query  string  false  "Granularidad de la serie (default day)"
// @Param        limit     query  int     false  "Máx. top productos y pedidos recientes"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	var req dto.DashboardRequest
	if err := parseQuery(c, &req); err != nil {
		return err
	}
	env, err := h.uc.Compose(c.Context(), req)
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(env)
}
