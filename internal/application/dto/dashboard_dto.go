package dto

// DashboardRequest parámetros de GET /api/metrics/dashboard.
type DashboardRequest struct {
	RangeRequest
	Interval string `query:"interval"`
	Limit    int    `query:"limit"` // top products y recent orders
}

// DashboardDTO sobre compuesto del dashboard. Cada sección proviene de una
// sub-consulta independiente; si una falla, su sección queda ausente y la
// razón aparece en Errors bajo el nombre de la sección. Las demás secciones
// se devuelven intactas: un fallo parcial nunca invalida el sobre completo.
type DashboardDTO struct {
	Summary      *SummaryDTO       `json:"summary,omitempty"`
	Revenue      []MetricBucketDTO `json:"revenue,omitempty"`
	TopProducts  []TopProductDTO   `json:"top_products,omitempty"`
	RecentOrders []RecentOrderDTO  `json:"recent_orders,omitempty"`
	LowStock     []StockListingDTO `json:"low_stock,omitempty"`
	OutOfStock   []StockListingDTO `json:"out_of_stock,omitempty"`
	Partial      bool              `json:"partial"`
	Errors       map[string]string `json:"errors,omitempty"`
}
