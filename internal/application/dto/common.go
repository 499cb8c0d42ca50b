package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RangeRequest selector de rango común a los endpoints de métricas.
// range es un nombre simbólico (all, today, yesterday, last7, last30,
// thisMonth, lastMonth, thisYear, lastYear); from/to son fechas YYYY-MM-DD
// y tienen precedencia sobre el simbólico.
type RangeRequest struct {
	Range string `query:"range"`
	From  string `query:"from"`
	To    string `query:"to"`
}
