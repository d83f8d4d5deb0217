package dto

// Límites de los listados paginados (ventas, productos).
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest ventana pedida por ?limit=&offset=. Limit 0 significa "usar DefaultLimit";
// los handlers rechazan con 400 lo que quede fuera de las etiquetas validate.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalized devuelve la ventana efectiva. Acota también a los llamadores que no
// pasan por HTTP (CLI, tests).
func (p PageRequest) Normalized() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse eco de la ventana aplicada más el total del tenant.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// NewPageResponse arma la metadata de página de un listado.
func NewPageResponse(page PageRequest, total int) PageResponse {
	return PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}
}

// ErrorResponse cuerpo de los errores HTTP: código estable para el cliente y mensaje legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
