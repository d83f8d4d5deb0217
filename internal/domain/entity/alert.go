package entity

// AlertKind tipo de notificación para el usuario.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertWarning AlertKind = "warning"
)

// Alert mensaje legible para el usuario.
type Alert struct {
	Kind    AlertKind
	Title   string
	Message string
}
