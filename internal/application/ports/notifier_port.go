package ports

import (
	"context"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// Notifier superficie de notificaciones al usuario. Es fire-and-forget:
// quien notifica no espera ni consume resultado.
type Notifier interface {
	Notify(ctx context.Context, kind entity.AlertKind, title, message string)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(ctx context.Context, kind entity.AlertKind, title, message string)

// Notify implementa Notifier.
func (f NotifierFunc) Notify(ctx context.Context, kind entity.AlertKind, title, message string) {
	f(ctx, kind, title, message)
}
