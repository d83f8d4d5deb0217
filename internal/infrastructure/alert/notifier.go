// Package alert implementa la superficie de notificaciones: log, colector por petición y fan-out.
package alert

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/papeleria-api/internal/application/ports"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// LogNotifier escribe cada alerta en el log.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "alert").Logger()}
}

var _ ports.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(_ context.Context, kind entity.AlertKind, title, message string) {
	ev := n.log.Info()
	switch kind {
	case entity.AlertError:
		ev = n.log.Error()
	case entity.AlertWarning:
		ev = n.log.Warn()
	}
	ev.Str("kind", string(kind)).Str("title", title).Msg(message)
}

// Collector acumula las alertas de una petición para devolverlas en la respuesta.
type Collector struct {
	mu     sync.Mutex
	alerts []entity.Alert
}

// Alerts devuelve una copia de las alertas acumuladas.
func (c *Collector) Alerts() []entity.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}

func (c *Collector) add(a entity.Alert) {
	c.mu.Lock()
	c.alerts = append(c.alerts, a)
	c.mu.Unlock()
}

type collectorKey struct{}

// WithCollector adjunta un colector nuevo al ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFrom devuelve el colector del ctx, o nil.
func CollectorFrom(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

// RequestNotifier agrega la alerta al colector del ctx, si lo hay.
type RequestNotifier struct{}

var _ ports.Notifier = RequestNotifier{}

func (RequestNotifier) Notify(ctx context.Context, kind entity.AlertKind, title, message string) {
	if c := CollectorFrom(ctx); c != nil {
		c.add(entity.Alert{Kind: kind, Title: title, Message: message})
	}
}

// Multi reenvía cada alerta a todos los notifiers.
type Multi []ports.Notifier

var _ ports.Notifier = Multi(nil)

func (m Multi) Notify(ctx context.Context, kind entity.AlertKind, title, message string) {
	for _, n := range m {
		n.Notify(ctx, kind, title, message)
	}
}
