// Package session transporta el tenant de la sesión activa en el context de la petición.
package session

import (
	"context"

	"github.com/jhoicas/papeleria-api/internal/application/ports"
)

type tenantKey struct{}

// WithTenant devuelve un ctx con el tenant de la sesión. Un id vacío equivale a no tener tenant.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// ContextTenant implementa ports.TenantContext leyendo el ctx.
type ContextTenant struct{}

var _ ports.TenantContext = ContextTenant{}

// CurrentTenantID devuelve el tenant guardado con WithTenant.
func (ContextTenant) CurrentTenantID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
