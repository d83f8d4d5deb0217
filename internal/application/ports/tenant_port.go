package ports

import "context"

// TenantContext expone el tenant de la sesión activa.
// ok es false cuando no hay sesión o la sesión no tiene tenant.
type TenantContext interface {
	CurrentTenantID(ctx context.Context) (tenantID string, ok bool)
}
