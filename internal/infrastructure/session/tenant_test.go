package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/papeleria-api/internal/infrastructure/session"
)

func TestContextTenant(t *testing.T) {
	var tc session.ContextTenant

	_, ok := tc.CurrentTenantID(context.Background())
	assert.False(t, ok)

	_, ok = tc.CurrentTenantID(session.WithTenant(context.Background(), ""))
	assert.False(t, ok, "tenant vacío no cuenta como sesión activa")

	id, ok := tc.CurrentTenantID(session.WithTenant(context.Background(), "t-1"))
	assert.True(t, ok)
	assert.Equal(t, "t-1", id)
}
