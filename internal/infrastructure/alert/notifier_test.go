package alert_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/internal/infrastructure/alert"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

func TestRequestNotifier_CollectsPerContext(t *testing.T) {
	ctx, col := alert.WithCollector(context.Background())
	n := alert.RequestNotifier{}

	n.Notify(ctx, entity.AlertSuccess, "Éxito", "Venta registrada correctamente")
	n.Notify(context.Background(), entity.AlertError, "Error", "sin colector")

	got := col.Alerts()
	require.Len(t, got, 1)
	assert.Equal(t, entity.AlertSuccess, got[0].Kind)
	assert.Equal(t, "Venta registrada correctamente", got[0].Message)
}

func TestMulti_FansOut(t *testing.T) {
	var buf bytes.Buffer
	ctx, col := alert.WithCollector(context.Background())
	n := alert.Multi{alert.NewLogNotifier(zerolog.New(&buf)), alert.RequestNotifier{}}

	n.Notify(ctx, entity.AlertWarning, "Stock insuficiente", "stock insuficiente para Lápiz")

	assert.Len(t, col.Alerts(), 1)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Lápiz")
}
