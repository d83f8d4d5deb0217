package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/papeleria-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", App: "papeleria-api", Out: &buf})

	sub := l.Component("sales")
	sub.Debug().Msg("descartado")
	sub.Info().Msg("venta registrada")

	out := buf.String()
	assert.NotContains(t, out, "descartado")
	assert.Contains(t, out, `"component":"sales"`)
	assert.Contains(t, out, `"app":"papeleria-api"`)
}
