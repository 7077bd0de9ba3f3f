package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestNew_JSONConCampoService(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "almacen-api",
		Writer:  &buf,
	})

	log.Info().Str("extra", "valor").Msg("arranque")

	line := lastLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "almacen-api", line["service"])
	assert.Equal(t, "valor", line["extra"])
	assert.Equal(t, "arranque", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_NivelFiltraEventosMenores(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	log.Warn().Msg("sí")

	require.Len(t, bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")), 1)
	line := lastLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Writer: &buf})

	log.Debug().Msg("filtrado")
	log.Info().Msg("visible")

	line := lastLine(t, &buf)
	assert.Equal(t, "visible", line["message"])
}

func TestComponent_EtiquetaElSubsistema(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Component("pdf").Info().Msg("hoja generada")

	line := lastLine(t, &buf)
	assert.Equal(t, "pdf", line["component"])
}
