package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestNew_NivelConfigurado(t *testing.T) {
	l := New(Config{Env: "production", Level: "error", Service: "bodega-test"})
	assert.Equal(t, zerolog.ErrorLevel, l.Zerolog().GetLevel())
}
