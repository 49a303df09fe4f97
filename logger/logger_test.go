package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestComponentLoggers(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	InitWithWriter(&buf)

	ForFetcher().Info().Msg("fetching listing")
	ForPostalCode("00100").Warn().Msg("no state")

	out := buf.String()
	assert.Contains(t, out, "fetching listing")
	assert.Contains(t, out, "component=fetcher")
	assert.Contains(t, out, "postal_code=00100")
	assert.Contains(t, out, "no state")
}

func TestLogError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	InitWithWriter(&buf)

	LogError("storage", errors.New("disk full"), "failed to write %s", "roma.csv")

	out := buf.String()
	assert.Contains(t, out, "failed to write roma.csv")
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "component=storage")
}

func TestLogLevelFromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SCRAPER_ENVIRONMENT", "production")
	var buf bytes.Buffer
	InitWithWriter(&buf)

	ForWorker().Debug().Msg("hidden debug")
	ForWorker().Info().Msg("visible info")
	assert.NotContains(t, buf.String(), "hidden debug")
	assert.Contains(t, buf.String(), "visible info")
}

func TestInvalidLogLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())
}
