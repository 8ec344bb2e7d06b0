package logging

import (
	"bytes"
	"testing"

	"github.com/andrasnagy-data/credentials/internal/shared/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Dev(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	logger, writer := NewLogger(&config.Config{Environment: "dev", LogLevel: "warn"})

	assert.Nil(t, writer)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	NewLogger(&config.Config{LogLevel: "loud"})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf)

	logger.Info().Str("email", "a@b.c").Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "a@b.c")
}

func TestNewLogger_ProdAttachesSentryWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	cfg := &config.Config{
		Environment: "prod",
		Version:     "1.2.3",
		LogLevel:    "info",
		SentryDSN:   "https://public@sentry.example.com/1",
	}

	_, writer := NewLogger(cfg)
	require.NotNil(t, writer)
	t.Cleanup(func() { writer.Close() })
}

func TestSentryClientOptions(t *testing.T) {
	cfg := &config.Config{
		Environment: "prod",
		Version:     "1.2.3",
		SentryDSN:   "https://public@sentry.example.com/1",
	}

	opts := sentryClientOptions(cfg)

	assert.Equal(t, cfg.SentryDSN, opts.Dsn)
	assert.Equal(t, "prod", opts.Environment)
	assert.Equal(t, "1.2.3", opts.Release)
}
