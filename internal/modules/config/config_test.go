package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultInstruments(t *testing.T) {
	instruments := DefaultInstruments()
	require.Len(t, instruments, 5)

	prices := DefaultPrices()
	for _, inst := range instruments {
		_, ok := prices[inst.UIC]
		assert.True(t, ok, "no default price for %s", inst.Symbol)
	}
}

func TestInstrumentLookup(t *testing.T) {
	cfg := &Config{Instruments: DefaultInstruments()}

	inst, ok := cfg.Instrument(21)
	require.True(t, ok)
	assert.Equal(t, "EUR/USD", inst.Symbol)

	_, ok = cfg.Instrument(999)
	assert.False(t, ok)

	inst, ok = cfg.InstrumentBySymbol("USD/JPY")
	require.True(t, ok)
	assert.Equal(t, 31, inst.UIC)

	_, ok = cfg.InstrumentBySymbol("XAU/USD")
	assert.False(t, ok)
}

func TestDurationFromEnv(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, durationFromEnv("UNSET_DURATION_KEY", "500ms"))

	t.Setenv("TEST_DURATION_KEY", "2s")
	assert.Equal(t, 2*time.Second, durationFromEnv("TEST_DURATION_KEY", "500ms"))

	t.Setenv("TEST_DURATION_KEY", "garbage")
	assert.Equal(t, 500*time.Millisecond, durationFromEnv("TEST_DURATION_KEY", "500ms"))
}

func TestScalarEnvHelpers(t *testing.T) {
	assert.Equal(t, 1000, intFromEnv("UNSET_INT_KEY", 1000))
	t.Setenv("TEST_INT_KEY", "250")
	assert.Equal(t, 250, intFromEnv("TEST_INT_KEY", 1000))

	assert.Equal(t, 1.5, floatFromEnv("UNSET_FLOAT_KEY", 1.5))
	t.Setenv("TEST_FLOAT_KEY", "2.5")
	assert.Equal(t, 2.5, floatFromEnv("TEST_FLOAT_KEY", 1.5))

	assert.Equal(t, "paper", getenvDefault("UNSET_STRING_KEY", "paper"))
	t.Setenv("TEST_STRING_KEY", "live")
	assert.Equal(t, "live", getenvDefault("TEST_STRING_KEY", "paper"))
}
