package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPair(t *testing.T) {
	base, quote, ok := SplitPair("EUR/USD")
	require.True(t, ok)
	assert.Equal(t, "EUR", base)
	assert.Equal(t, "USD", quote)

	for _, bad := range []string{"", "EURUSD", "/USD", "EUR/"} {
		_, _, ok := SplitPair(bad)
		assert.False(t, ok, "expected failure for %q", bad)
	}
}

func TestInstrumentBaseQuote(t *testing.T) {
	inst := Instrument{UIC: 31, Symbol: "USD/JPY"}
	assert.Equal(t, "USD", inst.Base())
	assert.Equal(t, "JPY", inst.Quote())
}

func TestIsInsufficientFunds(t *testing.T) {
	err := &InsufficientFundsError{Required: 110000, Available: 90000}
	assert.Equal(t, "insufficient funds: cost=110000.00 available=90000.00", err.Error())

	wrapped := fmt.Errorf("place order: %w", err)
	assert.True(t, IsInsufficientFunds(wrapped))
	assert.False(t, IsInsufficientFunds(errors.New("other")))
	assert.False(t, IsInsufficientFunds(ErrNoPosition))
}
