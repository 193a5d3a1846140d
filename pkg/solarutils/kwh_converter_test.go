package solarutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundAndFormat(t *testing.T) {
	assert.Equal(t, 12.35, Round(12.345678, 2))
	assert.Equal(t, -4.1, Round(-4.0951, 1))
	assert.Equal(t, "24.00 kWh", FormatKWh(24))
	assert.Equal(t, "-3.46 kWh", FormatKWh(-3.456))
}

func TestFactorPercent(t *testing.T) {
	assert.Equal(t, 70, FactorPercent(0.7))
	assert.Equal(t, 100, FactorPercent(1.0))
	assert.Equal(t, 20, FactorPercent(0.2))
}
