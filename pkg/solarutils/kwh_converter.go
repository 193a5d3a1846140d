package solarutils

import (
	"fmt"
	"math"
)

// Round to the given number of decimals, half away from zero.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// FormatKWh renders an energy value with two decimals and its unit.
func FormatKWh(kwh float64) string {
	return fmt.Sprintf("%.2f kWh", Round(kwh, 2))
}

// FactorPercent turns a factor in [0,1] into a whole percentage.
func FactorPercent(factor float64) int {
	return int(math.Round(factor * 100))
}
