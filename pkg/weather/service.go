package weather

import (
	"fmt"
	"math/rand"

	"github.com/NotCoffee418/smartcity_solar/pkg/simclock"
	"gonum.org/v1/gonum/stat/distuv"
)

type Condition string

const (
	Sunny        Condition = "sunny"
	PartlyCloudy Condition = "partly_cloudy"
	Cloudy       Condition = "cloudy"
	Rainy        Condition = "rainy"
)

type weighted struct {
	condition Condition
	weight    float64
	factor    float64
}

// Order matters for Draw, weights sum to 1.
var conditions = []weighted{
	{Sunny, 0.4, 1.0},
	{PartlyCloudy, 0.3, 0.7},
	{Cloudy, 0.2, 0.4},
	{Rainy, 0.1, 0.2},
}

// Sunlight hours per season, drawn uniformly from [min, max).
var sunlightRanges = map[simclock.Season][2]float64{
	simclock.Summer: {5.5, 6.5},
	simclock.Autumn: {4.0, 5.5},
	simclock.Winter: {3.0, 4.5},
	simclock.Spring: {4.5, 6.0},
}

// Draw picks one condition using the fixed categorical weights.
func Draw(rng *rand.Rand) Condition {
	weights := make([]float64, len(conditions))
	for i, c := range conditions {
		weights[i] = c.weight
	}
	pick := distuv.NewCategorical(weights, rng)
	return conditions[int(pick.Rand())].condition
}

// Factor is the multiplicative generation derate for a condition.
// Unknown conditions derate to zero.
func Factor(c Condition) float64 {
	for _, w := range conditions {
		if w.condition == c {
			return w.factor
		}
	}
	return 0
}

func SunlightHours(rng *rand.Rand, season simclock.Season) (float64, error) {
	lo, hi, ok := SunlightRange(season)
	if !ok {
		return 0, fmt.Errorf("unknown season %q", season)
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand(), nil
}

// SunlightRange returns the bounds SunlightHours draws from.
func SunlightRange(season simclock.Season) (float64, float64, bool) {
	r, ok := sunlightRanges[season]
	return r[0], r[1], ok
}
