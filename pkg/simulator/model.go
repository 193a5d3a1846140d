package simulator

import (
	"math/rand"

	"github.com/NotCoffee418/smartcity_solar/pkg/simclock"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/NotCoffee418/smartcity_solar/pkg/weather"
)

// Consumption is drawn uniformly from [MinConsumptionKWh, MaxConsumptionKWh).
const (
	MinConsumptionKWh = 8.0
	MaxConsumptionKWh = 20.0
)

// Room counters are drawn uniformly from [0, MaxRoomActivations].
const MaxRoomActivations = 4

type Simulator struct {
	rng   *rand.Rand
	clock simclock.Clock
	opts  Options
}

// Options are expected to be validated by the caller (see config.Validate).
type Options struct {
	Houses           []int
	PanelCapacityKWp float64
	Efficiency       float64

	// Inclusive daylight window
	DaylightStartHour int
	DaylightEndHour   int
}

// TickParams carries everything shared by all houses within one tick.
type TickParams struct {
	Timestamp        string
	Hour             int
	PanelCapacityKWp float64
	Efficiency       float64
	SunlightHours    float64
	WeatherFactor    float64
}

// Tick is the outcome of one simulation step.
// Readings and Rooms are empty when Paused.
type Tick struct {
	Context       simclock.Context
	Weather       weather.Condition
	WeatherFactor float64
	SunlightHours float64
	Paused        bool

	Readings []types.Reading
	Rooms    []types.RoomActivity
}
