package simulator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/simclock"
	"github.com/NotCoffee418/smartcity_solar/pkg/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(seed int64, at time.Time) *Simulator {
	return New(rand.New(rand.NewSource(seed)), simclock.Fixed(at), Options{
		Houses:           Houses(10),
		PanelCapacityKWp: 5.0,
		Efficiency:       0.8,
	})
}

func TestHouses(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Houses(3))
	assert.Empty(t, Houses(0))
}

func TestSimulateTickNoonExample(t *testing.T) {
	s := newTestSimulator(1, time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC))

	readings := s.SimulateTick(Houses(10), TickParams{
		Timestamp:        "2025-01-10 12:00:00",
		Hour:             12,
		PanelCapacityKWp: 5.0,
		Efficiency:       0.8,
		SunlightHours:    6.0,
		WeatherFactor:    1.0,
	})

	require.Len(t, readings, 10)
	for i, r := range readings {
		assert.Equal(t, i+1, r.HouseID)
		assert.Equal(t, "2025-01-10 12:00:00", r.Timestamp)
		assert.Equal(t, 24.0, r.GenerationKWh)
		assert.GreaterOrEqual(t, r.ConsumptionKWh, MinConsumptionKWh)
		assert.Less(t, r.ConsumptionKWh, MaxConsumptionKWh)
		assert.Equal(t, r.GenerationKWh-r.ConsumptionKWh, r.SurplusKWh)
	}
}

func TestSimulateTickOutsideDaylightIsEmpty(t *testing.T) {
	s := newTestSimulator(1, time.Date(2025, time.January, 10, 19, 0, 0, 0, time.UTC))

	for _, hour := range []int{0, 3, 5, 19, 23} {
		readings := s.SimulateTick(Houses(10), TickParams{
			Hour:             hour,
			PanelCapacityKWp: 10.0,
			Efficiency:       0.8,
			SunlightHours:    6.5,
			WeatherFactor:    1.0,
		})
		assert.Empty(t, readings, "hour %d", hour)
	}
}

func TestSimulateTickDaylightEdgesInclusive(t *testing.T) {
	s := newTestSimulator(1, time.Date(2025, time.January, 10, 6, 0, 0, 0, time.UTC))

	for _, hour := range []int{6, 18} {
		readings := s.SimulateTick(Houses(2), TickParams{Hour: hour, PanelCapacityKWp: 1, Efficiency: 0.8, SunlightHours: 4, WeatherFactor: 0.2})
		assert.Len(t, readings, 2, "hour %d", hour)
	}
}

func TestSimulateRoomActivityBounds(t *testing.T) {
	s := newTestSimulator(99, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		rooms := s.SimulateRoomActivity(Houses(10), "2025-03-01 09:00:00")
		require.Len(t, rooms, 10)
		for _, r := range rooms {
			for _, c := range r.Counts() {
				assert.GreaterOrEqual(t, c, 0)
				assert.LessOrEqual(t, c, MaxRoomActivations)
				seen[c] = true
			}
		}
	}
	// Every value of the range shows up eventually
	assert.Len(t, seen, MaxRoomActivations+1)
}

func TestStepSharesWeatherAcrossHouses(t *testing.T) {
	at := time.Date(2025, time.July, 20, 10, 15, 0, 0, time.UTC)
	s := newTestSimulator(3, at)

	tick, err := s.Step()
	require.NoError(t, err)

	assert.False(t, tick.Paused)
	assert.Equal(t, simclock.Winter, tick.Context.Season)
	assert.Equal(t, weather.Factor(tick.Weather), tick.WeatherFactor)
	assert.GreaterOrEqual(t, tick.SunlightHours, 3.0)
	assert.Less(t, tick.SunlightHours, 4.5)

	require.Len(t, tick.Readings, 10)
	require.Len(t, tick.Rooms, 10)
	expected := 5.0 * tick.SunlightHours * 0.8 * tick.WeatherFactor
	for i, r := range tick.Readings {
		assert.InDelta(t, expected, r.GenerationKWh, 1e-9)
		assert.Equal(t, tick.Readings[0].GenerationKWh, r.GenerationKWh)
		assert.Equal(t, "2025-07-20 10:15:00", r.Timestamp)
		assert.Equal(t, r.HouseID, tick.Rooms[i].HouseID)
		assert.Equal(t, r.Timestamp, tick.Rooms[i].Timestamp)
	}
}

func TestStepPausedAtNight(t *testing.T) {
	s := newTestSimulator(3, time.Date(2025, time.July, 20, 22, 0, 0, 0, time.UTC))

	tick, err := s.Step()
	require.NoError(t, err)

	assert.True(t, tick.Paused)
	assert.Empty(t, tick.Readings)
	assert.Empty(t, tick.Rooms)
	// Weather is still drawn so the status can be shown
	assert.NotEmpty(t, tick.Weather)
}

func TestStepDeterministicForSeed(t *testing.T) {
	at := time.Date(2025, time.October, 5, 13, 0, 0, 0, time.UTC)

	a, err := newTestSimulator(11, at).Step()
	require.NoError(t, err)
	b, err := newTestSimulator(11, at).Step()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCustomDaylightWindow(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)), simclock.Fixed(time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)), Options{
		Houses:            Houses(1),
		PanelCapacityKWp:  3.5,
		Efficiency:        0.8,
		DaylightStartHour: 5,
		DaylightEndHour:   20,
	})

	tick, err := s.Step()
	require.NoError(t, err)
	assert.False(t, tick.Paused)
	assert.Len(t, tick.Readings, 1)
}

func TestConsumptionSpreadsOverRange(t *testing.T) {
	s := newTestSimulator(5, time.Date(2025, time.April, 2, 11, 0, 0, 0, time.UTC))

	sum, n := 0.0, 0
	for i := 0; i < 500; i++ {
		for _, r := range s.SimulateTick(Houses(10), TickParams{Hour: 11, PanelCapacityKWp: 5, Efficiency: 0.8, SunlightHours: 5, WeatherFactor: 1}) {
			assert.GreaterOrEqual(t, r.ConsumptionKWh, MinConsumptionKWh)
			assert.Less(t, r.ConsumptionKWh, MaxConsumptionKWh)
			sum += r.ConsumptionKWh
			n++
		}
	}
	// Uniform over [8, 20) averages to 14
	assert.InDelta(t, (MinConsumptionKWh+MaxConsumptionKWh)/2, sum/float64(n), 0.3)
}
