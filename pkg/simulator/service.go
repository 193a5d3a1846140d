package simulator

import (
	"math/rand"

	"github.com/NotCoffee418/smartcity_solar/pkg/simclock"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/NotCoffee418/smartcity_solar/pkg/weather"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initialize a new Simulator.
// rng is owned by the simulator from here on and must not be shared.
func New(rng *rand.Rand, clock simclock.Clock, opts Options) *Simulator {
	if opts.DaylightStartHour == 0 && opts.DaylightEndHour == 0 {
		opts.DaylightStartHour = simclock.DaylightStartHour
		opts.DaylightEndHour = simclock.DaylightEndHour
	}
	return &Simulator{
		rng:   rng,
		clock: clock,
		opts:  opts,
	}
}

// Houses returns the fixed population 1..n.
func Houses(n int) []int {
	houses := make([]int, 0, n)
	for id := 1; id <= n; id++ {
		houses = append(houses, id)
	}
	return houses
}

// Step reads the clock, draws the weather and sunlight hours once,
// then simulates every house. Nothing is persisted here.
func (s *Simulator) Step() (*Tick, error) {
	ctx := simclock.CurrentContext(s.clock)

	condition := weather.Draw(s.rng)
	sunlight, err := weather.SunlightHours(s.rng, ctx.Season)
	if err != nil {
		return nil, err
	}

	tick := &Tick{
		Context:       ctx,
		Weather:       condition,
		WeatherFactor: weather.Factor(condition),
		SunlightHours: sunlight,
	}

	timestamp := types.FormatTimestamp(ctx.Time)
	tick.Readings = s.SimulateTick(s.opts.Houses, TickParams{
		Timestamp:        timestamp,
		Hour:             ctx.Hour,
		PanelCapacityKWp: s.opts.PanelCapacityKWp,
		Efficiency:       s.opts.Efficiency,
		SunlightHours:    sunlight,
		WeatherFactor:    tick.WeatherFactor,
	})
	if len(tick.Readings) == 0 {
		tick.Paused = true
		return tick, nil
	}

	tick.Rooms = s.SimulateRoomActivity(s.opts.Houses, timestamp)
	return tick, nil
}

// SimulateTick computes one reading per house.
// Outside the daylight window nothing is generated and the result is empty.
func (s *Simulator) SimulateTick(houses []int, p TickParams) []types.Reading {
	if !simclock.InDaylight(p.Hour, s.opts.DaylightStartHour, s.opts.DaylightEndHour) {
		return nil
	}

	// Shared by every house this tick
	generation := p.PanelCapacityKWp * p.SunlightHours * p.Efficiency * p.WeatherFactor

	draw := distuv.Uniform{Min: MinConsumptionKWh, Max: MaxConsumptionKWh, Src: s.rng}
	readings := make([]types.Reading, 0, len(houses))
	for _, id := range houses {
		consumption := draw.Rand()
		readings = append(readings, types.Reading{
			Timestamp:      p.Timestamp,
			HouseID:        id,
			ConsumptionKWh: consumption,
			GenerationKWh:  generation,
			SurplusKWh:     generation - consumption,
		})
	}
	return readings
}

// SimulateRoomActivity draws every room counter independently for each house.
func (s *Simulator) SimulateRoomActivity(houses []int, timestamp string) []types.RoomActivity {
	rooms := make([]types.RoomActivity, 0, len(houses))
	for _, id := range houses {
		rooms = append(rooms, types.RoomActivity{
			Timestamp:  timestamp,
			HouseID:    id,
			LivingRoom: s.roomCount(),
			Kitchen:    s.roomCount(),
			Bedroom:    s.roomCount(),
			Bathroom:   s.roomCount(),
			Laundry:    s.roomCount(),
		})
	}
	return rooms
}

func (s *Simulator) roomCount() int {
	return s.rng.Intn(MaxRoomActivations + 1)
}
