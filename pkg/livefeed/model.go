package livefeed

import (
	"encoding/json"
	"log"

	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
	"github.com/NotCoffee418/smartcity_solar/pkg/solarutils"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/google/uuid"
)

// TickUpdate is sent to every live feed client after each tick,
// including paused ticks so clients can show the current conditions.
type TickUpdate struct {
	TickID        string  `json:"tick_id"`
	Timestamp     string  `json:"timestamp"`
	Season        string  `json:"season"`
	Hour          int     `json:"hour"`
	Weather       string  `json:"weather"`
	WeatherFactor float64 `json:"weather_factor"`
	FactorPercent int     `json:"factor_percent"`
	SunlightHours float64 `json:"sunlight_hours"`
	Paused        bool    `json:"paused"`

	Readings []types.Reading      `json:"readings"`
	Rooms    []types.RoomActivity `json:"rooms"`
}

func NewTickUpdate(tick *simulator.Tick) *TickUpdate {
	update := &TickUpdate{
		TickID:        uuid.NewString(),
		Timestamp:     types.FormatTimestamp(tick.Context.Time),
		Season:        string(tick.Context.Season),
		Hour:          tick.Context.Hour,
		Weather:       string(tick.Weather),
		WeatherFactor: tick.WeatherFactor,
		FactorPercent: solarutils.FactorPercent(tick.WeatherFactor),
		SunlightHours: solarutils.Round(tick.SunlightHours, 2),
		Paused:        tick.Paused,
		Readings:      tick.Readings,
		Rooms:         tick.Rooms,
	}
	if update.Readings == nil {
		update.Readings = []types.Reading{}
	}
	if update.Rooms == nil {
		update.Rooms = []types.RoomActivity{}
	}
	return update
}

func (u *TickUpdate) ToJsonBytes() []byte {
	data, err := json.Marshal(u)
	if err != nil {
		log.Printf("Failed to marshal tick update: %v", err)
		return nil
	}
	return data
}

// Returns nil when data is not a tick update.
func TickUpdateFromJsonBytes(data []byte) *TickUpdate {
	var update TickUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil
	}
	if update.TickID == "" {
		return nil
	}
	return &update
}
