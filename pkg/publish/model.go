package publish

import (
	"context"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
)

// Publisher forwards committed ticks to an external system.
// Publishing happens after the commit and never affects it.
type Publisher interface {
	Publish(ctx context.Context, update *livefeed.TickUpdate) error
	Close() error
}

// ReadingMessage is the payload sent for each house of a committed tick.
type ReadingMessage struct {
	TickID         string  `json:"tick_id"`
	Timestamp      string  `json:"timestamp"`
	HouseID        int     `json:"house_id"`
	ConsumptionKWh float64 `json:"consumption_kwh"`
	GenerationKWh  float64 `json:"generation_kwh"`
	SurplusKWh     float64 `json:"surplus_kwh"`
	Season         string  `json:"season"`
	Weather        string  `json:"weather"`
}

// buildMessages returns one message per reading, none for a paused tick.
func buildMessages(update *livefeed.TickUpdate) []ReadingMessage {
	if update == nil || update.Paused {
		return nil
	}
	messages := make([]ReadingMessage, 0, len(update.Readings))
	for _, r := range update.Readings {
		messages = append(messages, ReadingMessage{
			TickID:         update.TickID,
			Timestamp:      r.Timestamp,
			HouseID:        r.HouseID,
			ConsumptionKWh: r.ConsumptionKWh,
			GenerationKWh:  r.GenerationKWh,
			SurplusKWh:     r.SurplusKWh,
			Season:         update.Season,
			Weather:        update.Weather,
		})
	}
	return messages
}
