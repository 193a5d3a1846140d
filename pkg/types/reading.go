package types

import "time"

// Layout of every persisted and transmitted timestamp.
// Second resolution, sorts lexically in time order.
const TimestampLayout = "2006-01-02 15:04:05"

// Reading is the energy balance of one house for one tick.
type Reading struct {
	Timestamp string `json:"timestamp" db:"timestamp"`
	HouseID   int    `json:"house_id" db:"house_id"`

	ConsumptionKWh float64 `json:"consumption_kwh" db:"consumption_kwh"`
	// Same value for every house within a tick.
	GenerationKWh float64 `json:"generation_kwh" db:"generation_kwh"`
	// GenerationKWh - ConsumptionKWh, negative on a deficit.
	SurplusKWh float64 `json:"surplus_kwh" db:"surplus_kwh"`
}

// RoomActivity holds the activation count per room of one house for one tick.
type RoomActivity struct {
	Timestamp string `json:"timestamp" db:"timestamp"`
	HouseID   int    `json:"house_id" db:"house_id"`

	LivingRoom int `json:"living_room" db:"living_room"`
	Kitchen    int `json:"kitchen" db:"kitchen"`
	Bedroom    int `json:"bedroom" db:"bedroom"`
	Bathroom   int `json:"bathroom" db:"bathroom"`
	Laundry    int `json:"laundry" db:"laundry"`
}

// Counts returns the room counters in column order.
func (r RoomActivity) Counts() [5]int {
	return [5]int{r.LivingRoom, r.Kitchen, r.Bedroom, r.Bathroom, r.Laundry}
}

// RoomNames matches the order of RoomActivity.Counts.
var RoomNames = [5]string{"living_room", "kitchen", "bedroom", "bathroom", "laundry"}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
