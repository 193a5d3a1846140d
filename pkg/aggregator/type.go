package aggregator

type Timeframe int

const (
	Hourly Timeframe = iota
	Daily
)

func (t Timeframe) table() string {
	if t == Daily {
		return "aggregate_house_daily"
	}
	return "aggregate_house_hourly"
}

func (t Timeframe) startColumn() string {
	if t == Daily {
		return "day_start"
	}
	return "hour_start"
}

// HouseAggregate is the average of one house's readings over a timeframe.
type HouseAggregate struct {
	Timeframe         Timeframe `json:"-"`
	Start             string    `json:"start"`
	HouseID           int       `json:"house_id"`
	AvgConsumptionKWh float64   `json:"avg_consumption_kwh"`
	AvgGenerationKWh  float64   `json:"avg_generation_kwh"`
	AvgSurplusKWh     float64   `json:"avg_surplus_kwh"`
	SampleCount       int       `json:"sample_count"`
}
