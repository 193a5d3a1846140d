package report

import (
	"errors"
	"fmt"
	"slices"

	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

var ErrNoData = errors.New("no readings for house")

// RenderHouseChart plots consumption against generation over the given readings of one house.
// At most the last width readings are plotted.
func RenderHouseChart(readings []types.Reading, houseID, width, height int) (string, error) {
	history := lo.Filter(readings, func(r types.Reading, _ int) bool {
		return r.HouseID == houseID
	})
	if len(history) == 0 {
		return "", fmt.Errorf("%w %d", ErrNoData, houseID)
	}
	if width > 0 && len(history) > width {
		history = history[len(history)-width:]
	}

	consumption := lo.Map(history, func(r types.Reading, _ int) float64 { return r.ConsumptionKWh })
	generation := lo.Map(history, func(r types.Reading, _ int) float64 { return r.GenerationKWh })

	opts := []asciigraph.Option{
		asciigraph.Precision(1),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("House %d - consumption vs generation (kWh)", houseID)),
		asciigraph.SeriesLegends("consumption", "generation"),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.PlotMany([][]float64{consumption, generation}, opts...), nil
}

// HouseSummary describes the history of one house.
type HouseSummary struct {
	HouseID            int     `json:"house_id"`
	Samples            int     `json:"samples"`
	MeanConsumptionKWh float64 `json:"mean_consumption_kwh"`
	StdConsumptionKWh  float64 `json:"std_consumption_kwh"`
	MeanGenerationKWh  float64 `json:"mean_generation_kwh"`
	MeanSurplusKWh     float64 `json:"mean_surplus_kwh"`
	TotalSurplusKWh    float64 `json:"total_surplus_kwh"`
}

// Summarize computes per house statistics, ordered by house id.
func Summarize(readings []types.Reading) []HouseSummary {
	byHouse := lo.GroupBy(readings, func(r types.Reading) int { return r.HouseID })
	houses := lo.Keys(byHouse)
	slices.Sort(houses)

	summaries := make([]HouseSummary, 0, len(houses))
	for _, id := range houses {
		history := byHouse[id]
		consumption := lo.Map(history, func(r types.Reading, _ int) float64 { return r.ConsumptionKWh })
		generation := lo.Map(history, func(r types.Reading, _ int) float64 { return r.GenerationKWh })
		surplus := lo.Map(history, func(r types.Reading, _ int) float64 { return r.SurplusKWh })

		std := 0.0
		if len(history) > 1 {
			std = stat.StdDev(consumption, nil)
		}
		summaries = append(summaries, HouseSummary{
			HouseID:            id,
			Samples:            len(history),
			MeanConsumptionKWh: stat.Mean(consumption, nil),
			StdConsumptionKWh:  std,
			MeanGenerationKWh:  stat.Mean(generation, nil),
			MeanSurplusKWh:     stat.Mean(surplus, nil),
			TotalSurplusKWh:    lo.Sum(surplus),
		})
	}
	return summaries
}
