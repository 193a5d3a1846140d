package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/solarutils"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func rightAligned() tablewriter.Option {
	return tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
	})
}

func str2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderLatestTable writes one row per house with its latest energy balance.
func RenderLatestTable(w io.Writer, readings []types.Reading) error {
	table := tablewriter.NewTable(w, rightAligned())
	table.Header([]string{"House", "Timestamp", "Consumption kWh", "Generation kWh", "Surplus kWh"})

	for _, r := range readings {
		row := []string{
			strconv.Itoa(r.HouseID),
			r.Timestamp,
			str2(r.ConsumptionKWh),
			str2(r.GenerationKWh),
			str2(r.SurplusKWh),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderRoomTable writes one row per house with its latest room activity.
func RenderRoomTable(w io.Writer, rooms []types.RoomActivity) error {
	table := tablewriter.NewTable(w, rightAligned())

	headers := []string{"House"}
	headers = append(headers, types.RoomNames[:]...)
	table.Header(headers)

	for _, a := range rooms {
		row := []string{strconv.Itoa(a.HouseID)}
		for _, count := range a.Counts() {
			row = append(row, strconv.Itoa(count))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// StatusLine summarises the conditions of a tick on one line.
func StatusLine(u *livefeed.TickUpdate) string {
	line := fmt.Sprintf("Season: %s | Hour: %02dh | Weather: %s | Sunlight: %.1f h | Factor: %d%%",
		u.Season, u.Hour, u.Weather, u.SunlightHours, u.FactorPercent)
	if u.Paused {
		return line + " | Outside solar hours, generation paused"
	}
	// Generation is the same for every house within a tick
	if len(u.Readings) > 0 {
		line += " | Generation: " + solarutils.FormatKWh(u.Readings[0].GenerationKWh)
	}
	return line
}
