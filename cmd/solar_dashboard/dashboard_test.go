package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(second int, paused bool) *livefeed.TickUpdate {
	ts := fmt.Sprintf("2025-01-10 12:00:%02d", second)
	u := &livefeed.TickUpdate{
		TickID:        fmt.Sprintf("tick-%d", second),
		Timestamp:     ts,
		Season:        "summer",
		Hour:          12,
		Weather:       "sunny",
		FactorPercent: 100,
		SunlightHours: 6,
		Paused:        paused,
	}
	if !paused {
		for id := 1; id <= 2; id++ {
			u.Readings = append(u.Readings, types.Reading{Timestamp: ts, HouseID: id, ConsumptionKWh: 10 + float64(second), GenerationKWh: 16.8, SurplusKWh: 6.8 - float64(second)})
			u.Rooms = append(u.Rooms, types.RoomActivity{Timestamp: ts, HouseID: id})
		}
	}
	return u
}

func TestDashboardKeepsBoundedHistory(t *testing.T) {
	var out bytes.Buffer
	d := &dashboard{out: &out, house: 1, chartWidth: 20, chartHeight: 4, maxTicks: 3}

	for i := 0; i < 5; i++ {
		d.handleUpdate(update(i, false))
	}

	require.Len(t, d.history, 3)
	assert.Equal(t, "2025-01-10 12:00:02", d.history[0][0].Timestamp)
	assert.Len(t, d.flatHistory(), 6)
	assert.Contains(t, out.String(), "House 1 over 3 ticks")
}

func TestDashboardNonPositiveHistoryKeepsLatest(t *testing.T) {
	for _, maxTicks := range []int{0, -1} {
		var out bytes.Buffer
		d := &dashboard{out: &out, house: 1, chartWidth: 20, chartHeight: 4, maxTicks: maxTicks}

		assert.NotPanics(t, func() {
			d.handleUpdate(update(1, false))
			d.handleUpdate(update(2, false))
		})
		require.Len(t, d.history, 1, "maxTicks %d", maxTicks)
		assert.Equal(t, "2025-01-10 12:00:02", d.history[0][0].Timestamp)
	}
}

func TestDashboardPausedKeepsLastTable(t *testing.T) {
	var out bytes.Buffer
	d := &dashboard{out: &out, house: 1, chartWidth: 20, chartHeight: 4, maxTicks: 10}

	d.handleUpdate(update(0, false))
	out.Reset()
	d.handleUpdate(update(1, true))

	assert.Len(t, d.history, 1)
	assert.Contains(t, out.String(), "generation paused")
	assert.Contains(t, out.String(), "16.80")
}

func TestDashboardBeforeFirstReadings(t *testing.T) {
	var out bytes.Buffer
	d := &dashboard{out: &out, house: 1, maxTicks: 10, clear: true}

	d.handleUpdate(update(0, true))
	assert.Contains(t, out.String(), clearScreen)
	assert.Contains(t, out.String(), "No readings yet")
}
