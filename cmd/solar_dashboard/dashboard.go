package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/report"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
)

const clearScreen = "\033[H\033[2J"

// dashboard keeps a bounded history of readings and redraws on every update.
type dashboard struct {
	out         io.Writer
	house       int
	chartWidth  int
	chartHeight int
	maxTicks    int
	clear       bool

	mu      sync.Mutex
	history [][]types.Reading
	latest  []types.Reading
	rooms   []types.RoomActivity
}

func (d *dashboard) handleUpdate(update *livefeed.TickUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Paused ticks only refresh the status line
	if !update.Paused && len(update.Readings) > 0 {
		d.history = append(d.history, update.Readings)
		if limit := max(d.maxTicks, 1); len(d.history) > limit {
			d.history = d.history[len(d.history)-limit:]
		}
		d.latest = update.Readings
		d.rooms = update.Rooms
	}

	if err := d.render(update); err != nil {
		fmt.Fprintf(d.out, "render failed: %v\n", err)
	}
}

func (d *dashboard) flatHistory() []types.Reading {
	var all []types.Reading
	for _, tick := range d.history {
		all = append(all, tick...)
	}
	return all
}

func (d *dashboard) render(update *livefeed.TickUpdate) error {
	var b strings.Builder
	if d.clear {
		b.WriteString(clearScreen)
	}

	fmt.Fprintf(&b, "Smart City Solar - %s\n", update.Timestamp)
	fmt.Fprintln(&b, report.StatusLine(update))
	fmt.Fprintln(&b)

	if len(d.latest) == 0 {
		fmt.Fprintln(&b, "No readings yet")
		_, err := io.WriteString(d.out, b.String())
		return err
	}

	if err := report.RenderLatestTable(&b, d.latest); err != nil {
		return err
	}
	fmt.Fprintln(&b)
	if err := report.RenderRoomTable(&b, d.rooms); err != nil {
		return err
	}
	fmt.Fprintln(&b)

	history := d.flatHistory()
	if chart, err := report.RenderHouseChart(history, d.house, d.chartWidth, d.chartHeight); err == nil {
		fmt.Fprintln(&b, chart)
	} else {
		fmt.Fprintln(&b, err)
	}
	fmt.Fprintln(&b)

	for _, s := range report.Summarize(history) {
		if s.HouseID != d.house {
			continue
		}
		fmt.Fprintf(&b, "House %d over %d ticks: mean consumption %.2f kWh (sd %.2f), mean surplus %.2f kWh\n",
			s.HouseID, s.Samples, s.MeanConsumptionKWh, s.StdConsumptionKWh, s.MeanSurplusKWh)
	}

	_, err := io.WriteString(d.out, b.String())
	return err
}
