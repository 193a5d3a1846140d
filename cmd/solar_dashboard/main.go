// Solar dashboard renders the live feed of the simulator API in the terminal.
// Depends on the simulator API being online.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NotCoffee418/smartcity_solar/pkg/config"
	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/pathing"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	_ = godotenv.Load()

	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadDashboardConfig(); err != nil {
		log.Fatalf("Failed to load dashboard config: %v", err)
	}
	cfg := config.ActiveDashboardConfig

	var house int
	var noClear bool
	pflag.StringVarP(&cfg.SimulatorAPIHost, "host", "H", cfg.SimulatorAPIHost,
		"Simulator API host:port")
	pflag.BoolVar(&cfg.TLSEnabled, "tls", cfg.TLSEnabled,
		"Connect with wss://")
	pflag.IntVarP(&house, "house", "n", 1,
		"House to chart")
	pflag.IntVarP(&cfg.ChartWidth, "width", "w", cfg.ChartWidth,
		"Chart width, also the number of ticks plotted")
	pflag.IntVar(&cfg.ChartHeight, "height", cfg.ChartHeight,
		"Chart height")
	pflag.BoolVar(&noClear, "no-clear", false,
		"Append frames instead of redrawing the screen")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid dashboard options: %v", err)
	}
	if house < 1 {
		log.Fatalf("House must be at least 1, got %d", house)
	}

	d := &dashboard{
		out:         os.Stdout,
		house:       house,
		chartWidth:  cfg.ChartWidth,
		chartHeight: cfg.ChartHeight,
		maxTicks:    cfg.HistoryLength,
		clear:       !noClear,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subscribe to websocket with revive
	livefeed.StartListener(ctx, cfg.SimulatorAPIHost, cfg.TLSEnabled, d.handleUpdate)
}
