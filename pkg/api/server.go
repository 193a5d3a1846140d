// Package api serves the simulator over HTTP and the live feed websocket.
package api

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/agent"
	"github.com/NotCoffee418/smartcity_solar/pkg/aggregator"
	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/publish"
	"github.com/NotCoffee418/smartcity_solar/pkg/runner"
	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
	"github.com/NotCoffee418/smartcity_solar/pkg/solardb"
	"github.com/NotCoffee418/smartcity_solar/pkg/solarmetrics"
)

const publishTimeout = 10 * time.Second

// Deps are the collaborators of the server. Answerer, Publisher and Metrics may be nil.
type Deps struct {
	Store      *solardb.Store
	Runner     *runner.Runner
	Aggregator *aggregator.Aggregator
	Answerer   agent.Answerer
	Publisher  publish.Publisher
	Metrics    *solarmetrics.Metrics

	ReportDir          string
	ReportLinesPerPage int
}

type Server struct {
	deps   Deps
	hub    *livefeed.Hub
	latest atomic.Pointer[livefeed.TickUpdate]
}

func NewServer(deps Deps) *Server {
	s := &Server{deps: deps}
	s.hub = livefeed.NewHub(s.LatestUpdate)
	return s
}

// HandleTick runs after a tick is committed: it updates the status,
// notifies live feed clients, metrics and publishers.
func (s *Server) HandleTick(tick *simulator.Tick) {
	update := livefeed.NewTickUpdate(tick)
	s.deps.Metrics.ObserveTick(tick)

	// Manual and periodic ticks may arrive out of order, the feed never goes back
	if !s.storeLatest(update) {
		log.Printf("Tick %s at %s is older than the latest status, not broadcast", update.TickID, update.Timestamp)
	} else {
		s.hub.Broadcast(update)
	}

	if s.deps.Publisher == nil || update.Paused {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.deps.Publisher.Publish(ctx, update); err != nil {
		log.Printf("Failed to publish tick %s: %v", update.TickID, err)
	}
}

func (s *Server) storeLatest(update *livefeed.TickUpdate) bool {
	for {
		current := s.latest.Load()
		if current != nil && update.Timestamp < current.Timestamp {
			return false
		}
		if s.latest.CompareAndSwap(current, update) {
			return true
		}
	}
}

// HandleTickError records a failed tick.
func (s *Server) HandleTickError(err error) {
	s.deps.Metrics.ObserveFailure()
	log.Printf("Tick failed: %v", err)
}

// LatestUpdate returns the status of the latest tick, nil before the first one.
func (s *Server) LatestUpdate() *livefeed.TickUpdate {
	return s.latest.Load()
}

// Close disconnects live feed clients.
func (s *Server) Close() {
	s.hub.Close()
}
