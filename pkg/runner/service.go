package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
)

// Tolerance before we report error.
const maxConsecutiveErrors = 10

// Committed ticks waiting for handleTick before the loop blocks.
const tickBacklog = 16

func New(stepper Stepper, store Appender, interval time.Duration) *Runner {
	return &Runner{
		stepper:  stepper,
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// RunOnce computes one tick and commits it before returning.
// A paused tick commits nothing but still becomes the latest tick.
// On failure nothing is committed and the latest tick is unchanged.
func (r *Runner) RunOnce(ctx context.Context) (*simulator.Tick, error) {
	r.tickMutex.Lock()
	defer r.tickMutex.Unlock()

	tick, err := r.stepper.Step()
	if err != nil {
		return nil, fmt.Errorf("simulation step failed: %w", err)
	}

	if !tick.Paused {
		if err := r.store.Append(ctx, tick.Readings, tick.Rooms); err != nil {
			return nil, err
		}
	}

	r.latestMutex.Lock()
	r.latestTick = tick
	r.latestMutex.Unlock()
	return tick, nil
}

// Start simulating one tick per interval, the first one immediately.
// Runs in goroutine. handleTick() runs on a single consumer goroutine, after the tick is committed,
// so ticks are handled one at a time and in commit order.
// handleError is called once when too many consecutive ticks failed, after which simulating stops.
func (r *Runner) StartSimulating(
	handleTick func(tick *simulator.Tick),
	handleError func(error),
) {
	ticks := make(chan *simulator.Tick, tickBacklog)
	go func() {
		for tick := range ticks {
			handleTick(tick)
		}
	}()

	go func() {
		defer close(ticks)
		consecutiveErrors := 0
		var lastError error

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for consecutiveErrors < maxConsecutiveErrors {
			tick, err := r.RunOnce(context.Background())
			if err != nil {
				consecutiveErrors++
				lastError = err
				log.Printf("Error running tick (%d/%d): %v", consecutiveErrors, maxConsecutiveErrors, err)
			} else {
				consecutiveErrors = 0
				if tick.Paused {
					log.Printf("Hour %d is outside the daylight window, generation paused", tick.Context.Hour)
				}
				ticks <- tick
			}

			select {
			case <-r.stop:
				log.Println("Stop signal received, simulation stopped")
				return
			case <-ticker.C:
			}
		}

		log.Printf("Too many consecutive errors (%d), stopping simulation: %v", maxConsecutiveErrors, lastError)
		handleError(lastError)
	}()
}

// Safe to call more than once.
func (r *Runner) StopSimulating() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Runner) GetLatestTick() *simulator.Tick {
	r.latestMutex.RLock()
	defer r.latestMutex.RUnlock()
	return r.latestTick
}
