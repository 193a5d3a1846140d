package runner

import (
	"context"
	"sync"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
)

// Stepper produces one simulation tick. Implemented by *simulator.Simulator.
type Stepper interface {
	Step() (*simulator.Tick, error)
}

// Appender persists one tick atomically. Implemented by *solardb.Store.
type Appender interface {
	Append(ctx context.Context, readings []types.Reading, rooms []types.RoomActivity) error
}

// Runner is the single writer of the store.
// Periodic and manual ticks share tickMutex so appends never overlap.
type Runner struct {
	stepper  Stepper
	store    Appender
	interval time.Duration

	tickMutex sync.Mutex

	latestTick  *simulator.Tick
	latestMutex sync.RWMutex

	stopOnce sync.Once
	stop     chan struct{}
}
