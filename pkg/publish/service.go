package publish

import (
	"context"
	"errors"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
)

// Multi publishes to every publisher, a failing one does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, update *livefeed.TickUpdate) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
