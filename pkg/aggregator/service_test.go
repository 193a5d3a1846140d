package aggregator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/solardb"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *solardb.Store {
	t.Helper()
	store, err := solardb.Open(filepath.Join(t.TempDir(), "agg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	rows := []types.Reading{
		{Timestamp: "2025-01-10 12:00:00", HouseID: 1, ConsumptionKWh: 10, GenerationKWh: 20, SurplusKWh: 10},
		{Timestamp: "2025-01-10 12:30:00", HouseID: 1, ConsumptionKWh: 14, GenerationKWh: 10, SurplusKWh: -4},
		{Timestamp: "2025-01-10 12:00:00", HouseID: 2, ConsumptionKWh: 8, GenerationKWh: 20, SurplusKWh: 12},
		// Next hour, must not leak into 12:00
		{Timestamp: "2025-01-10 13:00:00", HouseID: 1, ConsumptionKWh: 20, GenerationKWh: 0, SurplusKWh: -20},
	}
	for _, r := range rows {
		require.NoError(t, store.Append(ctx, []types.Reading{r}, nil))
	}
	return store
}

func TestRoundToHourStart(t *testing.T) {
	in := time.Date(2025, 3, 4, 15, 42, 17, 5, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC), roundToHourStart(in))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), roundToDayStart(in))
}

func TestAggregateHourPerHouse(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	agg := New(store.DB())

	require.NoError(t, agg.AggregateHour(ctx, time.Date(2025, 1, 10, 12, 45, 0, 0, time.UTC)))

	result, err := agg.Aggregates(ctx, Hourly, 0, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)

	house1 := result[0]
	assert.Equal(t, "2025-01-10 12:00:00", house1.Start)
	assert.Equal(t, 1, house1.HouseID)
	assert.InDelta(t, 12.0, house1.AvgConsumptionKWh, 1e-9)
	assert.InDelta(t, 15.0, house1.AvgGenerationKWh, 1e-9)
	assert.InDelta(t, 3.0, house1.AvgSurplusKWh, 1e-9)
	assert.Equal(t, 2, house1.SampleCount)

	assert.Equal(t, 2, result[1].HouseID)
	assert.Equal(t, 1, result[1].SampleCount)
}

func TestAggregateHourIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	agg := New(store.DB())

	hour := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, agg.AggregateHour(ctx, hour))
	require.NoError(t, agg.AggregateHour(ctx, hour))

	result, err := agg.Aggregates(ctx, Hourly, 1, 10)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestAggregateEmptyHourWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	agg := New(store.DB())

	require.NoError(t, agg.AggregateHour(ctx, time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)))

	result, err := agg.Aggregates(ctx, Hourly, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestAggregateDayAndRawUntouched(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	agg := New(store.DB())

	require.NoError(t, agg.AggregateRecent(ctx, time.Date(2025, 1, 10, 13, 5, 0, 0, time.UTC)))

	daily, err := agg.Aggregates(ctx, Daily, 1, 10)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "2025-01-10 00:00:00", daily[0].Start)
	assert.Equal(t, 3, daily[0].SampleCount)

	hourly, err := agg.Aggregates(ctx, Hourly, 1, 10)
	require.NoError(t, err)
	require.Len(t, hourly, 2)
	// Newest first
	assert.Equal(t, "2025-01-10 13:00:00", hourly[0].Start)

	raw, err := store.AllReadings(ctx)
	require.NoError(t, err)
	assert.Len(t, raw, 4)
}
