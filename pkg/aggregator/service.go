package aggregator

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/types"
)

// Aggregator writes per-house rollups of the readings table.
// Rollup tables are derived and may be rewritten; raw readings are never touched.
type Aggregator struct {
	db *sql.DB
}

func New(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// roundToHourStart returns the start of the hour for the given time, in its own location
func roundToHourStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// roundToDayStart returns the start of the day for the given time, in its own location
func roundToDayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AggregateHour averages every house's readings in the hour containing hourStart.
func (a *Aggregator) AggregateHour(ctx context.Context, hourStart time.Time) error {
	start := roundToHourStart(hourStart)
	return a.aggregate(ctx, Hourly, start, start.Add(time.Hour))
}

// AggregateDay averages every house's readings in the day containing dayStart.
func (a *Aggregator) AggregateDay(ctx context.Context, dayStart time.Time) error {
	start := roundToDayStart(dayStart)
	return a.aggregate(ctx, Daily, start, start.AddDate(0, 0, 1))
}

func (a *Aggregator) aggregate(ctx context.Context, tf Timeframe, start, end time.Time) error {
	startText := types.FormatTimestamp(start)

	// Timestamps are fixed width text so lexical order is chronological
	query := `
		SELECT
			house_id,
			AVG(consumption_kwh) as avg_consumption,
			AVG(generation_kwh) as avg_generation,
			AVG(surplus_kwh) as avg_surplus,
			COUNT(*) as count
		FROM readings
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY house_id
	`

	rows, err := a.db.QueryContext(ctx, query, startText, types.FormatTimestamp(end))
	if err != nil {
		return err
	}

	var aggregates []HouseAggregate
	for rows.Next() {
		agg := HouseAggregate{Timeframe: tf, Start: startText}
		if err := rows.Scan(&agg.HouseID, &agg.AvgConsumptionKWh, &agg.AvgGenerationKWh, &agg.AvgSurplusKWh, &agg.SampleCount); err != nil {
			rows.Close()
			return err
		}
		aggregates = append(aggregates, agg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// Only insert if we have data
	if len(aggregates) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT OR REPLACE INTO ` + tf.table() + `
		(` + tf.startColumn() + `, house_id, avg_consumption_kwh, avg_generation_kwh, avg_surplus_kwh, sample_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, agg := range aggregates {
		_, err := tx.ExecContext(ctx, insertQuery,
			agg.Start, agg.HouseID, agg.AvgConsumptionKWh, agg.AvgGenerationKWh, agg.AvgSurplusKWh, agg.SampleCount)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AggregateRecent refreshes the previous and current hour, and the previous day
// when now falls in the first hour of a new day.
// This is the main function to call periodically.
func (a *Aggregator) AggregateRecent(ctx context.Context, now time.Time) error {
	// Current hour is still ongoing, it is rewritten on the next run
	for _, hour := range []time.Time{now.Add(-time.Hour), now} {
		if err := a.AggregateHour(ctx, hour); err != nil {
			log.Printf("Error aggregating hour %s: %v", types.FormatTimestamp(roundToHourStart(hour)), err)
			return err
		}
	}

	if now.Hour() == 0 {
		previousDay := now.AddDate(0, 0, -1)
		log.Printf("Aggregating data for day starting at %s", types.FormatTimestamp(roundToDayStart(previousDay)))
		if err := a.AggregateDay(ctx, previousDay); err != nil {
			log.Printf("Error aggregating day: %v", err)
			return err
		}
	}
	if err := a.AggregateDay(ctx, now); err != nil {
		log.Printf("Error aggregating day: %v", err)
		return err
	}
	return nil
}

// Aggregates returns the most recent rollups of a timeframe, newest first.
// houseID 0 returns every house.
func (a *Aggregator) Aggregates(ctx context.Context, tf Timeframe, houseID int, limit int) ([]HouseAggregate, error) {
	if limit <= 0 {
		limit = 24
	}

	query := `
		SELECT ` + tf.startColumn() + `, house_id, avg_consumption_kwh, avg_generation_kwh, avg_surplus_kwh, sample_count
		FROM ` + tf.table() + `
		WHERE (? = 0 OR house_id = ?)
		ORDER BY ` + tf.startColumn() + ` DESC, house_id
		LIMIT ?
	`
	rows, err := a.db.QueryContext(ctx, query, houseID, houseID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []HouseAggregate{}
	for rows.Next() {
		agg := HouseAggregate{Timeframe: tf}
		if err := rows.Scan(&agg.Start, &agg.HouseID, &agg.AvgConsumptionKWh, &agg.AvgGenerationKWh, &agg.AvgSurplusKWh, &agg.SampleCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	return result, rows.Err()
}

// RunPeriodically aggregates every interval until ctx is cancelled.
func (a *Aggregator) RunPeriodically(ctx context.Context, interval time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.AggregateRecent(ctx, now()); err != nil {
				log.Printf("Aggregation failed: %v", err)
			}
		}
	}
}
