package solardb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	readingColumns = "timestamp, house_id, consumption_kwh, generation_kwh, surplus_kwh"
	roomColumns    = "timestamp, house_id, living_room, kitchen, bedroom, bathroom, laundry"
)

// Append persists one tick worth of rows in a single transaction.
// Either every row is committed or none is.
func (s *Store) Append(ctx context.Context, readings []types.Reading, rooms []types.RoomActivity) error {
	if len(readings) == 0 && len(rooms) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	// No-op once committed
	defer tx.Rollback()

	if err := insertReadings(ctx, tx, readings); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	if err := insertRoomActivities(ctx, tx, rooms); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func insertReadings(ctx context.Context, tx *sql.Tx, readings []types.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO readings ("+readingColumns+") "+
			"VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.ExecContext(ctx,
			r.Timestamp,
			r.HouseID,
			r.ConsumptionKWh,
			r.GenerationKWh,
			r.SurplusKWh,
		)
		if err != nil {
			return fmt.Errorf("insert reading for house %d at %s: %w", r.HouseID, r.Timestamp, err)
		}
	}
	return nil
}

func insertRoomActivities(ctx context.Context, tx *sql.Tx, rooms []types.RoomActivity) error {
	if len(rooms) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO room_activity ("+roomColumns+") "+
			"VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rooms {
		_, err := stmt.ExecContext(ctx,
			r.Timestamp,
			r.HouseID,
			r.LivingRoom,
			r.Kitchen,
			r.Bedroom,
			r.Bathroom,
			r.Laundry,
		)
		if err != nil {
			return fmt.Errorf("insert room activity for house %d at %s: %w", r.HouseID, r.Timestamp, err)
		}
	}
	return nil
}

// AllReadings returns the full history in append order.
func (s *Store) AllReadings(ctx context.Context) ([]types.Reading, error) {
	return s.queryReadings(ctx, "SELECT "+readingColumns+" FROM readings ORDER BY rowid")
}

// ReadingsForHouse returns the history of one house in append order.
func (s *Store) ReadingsForHouse(ctx context.Context, houseID int) ([]types.Reading, error) {
	return s.queryReadings(ctx,
		"SELECT "+readingColumns+" FROM readings WHERE house_id = ? ORDER BY rowid",
		houseID)
}

// LatestReadingPerHouse returns, per house, the reading with the greatest timestamp.
// Ordered by house id. Empty store gives an empty result.
func (s *Store) LatestReadingPerHouse(ctx context.Context) ([]types.Reading, error) {
	return s.queryReadings(ctx, `
		SELECT r.timestamp, r.house_id, r.consumption_kwh, r.generation_kwh, r.surplus_kwh
		FROM readings r
		JOIN (
			SELECT house_id, MAX(timestamp) AS latest
			FROM readings
			GROUP BY house_id
		) m ON r.house_id = m.house_id AND r.timestamp = m.latest
		ORDER BY r.house_id
	`)
}

func (s *Store) AllRoomActivities(ctx context.Context) ([]types.RoomActivity, error) {
	return s.queryRoomActivities(ctx, "SELECT "+roomColumns+" FROM room_activity ORDER BY rowid")
}

func (s *Store) LatestRoomActivityPerHouse(ctx context.Context) ([]types.RoomActivity, error) {
	return s.queryRoomActivities(ctx, `
		SELECT a.timestamp, a.house_id, a.living_room, a.kitchen, a.bedroom, a.bathroom, a.laundry
		FROM room_activity a
		JOIN (
			SELECT house_id, MAX(timestamp) AS latest
			FROM room_activity
			GROUP BY house_id
		) m ON a.house_id = m.house_id AND a.timestamp = m.latest
		ORDER BY a.house_id
	`)
}

func (s *Store) queryReadings(ctx context.Context, query string, args ...any) ([]types.Reading, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := []types.Reading{}
	for rows.Next() {
		var r types.Reading
		if err := rows.Scan(&r.Timestamp, &r.HouseID, &r.ConsumptionKWh, &r.GenerationKWh, &r.SurplusKWh); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

func (s *Store) queryRoomActivities(ctx context.Context, query string, args ...any) ([]types.RoomActivity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []types.RoomActivity{}
	for rows.Next() {
		var r types.RoomActivity
		if err := rows.Scan(&r.Timestamp, &r.HouseID, &r.LivingRoom, &r.Kitchen, &r.Bedroom, &r.Bathroom, &r.Laundry); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Schema returns the CREATE statements of the queryable tables.
func (s *Store) Schema(ctx context.Context) (string, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(queryableTables)), ", ")
	args := make([]any, 0, len(queryableTables))
	for _, t := range queryableTables {
		args = append(args, t)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name IN ("+placeholders+") ORDER BY name",
		args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var statements []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", err
		}
		statements = append(statements, stmt+";")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(statements, "\n\n"), nil
}

// QueryRows runs a single read-only SELECT and returns every row as a column map.
// The statement runs with query_only set on its connection, inside a transaction
// that is always rolled back.
func (s *Store) QueryRows(ctx context.Context, query string) ([]map[string]any, error) {
	query, err := normalizeSelect(query)
	if err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("failed to make connection read-only: %w", err)
	}
	// The connection goes back to the pool and must be writable again
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "PRAGMA query_only = OFF"); err != nil {
			log.Printf("Failed to reset query_only: %v", err)
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, readOnlyError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, readOnlyError(err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, readOnlyError(err)
	}
	return result, nil
}

// readOnlyError reports writes refused by query_only as ErrNotSelect.
func readOnlyError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_READONLY {
		return errors.Join(ErrNotSelect, err)
	}
	return err
}

// normalizeSelect trims whitespace, code fences and one trailing semicolon,
// then rejects anything that is not a single statement starting with SELECT or WITH.
// Writes hidden behind WITH are refused by the connection itself.
func normalizeSelect(query string) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimPrefix(q, "```sql")
	q = strings.TrimPrefix(q, "```")
	q = strings.TrimSuffix(q, "```")
	q = strings.TrimSpace(q)
	q = strings.TrimSuffix(q, ";")
	q = strings.TrimSpace(q)

	if strings.Contains(q, ";") {
		return "", ErrNotSelect
	}
	upper := strings.ToUpper(q)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return "", ErrNotSelect
	}
	return q, nil
}
