package formatter

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/clock"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteWriter stores TIDES tables in a SQLite database. A batch replaces every row of its
// tables for the analysis date in one transaction and records each table write in runs.
type SQLiteWriter struct {
	conn    *sql.DB
	writeMu sync.Mutex
	clock   clock.Clock
	logger  *slog.Logger
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string, clk clock.Clock, logger *slog.Logger) (*SQLiteWriter, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	w := &SQLiteWriter{
		conn:   conn,
		clock:  clk,
		logger: logger.With(slog.String("component", "sqlite_writer")),
	}
	if err := w.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	logging.LogOperation(w.logger, "sqlite_opened", slog.String("path", path))
	return w, nil
}

// EnsureSchema creates tables if they don't exist.
func (w *SQLiteWriter) EnsureSchema(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if _, err := w.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Stage implements Writer. It opens a transaction that replaces each selected table's rows
// for date and records one runs row per table. The writer stays locked until the batch is
// committed or aborted.
func (w *SQLiteWriter) Stage(ctx context.Context, date string, t Tables) (Batch, error) {
	if err := checkTables(t); err != nil {
		return nil, err
	}
	w.writeMu.Lock()
	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		w.writeMu.Unlock()
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	b := &sqliteBatch{tx: tx, unlock: w.writeMu.Unlock, logger: w.logger, date: date}

	if t.WithTrips {
		err = w.replace(ctx, b, TripsPerformedTable, len(t.Trips), func(runID string) error {
			return insertTrips(ctx, tx, date, runID, t.Trips)
		})
	}
	if err == nil && t.WithPings {
		err = w.replace(ctx, b, VehicleLocationsTable, len(t.Pings), func(runID string) error {
			return insertPings(ctx, tx, date, runID, t.Pings)
		})
	}
	if err != nil {
		b.Abort()
		return nil, err
	}
	return b, nil
}

// replace records the run, deletes the table's rows for the batch date and inserts new ones.
func (w *SQLiteWriter) replace(ctx context.Context, b *sqliteBatch, table string, count int, insert func(runID string) error) error {
	runID := uuid.NewString()
	if _, err := b.tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, analysis_date, table_name, written_at, row_count) VALUES (?, ?, ?, ?, ?)`,
		runID, b.date, table, w.clock.Now().UTC().Format(time.RFC3339), count,
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	// table is one of the two package constants
	if _, err := b.tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE analysis_date = ?", b.date); err != nil {
		return fmt.Errorf("clear %s for %s: %w", table, b.date, err)
	}
	if err := insert(runID); err != nil {
		return err
	}
	b.runs = append(b.runs, slog.Group(table, slog.String("run_id", runID), slog.Int("rows", count)))
	return nil
}

func insertTrips(ctx context.Context, tx *sql.Tx, date, runID string, rows []tides.TripPerformed) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trips_performed (
		analysis_date, service_date, trip_id_performed, vehicle_id, trip_id_scheduled,
		route_id, shape_id, trip_start_stop_id, trip_end_stop_id,
		schedule_trip_start, schedule_trip_end, actual_trip_start, actual_trip_end,
		trip_type, schedule_relationship, run_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			date, r.ServiceDate, r.TripIDPerformed, nullString(r.VehicleID), nullString(r.TripIDScheduled),
			nullString(r.RouteID), nullString(r.ShapeID), nullString(r.TripStartStopID), nullString(r.TripEndStopID),
			nullString(r.ScheduleTripStart), nullString(r.ScheduleTripEnd),
			nullString(r.ActualTripStart), nullString(r.ActualTripEnd),
			nullString(r.TripType), nullString(r.ScheduleRelationship), runID,
		); err != nil {
			return fmt.Errorf("insert trip %s: %w", r.TripIDPerformed, err)
		}
	}
	return nil
}

func insertPings(ctx context.Context, tx *sql.Tx, date, runID string, rows []tides.VehicleLocation) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vehicle_locations (
		analysis_date, location_ping, service_date, event_timestamp,
		trip_id_performed, trip_id_scheduled, trip_stop_sequence, scheduled_stop_sequence,
		vehicle_id, stop_id, current_status, latitude, longitude, heading, speed,
		schedule_relationship, run_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			date, r.LocationPing, nullString(r.ServiceDate), nullString(r.EventTimestamp),
			nullString(r.TripIDPerformed), nullString(r.TripIDScheduled),
			nullUint(r.TripStopSequence), nullUint(r.ScheduledStopSequence),
			nullString(r.VehicleID), nullString(r.StopID), nullString(r.CurrentStatus),
			nullFloat(r.Latitude), nullFloat(r.Longitude), nullFloat(r.Heading), nullFloat(r.Speed),
			nullString(r.ScheduleRelationship), runID,
		); err != nil {
			return fmt.Errorf("insert ping %s: %w", r.LocationPing, err)
		}
	}
	return nil
}

// sqliteBatch is an open transaction holding the writer lock.
type sqliteBatch struct {
	tx     *sql.Tx
	unlock func()
	once   sync.Once
	logger *slog.Logger
	date   string
	runs   []slog.Attr
}

func (b *sqliteBatch) Commit() error {
	err := errors.New("batch already finished")
	b.once.Do(func() {
		defer b.unlock()
		if err = b.tx.Commit(); err != nil {
			err = fmt.Errorf("commit %s: %w", b.date, err)
			return
		}
		logging.LogOperation(b.logger, "tables_written", append([]slog.Attr{slog.String("date", b.date)}, b.runs...)...)
	})
	return err
}

func (b *sqliteBatch) Abort() {
	b.once.Do(func() {
		defer b.unlock()
		if err := b.tx.Rollback(); err != nil {
			logging.LogError(b.logger, "rollback failed", err, slog.String("date", b.date))
		}
	})
}

// Close closes the database connection
func (w *SQLiteWriter) Close() error {
	return w.conn.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUint(v *uint32) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float32) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(*v), Valid: true}
}
