package synth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/dataset"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS synthetic_trips (
	id BIGSERIAL PRIMARY KEY,
	start_time TEXT NOT NULL,
	route_distance DOUBLE PRECISION NOT NULL,
	day_of_week INT NOT NULL,
	avg_speed DOUBLE PRECISION NOT NULL,
	road_type TEXT NOT NULL,
	travel_time DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSink mirrors generated datasets into PostgreSQL.
type PostgresSink struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresSink creates a PostgresSink.
func NewPostgresSink(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresSink {
	return &PostgresSink{
		pool:   pool,
		logger: logger.With().Str("component", "postgres_sink").Logger(),
	}
}

// EnsureTable creates the synthetic_trips table if it does not exist.
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create synthetic_trips: %w", err)
	}
	return nil
}

// Insert bulk-inserts trips using the binary copy protocol.
func (s *PostgresSink) Insert(ctx context.Context, trips []dataset.Trip) error {
	rows := make([][]any, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []any{
			t.StartTime,
			t.RouteDistanceKm,
			t.DayOfWeek,
			t.AvgSpeedKmh,
			t.RoadType,
			t.TravelTimeMinutes,
		})
	}

	n, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"synthetic_trips"},
		[]string{"start_time", "route_distance", "day_of_week", "avg_speed", "road_type", "travel_time"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy trips: %w", err)
	}

	s.logger.Debug().Int64("rows", n).Msg("trips inserted")
	return nil
}
