package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfrederiksen/travel-forecast/internal/travel"
	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

const uniqueViolation = "23505"

// ErrTravelExists is returned when a travel row for the coordinate is already stored
var ErrTravelExists = errors.New("travel already recorded for these coordinates")

// Querier abstracts the subset of pgxpool.Pool used by Repository
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Travel is one row of the travel table
type Travel struct {
	Coordinates string `json:"coordinates"`
	Region      string `json:"region"`
	Destination string `json:"destination"`
	Attraction  string `json:"attraction"`
}

// Repository provides database access for travels and forecasts
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests)
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// RecordTravel inserts the selection described by payload. A second insert for the
// same coordinates fails with ErrTravelExists; it is never upserted.
func (r *Repository) RecordTravel(ctx context.Context, payload *weather.Forecast, region, destination, attraction string) error {
	key := payload.Coordinate().Key()

	const q = `
		INSERT INTO travel (coordinates, region, destination, attraction)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.q.Exec(ctx, q, key, region, destination, attraction); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrTravelExists, key)
		}
		return fmt.Errorf("inserting travel %s: %w", key, err)
	}

	return nil
}

// RecordForecast appends one row per forecast record and returns how many were written
func (r *Repository) RecordForecast(ctx context.Context, payload *weather.Forecast) (int, error) {
	const q = `
		INSERT INTO forecast (coordinates, time, kind, summary, precip_probability,
		                      temperature, feels_like, humidity, wind_speed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	written := 0
	for _, rec := range payload.Records() {
		_, err := r.q.Exec(ctx, q,
			rec.Coordinates,
			rec.Time,
			string(rec.Kind),
			rec.Summary,
			rec.PrecipProbability,
			rec.Temperature,
			rec.FeelsLike,
			rec.Humidity,
			rec.WindSpeed,
		)
		if err != nil {
			return written, fmt.Errorf("inserting %s forecast for %s: %w", rec.Kind, rec.Coordinates, err)
		}
		written++
	}

	return written, nil
}

// Forecasts returns the stored rows of one kind for a coordinate key, oldest first
func (r *Repository) Forecasts(ctx context.Context, key string, kind travel.ForecastKind) ([]weather.Record, error) {
	const q = `
		SELECT coordinates, time, kind, summary, precip_probability,
		       temperature, feels_like, humidity, wind_speed
		FROM forecast
		WHERE coordinates = $1 AND kind = $2
		ORDER BY time, id
	`

	rows, err := r.q.Query(ctx, q, key, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying %s forecasts for %s: %w", kind, key, err)
	}
	defer rows.Close()

	var records []weather.Record
	for rows.Next() {
		var rec weather.Record
		var kindText string
		var ts time.Time
		if err := rows.Scan(
			&rec.Coordinates,
			&ts,
			&kindText,
			&rec.Summary,
			&rec.PrecipProbability,
			&rec.Temperature,
			&rec.FeelsLike,
			&rec.Humidity,
			&rec.WindSpeed,
		); err != nil {
			return nil, fmt.Errorf("scanning forecast row: %w", err)
		}
		rec.Time = ts.UTC()
		rec.Kind = travel.ForecastKind(kindText)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forecast rows: %w", err)
	}

	return records, nil
}

// Travels returns every recorded travel ordered by region, destination and attraction
func (r *Repository) Travels(ctx context.Context) ([]Travel, error) {
	const q = `
		SELECT coordinates, region, destination, attraction
		FROM travel
		ORDER BY region, destination, attraction
	`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying travels: %w", err)
	}
	defer rows.Close()

	var travels []Travel
	for rows.Next() {
		var t Travel
		if err := rows.Scan(&t.Coordinates, &t.Region, &t.Destination, &t.Attraction); err != nil {
			return nil, fmt.Errorf("scanning travel row: %w", err)
		}
		travels = append(travels, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating travel rows: %w", err)
	}

	return travels, nil
}
