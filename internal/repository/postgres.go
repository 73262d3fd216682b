package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"propagent/internal/model"
	"propagent/internal/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connection retry policy. Only establishing the pool is retried; individual
// queries are not.
const (
	connectAttempts  = 3
	connectBaseDelay = 1 * time.Second
)

// Similarity thresholds for name resolution. Geocoding answers are shown to
// the user directly, so acceptance there needs a higher score than candidates
// resolved internally for search.
const (
	resolveFloor      = 0.2
	geocodeQueryFloor = 0.3
	geocodeFloor      = 0.5
)

// PostgresRepository handles all PostGIS store access
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects to PostgreSQL/PostGIS with bounded
// exponential-backoff retry. After the retry budget the returned error wraps
// model.ErrStoreUnavailable and the session cannot proceed.
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := connectWithRetry(dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// connectWithRetry dials the database up to connectAttempts times, doubling
// the delay after each failure.
func connectWithRetry(dsn string) (*sqlx.DB, error) {
	var lastErr error
	delay := connectBaseDelay

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if attempt < connectAttempts {
			log.Printf("Warning: database connection failed (attempt %d/%d), retrying in %s: %v",
				attempt, connectAttempts, delay, err)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return nil, fmt.Errorf("%w: could not connect after %d attempts: %v",
		model.ErrStoreUnavailable, connectAttempts, lastErr)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// ResolveLocation finds a school by name. A case-insensitive substring match
// wins outright; failing that, the best trigram-similarity match above
// resolveFloor is returned with its confidence. A clean miss is (nil, nil).
func (r *PostgresRepository) ResolveLocation(ctx context.Context, name string) (*model.Location, error) {
	var loc model.Location

	exact := `
		SELECT name, ST_Y(geom::geometry) AS lat, ST_X(geom::geometry) AS lon, 0.0 AS confidence
		FROM schools
		WHERE name ILIKE $1
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &loc, exact, "%"+name+"%")
	if err == nil {
		return &loc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	fuzzy := `
		SELECT name, ST_Y(geom::geometry) AS lat, ST_X(geom::geometry) AS lon,
		       similarity(name, $1) AS confidence
		FROM schools
		WHERE similarity(name, $1) > $2
		ORDER BY confidence DESC
		LIMIT 1
	`
	err = r.db.GetContext(ctx, &loc, fuzzy, name, resolveFloor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}
	return &loc, nil
}

// GeocodeLocation resolves a name for direct coordinate display. The SQL
// floor keeps the candidate set small; acceptance requires geocodeFloor.
// Coordinates are rounded to 6 decimal places.
func (r *PostgresRepository) GeocodeLocation(ctx context.Context, name string) (*model.Location, error) {
	var loc model.Location
	query := `
		SELECT name, ST_Y(geom::geometry) AS lat, ST_X(geom::geometry) AS lon,
		       similarity(name, $1) AS confidence
		FROM schools
		WHERE similarity(name, $1) > $2
		ORDER BY confidence DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &loc, query, name, geocodeQueryFloor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to geocode location: %w", err)
	}
	if loc.Confidence < geocodeFloor {
		return nil, nil
	}

	loc.Latitude = math.Round(loc.Latitude*1e6) / 1e6
	loc.Longitude = math.Round(loc.Longitude*1e6) / 1e6
	return &loc, nil
}

// SearchParcels returns parcels within radiusMeters of center, ordered by
// ascending geodesic distance. When both area bounds are given the filter is
// inclusive on both ends. DistanceMiles is rounded to 2 decimals. An empty
// result is a valid outcome, not an error.
func (r *PostgresRepository) SearchParcels(ctx context.Context, center model.Coordinates, radiusMeters float64, areaMin, areaMax *float64) ([]model.PropertyRecord, error) {
	query := `
		SELECT parcel_id, address, area_sqft, property_type,
		       ST_Distance(geom::geography,
		           ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) / $3 AS distance_miles
		FROM parcels
		WHERE ST_DWithin(geom::geography,
		    ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $4)
	`
	args := []interface{}{center.Longitude, center.Latitude, utils.MetersPerMile, radiusMeters}

	if areaMin != nil && areaMax != nil {
		query += " AND area_sqft BETWEEN $5 AND $6"
		args = append(args, *areaMin, *areaMax)
	}
	query += " ORDER BY distance_miles"

	records := []model.PropertyRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search parcels: %w", err)
	}

	for i := range records {
		records[i].DistanceMiles = math.Round(records[i].DistanceMiles*100) / 100
	}
	return records, nil
}

// ListLocationNames returns all school names, lexicographically sorted. This
// is a read-through: duplicates in the store pass through.
func (r *PostgresRepository) ListLocationNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM schools ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return names, nil
}

// EnsureSchema creates the extensions and tables the agent needs. Safe to run
// repeatedly.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE TABLE IF NOT EXISTS schools (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			geom GEOGRAPHY(POINT, 4326) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS parcels (
			id SERIAL PRIMARY KEY,
			parcel_id TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL,
			area_sqft DOUBLE PRECISION NOT NULL,
			property_type TEXT NOT NULL,
			geom GEOGRAPHY(POINT, 4326) NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
