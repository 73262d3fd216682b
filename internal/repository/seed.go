package repository

import (
	"context"
	"fmt"
)

// Demonstration catalog: schools and parcels around the Jawalkhel area of the
// Kathmandu Valley.
var demoSchools = []struct {
	Name     string
	Lon, Lat float64
}{
	{"Rato Bangala School", 85.3120, 27.6680},
	{"St. Xavier School Jawalkhel", 85.3140, 27.6720},
	{"Little Angels School", 85.3200, 27.6750},
	{"Shuvatara School", 85.3080, 27.6650},
	{"Ullens School", 85.3250, 27.6800},
}

var demoParcels = []struct {
	ParcelID     string
	Address      string
	AreaSqft     float64
	PropertyType string
	Lon, Lat     float64
}{
	{"JWL001", "House No. 45, Jawalkhel Main Road, Lalitpur", 2200, "residential", 85.3130, 27.6690},
	{"JWL002", "Pulchowk Apartment Complex, Lalitpur", 1500, "residential", 85.3180, 27.6710},
	{"JWL003", "Ekantakuna Housing, Lalitpur", 1800, "residential", 85.3100, 27.6620},
	{"JWL004", "Dhobighat Commercial Plaza, Lalitpur", 5500, "commercial", 85.3050, 27.6600},
	{"JWL005", "Kupondole Heights, Lalitpur", 2800, "residential", 85.3160, 27.6730},
	{"JWL006", "Sanepa Residence, Lalitpur", 1200, "residential", 85.3090, 27.6700},
	{"JWL007", "Patan Durbar Square Shop, Lalitpur", 800, "commercial", 85.3250, 27.6750},
	{"JWL008", "Mangalbazar Villa, Lalitpur", 3200, "residential", 85.3280, 27.6780},
	{"JWL009", "Lagankhel Apartment, Lalitpur", 950, "residential", 85.3220, 27.6680},
	{"JWL010", "Satdobato Business Center, Lalitpur", 6000, "commercial", 85.3300, 27.6550},
}

// SeedDemoData replaces the catalog contents with the demonstration data set.
func (r *PostgresRepository) SeedDemoData(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parcels`); err != nil {
		return fmt.Errorf("failed to clear parcels: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schools`); err != nil {
		return fmt.Errorf("failed to clear schools: %w", err)
	}

	for _, s := range demoSchools {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schools (name, geom)
			VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography)
		`, s.Name, s.Lon, s.Lat)
		if err != nil {
			return fmt.Errorf("failed to seed school %q: %w", s.Name, err)
		}
	}

	for _, p := range demoParcels {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO parcels (parcel_id, address, area_sqft, property_type, geom)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
		`, p.ParcelID, p.Address, p.AreaSqft, p.PropertyType, p.Lon, p.Lat)
		if err != nil {
			return fmt.Errorf("failed to seed parcel %s: %w", p.ParcelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}
