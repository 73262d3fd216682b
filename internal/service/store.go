package service

import (
	"context"

	"propagent/internal/model"
)

// Store is the read boundary to the spatial catalog. All contracts use
// geodesic distance, similarity scores in [0,1], and inclusive range filters.
// *repository.PostgresRepository satisfies it.
type Store interface {
	// ResolveLocation maps a free-text name to the best-matching location for
	// search use, or (nil, nil) when nothing clears the generic floor.
	ResolveLocation(ctx context.Context, name string) (*model.Location, error)

	// GeocodeLocation is like ResolveLocation but with the stricter
	// confidence floor applied to results shown directly to the user.
	GeocodeLocation(ctx context.Context, name string) (*model.Location, error)

	// SearchParcels returns parcels within radiusMeters of center, optionally
	// constrained to an inclusive area range, ordered by ascending distance.
	SearchParcels(ctx context.Context, center model.Coordinates, radiusMeters float64, areaMin, areaMax *float64) ([]model.PropertyRecord, error)

	// ListLocationNames returns all catalog names, lexicographically sorted.
	ListLocationNames(ctx context.Context) ([]string, error)
}
