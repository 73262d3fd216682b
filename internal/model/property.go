package model

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a known place (a school in the demo catalog) resolved by name.
// Identity is the name; Confidence is the similarity score for fuzzy matches
// and 0 for exact/substring hits.
type Location struct {
	Name       string  `json:"name" db:"name"`
	Latitude   float64 `json:"latitude" db:"lat"`
	Longitude  float64 `json:"longitude" db:"lon"`
	Confidence float64 `json:"confidence,omitempty" db:"confidence"`
}

// Point returns the location's coordinates.
func (l *Location) Point() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// PropertyRecord is a read-only projection of one parcel produced per query.
// DistanceMiles is measured from the query center and rounded to 2 decimals.
type PropertyRecord struct {
	ParcelID      string  `json:"parcel_id" db:"parcel_id"`
	Address       string  `json:"address" db:"address"`
	AreaSqft      float64 `json:"area_sqft" db:"area_sqft"`
	PropertyType  string  `json:"property_type" db:"property_type"`
	DistanceMiles float64 `json:"distance_miles" db:"distance_miles"`
}
