package model

// SearchRequest accumulates the four required search slots over the course of
// a conversation. A nil field is an unknown slot; fields only move from
// unknown to known and are never retracted short of a session reset.
type SearchRequest struct {
	SchoolName  *string  `json:"school_name,omitempty"`
	RadiusMiles *float64 `json:"radius_miles,omitempty"`
	AreaMinSqft *float64 `json:"area_min_sqft,omitempty"`
	AreaMaxSqft *float64 `json:"area_max_sqft,omitempty"`
}

// Complete reports whether all four slots are known.
func (r *SearchRequest) Complete() bool {
	return r.SchoolName != nil && r.RadiusMiles != nil &&
		r.AreaMinSqft != nil && r.AreaMaxSqft != nil
}

// MissingField tags which slot a clarification question should ask for.
type MissingField string

const (
	MissingSchoolName MissingField = "school_name"
	MissingRadius     MissingField = "radius"
	MissingArea       MissingField = "area"
)
