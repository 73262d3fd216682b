package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestIllegalDispatchError(t *testing.T) {
	missing := &IllegalDispatchError{
		Tool:    "search_properties",
		Missing: []string{"radius_miles", "area_min_sqft"},
	}
	want := "illegal search_properties call: missing required fields: radius_miles, area_min_sqft"
	if missing.Error() != want {
		t.Errorf("Error() = %q, want %q", missing.Error(), want)
	}

	reason := &IllegalDispatchError{Tool: "search_properties", Reason: "radius_miles must be positive"}
	if reason.Error() != "illegal search_properties call: radius_miles must be positive" {
		t.Errorf("Error() = %q", reason.Error())
	}
}

func TestIsIllegalDispatch(t *testing.T) {
	base := &IllegalDispatchError{Tool: "geocode_location", Missing: []string{"location_name"}}

	if !IsIllegalDispatch(base) {
		t.Error("direct error not recognized")
	}
	if !IsIllegalDispatch(fmt.Errorf("dispatch: %w", base)) {
		t.Error("wrapped error not recognized")
	}
	if IsIllegalDispatch(errors.New("boom")) {
		t.Error("unrelated error misclassified")
	}
	if IsIllegalDispatch(ErrStoreUnavailable) {
		t.Error("sentinel misclassified")
	}
}
