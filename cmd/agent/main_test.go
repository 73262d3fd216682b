package main

import (
	"errors"
	"fmt"
	"testing"

	"propagent/internal/model"
)

func TestSessionFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "store unavailable is fatal",
			err:  model.ErrStoreUnavailable,
			want: true,
		},
		{
			name: "wrapped store unavailable is fatal",
			err:  fmt.Errorf("%w: could not connect after 3 attempts", model.ErrStoreUnavailable),
			want: true,
		},
		{
			name: "transient query failure keeps the session alive",
			err:  errors.New("failed to search parcels: connection reset"),
			want: false,
		},
		{
			name: "illegal dispatch keeps the session alive",
			err:  &model.IllegalDispatchError{Tool: "search_properties", Missing: []string{"radius_miles"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionFatal(tt.err); got != tt.want {
				t.Errorf("sessionFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
