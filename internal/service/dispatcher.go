package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"propagent/internal/model"
	"propagent/internal/utils"
)

// Tool names understood by the dispatcher. They mirror the definitions in
// tools.go.
const (
	ToolSearchProperties = "search_properties"
	ToolListSchools      = "list_schools"
	ToolAskClarification = "ask_clarification"
	ToolGeocodeLocation  = "geocode_location"
)

// ClarificationPrefix tags a dispatch result that must stop the tool loop and
// be surfaced to the user verbatim.
const ClarificationPrefix = "CLARIFICATION_NEEDED: "

// unknownToolResult is returned for unrecognized tool names. The dispatcher
// never errors on them so the conversation loop can continue.
const unknownToolResult = "Unknown tool"

// EventRecorder receives one ToolEvent per dispatch. May be nil.
type EventRecorder func(model.ToolEvent)

// Dispatcher routes named tool calls from the reasoning engine onto the
// store and renders deterministic result text. Each call is self-contained;
// slot-filling discipline lives with the caller, but a search with missing
// fields is still rejected here as a hard precondition.
type Dispatcher struct {
	store  Store
	record EventRecorder
}

// NewDispatcher creates a dispatcher over the given store. record may be nil.
func NewDispatcher(store Store, record EventRecorder) *Dispatcher {
	return &Dispatcher{store: store, record: record}
}

// Dispatch executes one tool call. Errors returned are either
// *model.IllegalDispatchError (rejected before the store) or store failures;
// every other outcome, including "not found" and unknown tools, is a result
// string.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	start := time.Now()
	result, err := d.dispatch(ctx, name, args)
	d.emit(name, args, result, err, time.Since(start))
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case ToolSearchProperties:
		return d.searchProperties(ctx, args)
	case ToolListSchools:
		return d.listSchools(ctx)
	case ToolAskClarification:
		question, _ := stringArg(args, "question")
		return ClarificationPrefix + question, nil
	case ToolGeocodeLocation:
		return d.geocodeLocation(ctx, args)
	default:
		return unknownToolResult, nil
	}
}

func (d *Dispatcher) searchProperties(ctx context.Context, args map[string]any) (string, error) {
	var missing []string
	schoolName, ok := stringArg(args, "school_name")
	if !ok || strings.TrimSpace(schoolName) == "" {
		missing = append(missing, "school_name")
	}
	radius, ok := floatArg(args, "radius_miles")
	if !ok {
		missing = append(missing, "radius_miles")
	}
	areaMin, ok := floatArg(args, "area_min_sqft")
	if !ok {
		missing = append(missing, "area_min_sqft")
	}
	areaMax, ok := floatArg(args, "area_max_sqft")
	if !ok {
		missing = append(missing, "area_max_sqft")
	}
	if len(missing) > 0 {
		return "", &model.IllegalDispatchError{Tool: ToolSearchProperties, Missing: missing}
	}

	// Free-text units are normalized before anything reaches the store.
	if unit, ok := stringArg(args, "radius_unit"); ok {
		var err error
		if radius, err = utils.ToMiles(radius, unit); err != nil {
			return "", &model.IllegalDispatchError{Tool: ToolSearchProperties, Reason: err.Error()}
		}
	}
	if unit, ok := stringArg(args, "area_unit"); ok {
		var err error
		if areaMin, err = utils.ToSqft(areaMin, unit); err != nil {
			return "", &model.IllegalDispatchError{Tool: ToolSearchProperties, Reason: err.Error()}
		}
		if areaMax, err = utils.ToSqft(areaMax, unit); err != nil {
			return "", &model.IllegalDispatchError{Tool: ToolSearchProperties, Reason: err.Error()}
		}
	}

	if radius <= 0 {
		return "", &model.IllegalDispatchError{Tool: ToolSearchProperties, Reason: "radius_miles must be positive"}
	}
	if areaMin > areaMax {
		return "", &model.IllegalDispatchError{
			Tool:   ToolSearchProperties,
			Reason: fmt.Sprintf("area_min_sqft %.0f exceeds area_max_sqft %.0f", areaMin, areaMax),
		}
	}

	school, err := d.store.ResolveLocation(ctx, schoolName)
	if err != nil {
		return "", err
	}
	if school == nil {
		names, err := d.store.ListLocationNames(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Could not find school %q. Available schools: %s",
			schoolName, strings.Join(names, ", ")), nil
	}

	records, err := d.store.SearchParcels(ctx, school.Point(), utils.MilesToMeters(radius), &areaMin, &areaMax)
	if err != nil {
		return "", err
	}

	if len(records) == 0 {
		return fmt.Sprintf("No properties found within %s miles of %s.",
			formatFloat(radius), school.Name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d properties within %s miles of %s (%.0f-%.0f sq ft):\n",
		len(records), formatFloat(radius), school.Name, areaMin, areaMax)
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s - %.0f sq ft - %.2f miles away\n",
			i+1, rec.Address, rec.AreaSqft, rec.DistanceMiles)
	}
	return b.String(), nil
}

func (d *Dispatcher) listSchools(ctx context.Context) (string, error) {
	names, err := d.store.ListLocationNames(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Available schools:\n")
	for _, n := range names {
		b.WriteString("- " + n + "\n")
	}
	return b.String(), nil
}

func (d *Dispatcher) geocodeLocation(ctx context.Context, args map[string]any) (string, error) {
	name, ok := stringArg(args, "location_name")
	if !ok || strings.TrimSpace(name) == "" {
		return "", &model.IllegalDispatchError{Tool: ToolGeocodeLocation, Missing: []string{"location_name"}}
	}

	loc, err := d.store.GeocodeLocation(ctx, name)
	if err != nil {
		return "", err
	}
	if loc == nil {
		names, err := d.store.ListLocationNames(ctx)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Location %q not found in database.\n\nAvailable locations:\n", name)
		for _, n := range names {
			b.WriteString("- " + n + "\n")
		}
		return b.String(), nil
	}

	return fmt.Sprintf("%s is located at:\n- Latitude: %s\n- Longitude: %s",
		loc.Name, formatFloat(loc.Latitude), formatFloat(loc.Longitude)), nil
}

func (d *Dispatcher) emit(name string, args map[string]any, result string, err error, took time.Duration) {
	if d.record == nil {
		return
	}
	ev := model.ToolEvent{Tool: name, Arguments: args, Took: took}
	switch {
	case err != nil:
		ev.Outcome = model.OutcomeError
		if model.IsIllegalDispatch(err) {
			ev.Outcome = model.OutcomeRejected
		}
		ev.Err = err.Error()
	case strings.HasPrefix(result, ClarificationPrefix):
		ev.Outcome = model.OutcomeClarification
	case result == unknownToolResult:
		ev.Outcome = model.OutcomeUnknownTool
	case strings.Contains(result, "not found") || strings.HasPrefix(result, "Could not find"):
		ev.Outcome = model.OutcomeNotFound
	default:
		ev.Outcome = model.OutcomeOK
	}
	d.record(ev)
}

// formatFloat renders a float without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stringArg extracts a string argument.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return s, true
}

// floatArg extracts a numeric argument, tolerating the types a JSON decoder
// or a loosely-typed model can produce.
func floatArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
