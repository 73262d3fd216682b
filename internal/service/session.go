package service

import (
	"propagent/internal/model"
)

// ActionType classifies a session's next required step.
type ActionType string

const (
	ActionRequestSlot   ActionType = "request_slot"
	ActionExecuteSearch ActionType = "execute_search"
)

// Action is the single next step for a partially specified search request.
type Action struct {
	Type         ActionType
	MissingField model.MissingField // set when Type == ActionRequestSlot
}

// Session owns one conversation transcript and its search-request
// accumulator. A session is exclusively owned by one conversation and is not
// safe for concurrent use.
type Session struct {
	ID       string
	messages []model.Message
	request  model.SearchRequest
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Append adds one transcript entry. The transcript is append-only until Reset.
func (s *Session) Append(role, content string) {
	s.messages = append(s.messages, model.Message{Role: role, Content: content})
}

// Transcript returns a copy of the transcript so far.
func (s *Session) Transcript() []model.Message {
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Request returns a snapshot of the accumulator.
func (s *Session) Request() model.SearchRequest {
	return s.request
}

// Observe folds tool-call arguments into the accumulator. Slots move only
// from unknown to known: later values never overwrite earlier ones, and the
// area bounds fill together as a pair or not at all. Non-positive values and
// an inverted area range are ignored.
func (s *Session) Observe(args map[string]any) {
	if s.request.SchoolName == nil {
		if v, ok := stringArg(args, "school_name"); ok && v != "" {
			s.request.SchoolName = &v
		}
	}
	if s.request.RadiusMiles == nil {
		if v, ok := floatArg(args, "radius_miles"); ok && v > 0 {
			s.request.RadiusMiles = &v
		}
	}
	if s.request.AreaMinSqft == nil || s.request.AreaMaxSqft == nil {
		minV, okMin := floatArg(args, "area_min_sqft")
		maxV, okMax := floatArg(args, "area_max_sqft")
		if okMin && okMax && minV > 0 && maxV >= minV {
			s.request.AreaMinSqft = &minV
			s.request.AreaMaxSqft = &maxV
		}
	}
}

// NextAction reports the single next required step. Missing slots are
// requested in a fixed order (school, radius, area pair) so an upstream
// reasoning component can never skip disambiguation and issue an
// underspecified spatial query.
func (s *Session) NextAction() Action {
	switch {
	case s.request.SchoolName == nil:
		return Action{Type: ActionRequestSlot, MissingField: model.MissingSchoolName}
	case s.request.RadiusMiles == nil:
		return Action{Type: ActionRequestSlot, MissingField: model.MissingRadius}
	case s.request.AreaMinSqft == nil || s.request.AreaMaxSqft == nil:
		return Action{Type: ActionRequestSlot, MissingField: model.MissingArea}
	default:
		return Action{Type: ActionExecuteSearch}
	}
}

// Reset clears both the transcript and the accumulator.
func (s *Session) Reset() {
	s.messages = nil
	s.request = model.SearchRequest{}
}
