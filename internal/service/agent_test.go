package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"propagent/internal/model"
)

// fakeAI replays scripted results and records what it was asked.
type fakeAI struct {
	results  []*ChatResult
	err      error
	calls    int
	messages [][]model.Message
	tools    []ToolDefinition
}

func (f *fakeAI) Chat(_ context.Context, messages []model.Message, tools []ToolDefinition) (*ChatResult, error) {
	f.messages = append(f.messages, messages)
	f.tools = tools
	if f.err != nil {
		return nil, f.err
	}
	result := f.results[f.calls]
	f.calls++
	return result, nil
}

func newTestAgent(ai AIClient) (*Agent, *fakeStore) {
	store := newFakeStore()
	return NewAgent(NewSession("test"), NewDispatcher(store, nil), ai), store
}

func TestAgentChat_TextReply(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{Content: "Hello! Tell me a school name."}}}
	agent, _ := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Hello! Tell me a school name." {
		t.Errorf("reply = %q", reply)
	}

	transcript := agent.Session().Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Role != model.RoleUser || transcript[1].Role != model.RoleAssistant {
		t.Errorf("unexpected transcript roles: %+v", transcript)
	}
}

func TestAgentChat_SystemPromptPrepended(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{Content: "ok"}, {Content: "ok"}}}
	agent, _ := newTestAgent(ai)

	if _, err := agent.Chat(context.Background(), "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := agent.Chat(context.Background(), "second"); err != nil {
		t.Fatal(err)
	}

	last := ai.messages[len(ai.messages)-1]
	if last[0].Role != model.RoleSystem {
		t.Fatalf("first message role = %v, want system", last[0].Role)
	}
	// system + (user, assistant) + user
	if len(last) != 4 {
		t.Errorf("message count = %d, want 4", len(last))
	}
	if len(ai.tools) != 4 {
		t.Errorf("tool definitions = %d, want 4", len(ai.tools))
	}
}

func TestAgentChat_ExecutesToolCalls(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{Name: ToolListSchools}},
	}}}
	agent, _ := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "what schools do you know?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(reply, "Available schools:") {
		t.Errorf("reply = %q", reply)
	}
}

func TestAgentChat_ClarificationStopsToolLoop(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{
			{Name: ToolAskClarification, Arguments: map[string]any{"question": "What search radius?"}},
			{Name: ToolListSchools},
		},
	}}}
	agent, store := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "find homes near Rato Bangala")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "What search radius?" {
		t.Errorf("clarification must be surfaced verbatim, got %q", reply)
	}
	if strings.Contains(reply, ClarificationPrefix) {
		t.Error("sentinel prefix leaked into the reply")
	}
	if store.resolveCalls != 0 {
		t.Error("tool calls after a clarification must not run")
	}
}

func TestAgentChat_EmptyClarificationUsesNextSlot(t *testing.T) {
	// When the engine asks for clarification without question text, the agent
	// asks for the next missing slot itself, in the fixed fill order.
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{
			Name: ToolAskClarification,
			Arguments: map[string]any{
				"school_name":  "Rato Bangala",
				"radius_miles": 1.0,
			},
		}},
	}}}
	agent, _ := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "1 mile around Rato Bangala")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "area") {
		t.Errorf("with school and radius known the agent should ask for area, got %q", reply)
	}

	// With nothing observed yet, the first slot is the school.
	ai2 := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{Name: ToolAskClarification, Arguments: map[string]any{}}},
	}}}
	agent2, _ := newTestAgent(ai2)

	reply, err = agent2.Chat(context.Background(), "find me a home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "school") {
		t.Errorf("empty session should ask for the school first, got %q", reply)
	}
}

func TestAgentChat_IllegalSearchBecomesDiagnostic(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{
			Name:      ToolSearchProperties,
			Arguments: map[string]any{"school_name": "Rato Bangala"},
		}},
	}}}
	agent, store := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "search now")
	if err != nil {
		t.Fatalf("illegal dispatch must not surface as an error: %v", err)
	}
	if !strings.Contains(reply, "radius_miles") {
		t.Errorf("diagnostic should name missing fields, got %q", reply)
	}
	if store.searchCalls != 0 {
		t.Error("underspecified search must not reach the store")
	}
}

func TestAgentChat_SlotAccumulation(t *testing.T) {
	// Arguments observed across turns fill the session's accumulator even when
	// the dispatch itself is rejected.
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{
			Name:      ToolSearchProperties,
			Arguments: map[string]any{"school_name": "Rato Bangala", "radius_miles": 1.0},
		}},
	}}}
	agent, _ := newTestAgent(ai)

	if _, err := agent.Chat(context.Background(), "near Rato Bangala, 1 mile"); err != nil {
		t.Fatal(err)
	}

	req := agent.Session().Request()
	if req.SchoolName == nil || req.RadiusMiles == nil {
		t.Fatalf("slots not accumulated: %+v", req)
	}
	if action := agent.Session().NextAction(); action.MissingField != model.MissingArea {
		t.Errorf("next slot = %v, want area", action.MissingField)
	}
}

func TestAgentChat_AIErrorIsSoft(t *testing.T) {
	ai := &fakeAI{err: errors.New("connection refused")}
	agent, _ := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("reasoning failure must not be fatal: %v", err)
	}
	if !strings.Contains(reply, "connection refused") {
		t.Errorf("reply should carry the cause, got %q", reply)
	}
	if !strings.Contains(reply, "model server") {
		t.Errorf("reply should hint at the fix, got %q", reply)
	}
}

func TestAgentChat_EmptyResponseFallback(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{}}}
	agent, _ := newTestAgent(ai)

	reply, err := agent.Chat(context.Background(), "…")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "I'm not sure how to help with that." {
		t.Errorf("reply = %q", reply)
	}
}

func TestAgentReset(t *testing.T) {
	ai := &fakeAI{results: []*ChatResult{{
		ToolCalls: []model.ToolCall{{
			Name:      ToolSearchProperties,
			Arguments: map[string]any{"school_name": "Rato Bangala", "radius_miles": 1.0},
		}},
	}}}
	agent, _ := newTestAgent(ai)
	if _, err := agent.Chat(context.Background(), "start a search"); err != nil {
		t.Fatal(err)
	}

	agent.Reset()

	if len(agent.Session().Transcript()) != 0 {
		t.Error("transcript survived reset")
	}
	if agent.Session().Request().SchoolName != nil {
		t.Error("accumulator survived reset")
	}
}
