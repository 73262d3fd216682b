package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"propagent/internal/model"
	"propagent/internal/service"

	"github.com/gin-gonic/gin"
)

// scriptedAI returns tool calls or text in sequence across requests.
type scriptedAI struct {
	results []*service.ChatResult
	calls   int
}

func (s *scriptedAI) Chat(_ context.Context, _ []model.Message, _ []service.ToolDefinition) (*service.ChatResult, error) {
	result := s.results[s.calls%len(s.results)]
	s.calls++
	return result, nil
}

func newChatRouter(ai service.AIClient) (*gin.Engine, *SessionManager) {
	gin.SetMode(gin.TestMode)
	sessions := NewSessionManager(stubStore{}, ai, nil)
	h := NewChatHandler(sessions)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/chat", h.Chat)
	v1.POST("/sessions", h.Create)
	v1.POST("/sessions/:id/reset", h.Reset)
	v1.DELETE("/sessions/:id", h.Delete)
	return router, sessions
}

func TestSessionCreate(t *testing.T) {
	router, sessions := newChatRouter(&scriptedAI{results: []*service.ChatResult{{Content: "ok"}}})

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	id, _ := resp["session_id"].(string)
	if id == "" {
		t.Fatal("expected a session_id")
	}
	if _, ok := sessions.get(id); !ok {
		t.Error("created session not registered")
	}
}

func TestChatEndpoint_NewSession(t *testing.T) {
	router, _ := newChatRouter(&scriptedAI{results: []*service.ChatResult{
		{Content: "Tell me a school name to search near."},
	}})

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	id, _ := resp["session_id"].(string)
	if id == "" {
		t.Error("expected a generated session_id")
	}
	if resp["reply"] != "Tell me a school name to search near." {
		t.Errorf("reply = %v", resp["reply"])
	}
}

func TestChatEndpoint_SessionContinuity(t *testing.T) {
	ai := &scriptedAI{results: []*service.ChatResult{{Content: "ok"}}}
	router, sessions := newChatRouter(ai)

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "first",
	})
	id := resp["session_id"].(string)

	_, resp = doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"session_id": id,
		"message":    "second",
	})
	if resp["session_id"] != id {
		t.Errorf("session_id changed: %v != %v", resp["session_id"], id)
	}

	agent, ok := sessions.get(id)
	if !ok {
		t.Fatal("session disappeared")
	}
	// two user turns and two assistant replies
	if got := len(agent.Session().Transcript()); got != 4 {
		t.Errorf("transcript length = %d, want 4", got)
	}
}

func TestChatEndpoint_ToolCallFlow(t *testing.T) {
	router, _ := newChatRouter(&scriptedAI{results: []*service.ChatResult{{
		ToolCalls: []model.ToolCall{{Name: service.ToolListSchools}},
	}}})

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "list the schools",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	reply, _ := resp["reply"].(string)
	if !strings.HasPrefix(reply, "Available schools:") {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatEndpoint_MissingMessage(t *testing.T) {
	router, _ := newChatRouter(&scriptedAI{results: []*service.ChatResult{{Content: "ok"}}})

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSessionReset(t *testing.T) {
	ai := &scriptedAI{results: []*service.ChatResult{{Content: "ok"}}}
	router, sessions := newChatRouter(ai)

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "hello",
	})
	id := resp["session_id"].(string)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	agent, _ := sessions.get(id)
	if len(agent.Session().Transcript()) != 0 {
		t.Error("transcript survived reset")
	}
}

func TestSessionDelete(t *testing.T) {
	router, sessions := newChatRouter(&scriptedAI{results: []*service.ChatResult{{Content: "ok"}}})

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/chat", map[string]any{
		"message": "hello",
	})
	id := resp["session_id"].(string)

	w, _ := doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, ok := sessions.get(id); ok {
		t.Error("session still present after delete")
	}

	w, _ = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
