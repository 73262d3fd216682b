package handler

import (
	"net/http"
	"sync"

	"propagent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionManager tracks live conversation agents by session ID. Sessions
// share the store connection pool but no mutable state; each request for a
// given session runs start-to-finish before the next.
type SessionManager struct {
	mu     sync.Mutex
	agents map[string]*service.Agent

	store  service.Store
	ai     service.AIClient
	record service.EventRecorder
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(store service.Store, ai service.AIClient, record service.EventRecorder) *SessionManager {
	return &SessionManager{
		agents: make(map[string]*service.Agent),
		store:  store,
		ai:     ai,
		record: record,
	}
}

// getOrCreate returns the agent for id, creating a fresh session when id is
// empty or unknown.
func (m *SessionManager) getOrCreate(id string) (string, *service.Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if agent, ok := m.agents[id]; ok {
			return id, agent
		}
	}

	id = uuid.NewString()
	session := service.NewSession(id)
	dispatcher := service.NewDispatcher(m.store, m.record)
	agent := service.NewAgent(session, dispatcher, m.ai)
	m.agents[id] = agent
	return id, agent
}

func (m *SessionManager) get(id string) (*service.Agent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[id]
	return agent, ok
}

func (m *SessionManager) remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[id]; !ok {
		return false
	}
	delete(m.agents, id)
	return true
}

// ChatHandler exposes the conversational agent over HTTP.
type ChatHandler struct {
	sessions *SessionManager
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessions *SessionManager) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

type chatRequestBody struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// Chat handles POST /api/v1/chat. Omitting session_id starts a new session.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, agent := h.sessions.getOrCreate(req.SessionID)

	reply, err := agent.Chat(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"reply":      reply,
	})
}

// Create handles POST /api/v1/sessions — explicitly starts an empty session.
// POST /chat without a session_id does the same implicitly.
func (h *ChatHandler) Create(c *gin.Context) {
	id, _ := h.sessions.getOrCreate("")
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// Reset handles POST /api/v1/sessions/:id/reset — clears the transcript and
// the slot accumulator but keeps the session alive.
func (h *ChatHandler) Reset(c *gin.Context) {
	id := c.Param("id")
	agent, ok := h.sessions.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	agent.Reset()
	c.JSON(http.StatusOK, gin.H{"session_id": id, "status": "reset"})
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *ChatHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.sessions.remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "status": "deleted"})
}
