package service

import (
	"context"
	"fmt"
	"strings"

	"propagent/internal/model"
)

// Agent drives one conversation: transcript management, reasoning calls, and
// tool execution. One Agent per session; agents share nothing mutable with
// each other.
type Agent struct {
	session    *Session
	dispatcher *Dispatcher
	ai         AIClient
	tools      []ToolDefinition
}

// NewAgent wires a session to a dispatcher and a reasoning engine.
func NewAgent(session *Session, dispatcher *Dispatcher, ai AIClient) *Agent {
	return &Agent{
		session:    session,
		dispatcher: dispatcher,
		ai:         ai,
		tools:      ToolDefinitions(),
	}
}

// Session returns the agent's conversation session.
func (a *Agent) Session() *Session {
	return a.session
}

// Chat processes one user turn: appends the message, asks the reasoning
// engine for the next step, executes any tool calls, and returns the reply.
// A clarification result stops tool execution and the question is surfaced
// verbatim. Reasoning-engine failures become an apologetic reply, never a
// crash; store failures propagate as errors.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	a.session.Append(model.RoleUser, userMessage)

	messages := make([]model.Message, 0, len(a.session.Transcript())+1)
	messages = append(messages, model.Message{Role: model.RoleSystem, Content: SystemPrompt})
	messages = append(messages, a.session.Transcript()...)

	result, err := a.ai.Chat(ctx, messages, a.tools)
	if err != nil {
		reply := fmt.Sprintf("AI error: %v. Make sure the model server is running.", err)
		a.session.Append(model.RoleAssistant, reply)
		return reply, nil
	}

	if len(result.ToolCalls) == 0 {
		content := result.Content
		if content == "" {
			content = "I'm not sure how to help with that."
		}
		a.session.Append(model.RoleAssistant, content)
		return content, nil
	}

	var parts []string
	for _, call := range result.ToolCalls {
		a.session.Observe(call.Arguments)

		text, err := a.dispatcher.Dispatch(ctx, call.Name, call.Arguments)
		if err != nil {
			if model.IsIllegalDispatch(err) {
				// Feed the diagnostic back instead of executing a bad search.
				parts = append(parts, err.Error())
				continue
			}
			return "", err
		}

		if question, ok := strings.CutPrefix(text, ClarificationPrefix); ok {
			question = strings.TrimSpace(question)
			if question == "" {
				question = clarificationPrompt(a.session.NextAction())
			}
			a.session.Append(model.RoleAssistant, question)
			return question, nil
		}
		parts = append(parts, text)
	}

	reply := strings.Join(parts, "\n")
	a.session.Append(model.RoleAssistant, reply)
	return reply, nil
}

// clarificationPrompt renders a question for the session's next required
// step, used when the reasoning engine asks for clarification without
// supplying the question text.
func clarificationPrompt(action Action) string {
	switch {
	case action.Type == ActionExecuteSearch:
		return "I have everything I need. Shall I run the search?"
	case action.MissingField == model.MissingSchoolName:
		return "Which school would you like to search near?"
	case action.MissingField == model.MissingRadius:
		return "What search radius (in miles) should I use?"
	default:
		return "What minimum and maximum property area (in square feet) are you looking for?"
	}
}

// Reset clears the transcript and the slot accumulator.
func (a *Agent) Reset() {
	a.session.Reset()
}
