// Package model abstracts the language-model providers behind a minimal
// non-streaming interface. Reviewer agents depend only on model.Model;
// concrete adapters live in the anthropic and openai subpackages.
package model

import (
	"context"
	"fmt"
	"strings"
)

// Message is a single conversational turn sent to a provider.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request captures the normalized model input produced by reviewer agents.
type Request struct {
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the complete (non-streaming) completion for a request.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "anthropic", "openai", "mock"
}

// Model is the minimal interface required to drive a reviewer. Calls block
// until the provider answers or ctx is done; retrying transient provider
// faults is the adapter's concern.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is a lightweight in-memory Model for tests and examples. It
// matches canned responses by substring against the last user message and
// records every request it receives.
type MockModel struct {
	info      Info
	responses map[string]string
	fallback  string
	err       error
	Requests  []Request
}

// NewMockModel constructs a MockModel with the given identity.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion returned whenever the last user
// message contains marker.
func (m *MockModel) AddResponse(marker, response string) { m.responses[marker] = response }

// SetFallback sets the completion used when no marker matches.
func (m *MockModel) SetFallback(response string) { m.fallback = response }

// Fail makes every Generate call return err.
func (m *MockModel) Fail(err error) { m.err = err }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Requests = append(m.Requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Text
	for marker, resp := range m.responses {
		if strings.Contains(last, marker) {
			return &Response{Text: resp, FinishReason: "stop"}, nil
		}
	}
	if m.fallback != "" {
		return &Response{Text: m.fallback, FinishReason: "stop"}, nil
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", last), FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
