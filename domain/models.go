// Package domain defines the core domain models for the chat backend.
package domain

import (
	"time"
)

// Message roles. A message is either a user turn or an agent reply; replies
// from an unrecognized workflow carry RoleAssistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleMetaAds   = "Agent Meta Ads"
	RoleGoogleAds = "Agent Google Ads"
	RoleAdminAds  = "Agent Admin Ads"
)

// Engine selects how a reply is produced for a send request.
type Engine string

const (
	// EngineDummy returns a templated string without any network call.
	// It exists for local testing and is the default.
	EngineDummy Engine = "gemini"
	// EngineN8N forwards the message to the configured n8n webhook.
	EngineN8N Engine = "n8n"
)

// Session represents a persisted conversation thread.
type Session struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id,omitempty"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Message represents a single role-tagged turn within a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SendRequest is the client payload for POST /chat. It arrives either as
// JSON or as a form post from the rendered chat page.
type SendRequest struct {
	Message   string `json:"message" form:"message"`
	SessionID string `json:"session_id,omitempty" form:"session_id"`
	Model     string `json:"model,omitempty" form:"model"`
	Type      string `json:"type,omitempty" form:"type"`
}

// SendResult is the data section of a successful send response.
type SendResult struct {
	SessionID  string        `json:"session_id"`
	Messages   []MessageView `json:"messages"`
	AIResponse string        `json:"ai_response"`
}

// MessageView is the client-facing rendering of a message.
type MessageView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// SessionView is the client-facing rendering of a session in listings.
type SessionView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// WebhookRequest is the client payload for the direct proxy variant.
type WebhookRequest struct {
	Message   string `json:"message" form:"message"`
	SessionID string `json:"session_id,omitempty" form:"session_id"`
}

// WebhookResult is the data section of a direct proxy response.
type WebhookResult struct {
	AIResponse string `json:"ai_response"`
	ID         string `json:"id"`
	SessionID  string `json:"session_id"`
}
