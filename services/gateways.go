package services

import (
	"context"
	"time"

	"agentline/models"
)

// LineGateway is the messaging-platform collaborator. Implemented by
// tools.LineClient; faked in tests.
type LineGateway interface {
	// Login issues a short-lived channel access token.
	Login(ctx context.Context) (string, error)
	// SendReply answers an event using its one-time reply token.
	SendReply(ctx context.Context, accessToken, message, replyToken string) error
	// GetProfile returns the display name for a platform user id.
	GetProfile(ctx context.Context, accessToken, lineUserID string) (string, error)
	// ShowLoading flashes the typing indicator in the user's chat.
	ShowLoading(ctx context.Context, accessToken, lineUserID string) error
	// VerifySignature authenticates a raw webhook body.
	VerifySignature(body []byte, signature string) bool
	// GenerateSignature signs a body the way the platform would.
	GenerateSignature(body []byte) string
}

// CompletionTurn is one prior conversation turn handed to the model.
// Turns must be applied in ascending CreatedAt order.
type CompletionTurn struct {
	IsBot     bool
	Message   string
	CreatedAt time.Time
}

// CompletionResult carries the reply text plus the usage metrics recorded
// on the Bot history row.
type CompletionResult struct {
	InputPrompt      string
	OutputCompletion string
	ProcessingTime   int // seconds
	InputToken       int
	OutputToken      int
}

// CompletionGateway is the language-model collaborator. Implementations
// never fail: any internal error becomes a fixed fallback reply.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt, systemPrompt string, history []CompletionTurn) CompletionResult
}

// Persistence collaborators. The gorm implementations live in db; the
// orchestrator only sees these.

type WebhookEventStore interface {
	Create(ev *models.WebhookEvent) error
	Update(ev *models.WebhookEvent) error
}

type UserStore interface {
	GetByID(id string) (*models.User, error)
	// GetByLineID returns (nil, nil) when no row exists.
	GetByLineID(lineUserID string) (*models.User, error)
	Create(u *models.User) error
	UpdateLatestSession(userID, sessionID, replyMode string) error
}

type ChatSessionStore interface {
	Create(s *models.ChatSession) error
}

type ChatHistoryStore interface {
	Create(h *models.ChatHistory) error
	// ListBySession returns every turn of a session, oldest first.
	ListBySession(sessionID string) ([]models.ChatHistory, error)
}

type ReplyTokenStore interface {
	Create(t *models.UserReplyToken) error
	// OldestUnprocessed returns (nil, nil) when the user has no token left.
	OldestUnprocessed(userID string) (*models.UserReplyToken, error)
	MarkProcessed(id string) error
}
