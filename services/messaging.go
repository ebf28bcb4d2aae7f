package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"agentline/models"
)

// ErrorPolicy decides what happens to the rest of a delivery when one
// event fails. The failing event's row is annotated either way.
type ErrorPolicy int

const (
	// AbortOnFirstError stops the batch at the first failing event.
	AbortOnFirstError ErrorPolicy = iota
	// CollectErrors processes every event and joins the failures.
	CollectErrors
)

// MessagingService drives the per-event webhook pipeline: authenticate,
// decode, and for each event record, validate, resolve user and session,
// branch on chat mode, reply, and stamp the audit row.
//
// One HandleWebhook call handles one delivery; events inside it run
// strictly sequentially because later events may read session state
// written by earlier ones. Concurrent deliveries for the same user are
// not excluded here; that is left to the store's transaction semantics.
type MessagingService struct {
	Line        LineGateway
	Completion  CompletionGateway
	Events      WebhookEventStore
	Users       UserStore
	Sessions    ChatSessionStore
	Histories   ChatHistoryStore
	ReplyTokens ReplyTokenStore

	SystemPrompt string
	Policy       ErrorPolicy
}

// HandleWebhook processes one raw delivery. An invalid signature rejects
// the request before any row is written; a malformed body rejects the
// whole batch.
func (s *MessagingService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if signature == "" || !s.Line.VerifySignature(body, signature) {
		log.Printf("messaging: invalid line signature received")
		return fmt.Errorf("%w: invalid line signature", ErrAuthentication)
	}

	req, err := DecodeWebhookRequest(body)
	if err != nil {
		return err
	}
	if len(req.Events) == 0 {
		return nil
	}

	accessToken, err := s.Line.Login(ctx)
	if err != nil {
		return fmt.Errorf("%w: obtain access token: %v", ErrState, err)
	}
	if accessToken == "" {
		return fmt.Errorf("%w: empty access token from line api", ErrState)
	}

	var failures []error
	for _, ev := range req.Events {
		if err := s.processEvent(ctx, ev, accessToken); err != nil {
			if s.Policy == CollectErrors {
				failures = append(failures, err)
				continue
			}
			return err
		}
	}
	return errors.Join(failures...)
}

// Sign produces the signature the platform would send for body. Useful
// for exercising the webhook locally.
func (s *MessagingService) Sign(body []byte) string {
	return s.Line.GenerateSignature(body)
}

func (s *MessagingService) processEvent(ctx context.Context, ev Event, accessToken string) error {
	if ev.Source == nil || ev.Source.UserID == "" {
		log.Printf("messaging: event %q without source userId", ev.Type)
		return fmt.Errorf("%w: event source userId is required", ErrValidation)
	}

	// The audit anchor: written before any other side effect.
	record, err := s.recordWebhookEvent(ev)
	if err != nil {
		return fmt.Errorf("%w: record webhook event: %v", ErrState, err)
	}

	// Benign skip: follow/join style events carry no message or token.
	if ev.Message == nil || ev.Message.Text == "" || ev.ReplyToken == "" {
		log.Printf("messaging: event %s has no message or reply token, skipping", record.ID)
		return nil
	}

	if err := s.replyToEvent(ctx, ev, record, accessToken); err != nil {
		record.ErrorMessage = err.Error()
		if uerr := s.Events.Update(record); uerr != nil {
			// Best-effort diagnostics; the original error still wins.
			log.Printf("messaging: annotate event %s failed: %v", record.ID, uerr)
		}
		return err
	}
	return nil
}

// replyToEvent is the happy path of the pipeline. Any error it returns is
// annotated on the event row exactly once by processEvent.
func (s *MessagingService) replyToEvent(ctx context.Context, ev Event, record *models.WebhookEvent, accessToken string) error {
	if err := s.Line.ShowLoading(ctx, accessToken, ev.Source.UserID); err != nil {
		return fmt.Errorf("%w: show loading indicator: %v", ErrExternalService, err)
	}

	user, err := s.resolveUser(ctx, ev, record, accessToken)
	if err != nil {
		return err
	}

	if err := s.ReplyTokens.Create(&models.UserReplyToken{
		UserID:         user.ID,
		WebhookEventID: record.ID,
		ReplyToken:     ev.ReplyToken,
	}); err != nil {
		return fmt.Errorf("%w: save reply token: %v", ErrState, err)
	}

	text := ev.Message.Text
	mode := ResolveChatMode(text)

	sessionID, err := s.resolveSession(mode, record, user)
	if err != nil {
		return err
	}

	inboundMode := models.MESSAGE_MODE_MANUAL
	if mode.IsReservedCommand() {
		inboundMode = models.MESSAGE_MODE_AUTO
	}
	if err := s.Histories.Create(&models.ChatHistory{
		ChatSessionID:  sessionID,
		WebhookEventID: record.ID,
		Message:        text,
		SenderType:     models.SENDER_TYPE_USER,
		MessageMode:    inboundMode,
	}); err != nil {
		return fmt.Errorf("%w: record user turn: %v", ErrState, err)
	}

	if greeting := mode.Greeting(); greeting != "" {
		return s.sendBotReply(ctx, record, sessionID, greeting, accessToken, ev.ReplyToken, nil)
	}

	if user.ReplyMode == models.REPLY_MODE_AUTO_AI {
		rows, err := s.Histories.ListBySession(sessionID)
		if err != nil {
			return fmt.Errorf("%w: fetch session history: %v", ErrState, err)
		}
		result := s.Completion.Complete(ctx, text, s.SystemPrompt, ModelContext(rows))
		return s.sendBotReply(ctx, record, sessionID, result.OutputCompletion, accessToken, ev.ReplyToken, &result)
	}

	// Manual mode: a human operator answers out-of-band. The event stays
	// unprocessed and unflagged on purpose.
	log.Printf("messaging: session %s awaits admin reply, event %s left pending", sessionID, record.ID)
	return nil
}

func (s *MessagingService) recordWebhookEvent(ev Event) (*models.WebhookEvent, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	record := &models.WebhookEvent{
		EventJSON:          string(raw),
		EventType:          ev.Type,
		LineWebhookEventID: ev.WebhookEventID,
		SourceType:         ev.Source.Type,
		GroupID:            ev.Source.GroupID,
		UserID:             ev.Source.UserID,
		ReplyToken:         ev.ReplyToken,
	}
	if err := s.Events.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// resolveUser reuses the existing row for this LINE identity unchanged,
// or registers a new one with the display name from the platform profile.
func (s *MessagingService) resolveUser(ctx context.Context, ev Event, record *models.WebhookEvent, accessToken string) (*models.User, error) {
	existing, err := s.Users.GetByLineID(ev.Source.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup user: %v", ErrState, err)
	}
	if existing != nil {
		return existing, nil
	}

	displayName, err := s.Line.GetProfile(ctx, accessToken, ev.Source.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch line profile: %v", ErrState, err)
	}

	user := &models.User{
		LineUserID:      ev.Source.UserID,
		LineDisplayName: displayName,
		WebhookEventID:  record.ID,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, fmt.Errorf("%w: register user: %v", ErrState, err)
	}
	log.Printf("messaging: registered line user %s (%s)", user.LineUserID, displayName)
	return user, nil
}

// resolveSession implements the reply-mode state machine. Reserved
// commands always open a new session; free text continues the latest one.
// Free text from a user with no session yet silently opens a new
// automated session (the registration event doubles as session start).
func (s *MessagingService) resolveSession(mode ChatMode, record *models.WebhookEvent, user *models.User) (string, error) {
	if mode == ChatModeContinue && user.LatestChatSessionID != "" {
		return user.LatestChatSessionID, nil
	}

	replyMode := mode.ReplyMode()
	session := &models.ChatSession{
		UserID:         user.ID,
		WebhookEventID: record.ID,
		ReplyMode:      replyMode,
	}
	if err := s.Sessions.Create(session); err != nil {
		return "", fmt.Errorf("%w: create chat session: %v", ErrState, err)
	}
	if err := s.Users.UpdateLatestSession(user.ID, session.ID, replyMode); err != nil {
		return "", fmt.Errorf("%w: update latest session: %v", ErrState, err)
	}
	// Keep the in-memory user in step so the reply branch below sees the
	// mode this event just selected.
	user.LatestChatSessionID = session.ID
	user.ReplyMode = replyMode
	return session.ID, nil
}

// sendBotReply records the outbound turn, delivers it, and stamps the
// event processed. result is nil for greeting replies, which carry no
// completion metrics.
func (s *MessagingService) sendBotReply(ctx context.Context, record *models.WebhookEvent, sessionID, message, accessToken, replyToken string, result *CompletionResult) error {
	turn := &models.ChatHistory{
		ChatSessionID:  sessionID,
		WebhookEventID: record.ID,
		Message:        message,
		SenderType:     models.SENDER_TYPE_BOT,
		MessageMode:    models.MESSAGE_MODE_AUTO,
	}
	if result != nil {
		processTime := result.ProcessingTime
		inputToken := result.InputToken
		outputToken := result.OutputToken
		turn.LLMInput = result.InputPrompt
		turn.LLMProcessTime = &processTime
		turn.LLMInputToken = &inputToken
		turn.LLMOutputToken = &outputToken
	}
	if err := s.Histories.Create(turn); err != nil {
		return fmt.Errorf("%w: record bot turn: %v", ErrState, err)
	}

	if err := s.Line.SendReply(ctx, accessToken, message, replyToken); err != nil {
		return fmt.Errorf("%w: send reply: %v", ErrExternalService, err)
	}

	record.Processed = true
	now := time.Now()
	record.ProcessedAt = &now
	if err := s.Events.Update(record); err != nil {
		return fmt.Errorf("%w: mark event processed: %v", ErrState, err)
	}
	return nil
}

// ReplyByOperator lets a human operator answer a manual-mode conversation
// in-band: it consumes the user's oldest live reply token, sends the
// message, and records a Bot/Manual turn against the token's event.
func (s *MessagingService) ReplyByOperator(ctx context.Context, userID, message string) error {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("%w: lookup user: %v", ErrState, err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s not found", ErrValidation, userID)
	}
	if user.LatestChatSessionID == "" {
		return fmt.Errorf("%w: user %s has no chat session", ErrState, userID)
	}

	token, err := s.ReplyTokens.OldestUnprocessed(userID)
	if err != nil {
		return fmt.Errorf("%w: lookup reply token: %v", ErrState, err)
	}
	if token == nil {
		return fmt.Errorf("%w: no available reply token for user %s", ErrState, userID)
	}

	accessToken, err := s.Line.Login(ctx)
	if err != nil || accessToken == "" {
		return fmt.Errorf("%w: obtain access token: %v", ErrState, err)
	}

	if err := s.Line.SendReply(ctx, accessToken, message, token.ReplyToken); err != nil {
		return fmt.Errorf("%w: send operator reply: %v", ErrExternalService, err)
	}

	if err := s.Histories.Create(&models.ChatHistory{
		ChatSessionID:  user.LatestChatSessionID,
		WebhookEventID: token.WebhookEventID,
		Message:        message,
		SenderType:     models.SENDER_TYPE_BOT,
		MessageMode:    models.MESSAGE_MODE_MANUAL,
	}); err != nil {
		return fmt.Errorf("%w: record operator turn: %v", ErrState, err)
	}

	if err := s.ReplyTokens.MarkProcessed(token.ID); err != nil {
		return fmt.Errorf("%w: mark reply token processed: %v", ErrState, err)
	}
	return nil
}
