package db

import (
	"time"

	"agentline/models"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// gorm-backed implementations of the services store interfaces. IDs are
// assigned here so callers never create half-initialized rows.

type WebhookEventStore struct {
	DB *gorm.DB
}

func (s *WebhookEventStore) Create(ev *models.WebhookEvent) error {
	ev.ID = uuid.New().String()
	return s.DB.Create(ev).Error
}

func (s *WebhookEventStore) Update(ev *models.WebhookEvent) error {
	return s.DB.Save(ev).Error
}

type UserStore struct {
	DB *gorm.DB
}

func (s *UserStore) GetByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByLineID(lineUserID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("line_user_id = ?", lineUserID).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(u *models.User) error {
	u.ID = uuid.New().String()
	return s.DB.Create(u).Error
}

func (s *UserStore) UpdateLatestSession(userID, sessionID, replyMode string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"latest_chat_session_id": sessionID,
			"reply_mode":             replyMode,
		}).Error
}

type ChatSessionStore struct {
	DB *gorm.DB
}

func (s *ChatSessionStore) Create(session *models.ChatSession) error {
	session.ID = uuid.New().String()
	return s.DB.Create(session).Error
}

type ChatHistoryStore struct {
	DB *gorm.DB
}

func (s *ChatHistoryStore) Create(h *models.ChatHistory) error {
	h.ID = uuid.New().String()
	return s.DB.Create(h).Error
}

func (s *ChatHistoryStore) ListBySession(sessionID string) ([]models.ChatHistory, error) {
	var rows []models.ChatHistory
	err := s.DB.
		Where("chat_session_id = ?", sessionID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}

type ReplyTokenStore struct {
	DB *gorm.DB
}

func (s *ReplyTokenStore) Create(t *models.UserReplyToken) error {
	t.ID = uuid.New().String()
	return s.DB.Create(t).Error
}

func (s *ReplyTokenStore) OldestUnprocessed(userID string) (*models.UserReplyToken, error) {
	var token models.UserReplyToken
	err := s.DB.
		Where("user_id = ? AND is_processed = ?", userID, false).
		Order("created_at asc").
		First(&token).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *ReplyTokenStore) MarkProcessed(id string) error {
	now := time.Now()
	return s.DB.Model(&models.UserReplyToken{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_processed": true,
			"processed_at": &now,
		}).Error
}

// ExpireOlderThan retires unprocessed reply tokens created before cutoff.
// Used by the sweeper; LINE reply tokens stop working after about a
// minute, so stale rows must never reach the operator reply flow.
func (s *ReplyTokenStore) ExpireOlderThan(cutoff time.Time) (int64, error) {
	now := time.Now()
	res := s.DB.Model(&models.UserReplyToken{}).
		Where("is_processed = ? AND created_at < ?", false, cutoff).
		Updates(map[string]any{
			"is_processed": true,
			"processed_at": &now,
		})
	return res.RowsAffected, res.Error
}
