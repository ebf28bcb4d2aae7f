package models

import "time"

// User represents one LINE end user. A row is created once per LineUserID
// (idempotent upsert); afterwards only ReplyMode and LatestChatSessionID
// change, and ReplyMode always mirrors the reply mode of the session
// LatestChatSessionID points at.
type User struct {
	ID                  string     `gorm:"primary_key" json:"id"`
	LineUserID          string     `gorm:"column:line_user_id;not null;unique_index" json:"line_user_id"`
	LineDisplayName     string     `gorm:"column:line_display_name" json:"line_display_name"`
	WebhookEventID      string     `gorm:"index" json:"webhook_event_id"` // event that first registered the user
	LatestChatSessionID string     `json:"latest_chat_session_id"`
	ReplyMode           string     `json:"reply_mode"` // REPLY_MODE_AUTO_AI or REPLY_MODE_MANUAL_ADMIN
	CreatedAt           *time.Time `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}
