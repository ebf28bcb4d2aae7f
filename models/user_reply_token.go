package models

import "time"

// UserReplyToken stores the one-time reply token carried by each event.
// Tokens start unprocessed; the operator reply flow consumes them and the
// sweeper retires the ones that aged out before anyone used them.
type UserReplyToken struct {
	ID             string     `gorm:"primary_key" json:"id"`
	UserID         string     `gorm:"not null;index" json:"user_id"`
	WebhookEventID string     `gorm:"not null" json:"webhook_event_id"`
	ReplyToken     string     `gorm:"not null" json:"reply_token"`
	IsProcessed    bool       `gorm:"not null;default:false;index" json:"is_processed"`
	ProcessedAt    *time.Time `json:"processed_at"`
	CreatedAt      *time.Time `json:"created_at"`
}
