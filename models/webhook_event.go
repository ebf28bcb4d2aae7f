package models

import "time"

// WebhookEvent is the audit snapshot of one inbound LINE event.
// It is written before any other side effect; later failures annotate it
// via ErrorMessage instead of rolling it back. A row is always in exactly
// one of three states: unprocessed, unprocessed-with-error, processed.
type WebhookEvent struct {
	ID                 string     `gorm:"primary_key" json:"id"`
	EventJSON          string     `gorm:"type:text" json:"event_json"`
	EventType          string     `gorm:"index" json:"event_type"`
	LineWebhookEventID string     `gorm:"column:line_webhook_event_id" json:"line_webhook_event_id"`
	SourceType         string     `json:"source_type"`
	GroupID            string     `json:"group_id"`
	UserID             string     `gorm:"index" json:"user_id"`
	ReplyToken         string     `json:"reply_token"`
	Processed          bool       `gorm:"not null;default:false;index" json:"processed"`
	ProcessedAt        *time.Time `json:"processed_at"`
	ErrorMessage       string     `gorm:"type:text" json:"error_message"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}
