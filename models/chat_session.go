package models

import "time"

/************************************************
/**** MARK: REPLY MODE ****/
/************************************************/
const REPLY_MODE_AUTO_AI = "Auto Reply By AI"
const REPLY_MODE_MANUAL_ADMIN = "Manual Reply By Admin in Line OA Manager"

// ChatSession is one conversation window for a user. A new session starts
// whenever a reserved command arrives; free text continues the latest one.
type ChatSession struct {
	ID             string     `gorm:"primary_key" json:"id"`
	UserID         string     `gorm:"not null;index" json:"user_id"`
	WebhookEventID string     `gorm:"not null" json:"webhook_event_id"` // event that opened the session
	ReplyMode      string     `gorm:"not null" json:"reply_mode"`
	CreatedAt      *time.Time `json:"created_at"`
}
