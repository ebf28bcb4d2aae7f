package models

import "time"

/************************************************
/**** MARK: SENDER TYPE ****/
/************************************************/
const SENDER_TYPE_USER = "User"
const SENDER_TYPE_BOT = "Bot"

/************************************************
/**** MARK: MESSAGE MODE ****/
/************************************************/
const MESSAGE_MODE_AUTO = "Auto"
const MESSAGE_MODE_MANUAL = "Manual"

// ChatHistory is one append-only conversation turn. Rows are never
// updated after creation. LLM* fields are set only on Bot turns produced
// by the completion gateway.
type ChatHistory struct {
	ID             string     `gorm:"primary_key" json:"id"`
	ChatSessionID  string     `gorm:"not null;index" json:"chat_session_id"`
	WebhookEventID string     `gorm:"not null;index" json:"webhook_event_id"`
	Message        string     `gorm:"type:text;not null" json:"message"`
	SenderType     string     `gorm:"not null" json:"sender_type"`  // SENDER_TYPE_USER or SENDER_TYPE_BOT
	MessageMode    string     `gorm:"not null" json:"message_mode"` // MESSAGE_MODE_AUTO or MESSAGE_MODE_MANUAL
	LLMInput       string     `gorm:"column:llm_input;type:text" json:"llm_input"`
	LLMProcessTime *int       `gorm:"column:llm_process_time" json:"llm_process_time"` // seconds
	LLMInputToken  *int       `gorm:"column:llm_input_token" json:"llm_input_token"`
	LLMOutputToken *int       `gorm:"column:llm_output_token" json:"llm_output_token"`
	CreatedAt      *time.Time `json:"created_at"`
}
