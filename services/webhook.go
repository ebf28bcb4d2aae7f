package services

import (
	"encoding/json"
	"fmt"
)

// WebhookRequest is the decoded LINE webhook delivery. One delivery may
// batch several events; they are processed strictly in order.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type           string        `json:"type"`
	ReplyToken     string        `json:"replyToken"`
	WebhookEventID string        `json:"webhookEventId"`
	Timestamp      int64         `json:"timestamp"`
	Source         *EventSource  `json:"source"`
	Message        *EventMessage `json:"message"`
}

type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// DecodeWebhookRequest parses the raw delivery body. A malformed payload
// is fatal for the whole batch; no partial decoding is attempted.
func DecodeWebhookRequest(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: invalid webhook json: %v", ErrValidation, err)
	}
	return &req, nil
}
