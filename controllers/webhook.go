package controllers

import (
	"log"
	"net/http"

	"agentline/services"

	"github.com/gin-gonic/gin"
)

// WebhookController receives LINE webhook deliveries and hands them to the
// messaging pipeline.
type WebhookController struct {
	Service *services.MessagingService
}

// POST /api/webhook
//
// LINE sends the delivery body plus an X-Line-Signature header. A bad
// signature is rejected with 401 before anything is persisted; a
// malformed body with 400. Pipeline failures after the audit row exists
// surface as 500 here and as an error annotation on the event row.
func (w *WebhookController) HandleWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}
	signature := c.GetHeader("X-Line-Signature")

	if err := w.Service.HandleWebhook(c.Request.Context(), raw, signature); err != nil {
		log.Printf("webhook: %v", err)
		RespondError(c, err.Error(), statusForError(err))
		return
	}

	RespondSuccess(c, gin.H{"status": "ok"})
}

// POST /api/webhook/sign (operator)
//
// Signs an arbitrary body with the channel secret, for exercising the
// webhook endpoint locally without the platform.
func (w *WebhookController) SignBody(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"signature": w.Service.Sign(raw)})
}
