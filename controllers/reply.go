package controllers

import (
	"log"
	"net/http"

	"agentline/services"

	"github.com/gin-gonic/gin"
)

type OperatorReplyRequest struct {
	UserID  string `json:"user_id" form:"user_id"`
	Message string `json:"message" form:"message"`
}

// ReplyController lets the operator answer manual-mode conversations.
type ReplyController struct {
	Service *services.MessagingService
}

// POST /api/reply (operator)
//
// Sends message to the user over their oldest live reply token and
// records the turn in the session history.
func (r *ReplyController) OperatorReply(c *gin.Context) {
	var req OperatorReplyRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Message == "" {
		RespondError(c, "user_id and message are required", http.StatusBadRequest)
		return
	}

	if err := r.Service.ReplyByOperator(c.Request.Context(), req.UserID, req.Message); err != nil {
		log.Printf("reply: %v", err)
		RespondError(c, err.Error(), statusForError(err))
		return
	}

	RespondSuccess(c, gin.H{"status": "sent"})
}
