package controllers

import (
	"net/http"

	dbpkg "agentline/db"
	"agentline/models"

	"github.com/gin-gonic/gin"
)

// GET /api/sessions/:id/history (operator)
//
// The full audit trail of one session, oldest first. Unlike the model
// context this includes every turn, reserved commands included.
func GetSessionHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		RespondError(c, "id is required", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	var session models.ChatSession
	if err := db.Where("id = ?", id).First(&session).Error; err != nil {
		RespondError(c, "session not found", http.StatusNotFound)
		return
	}

	var history []models.ChatHistory
	if err := db.
		Where("chat_session_id = ?", id).
		Order("created_at asc").
		Find(&history).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"session": session, "history": history})
}
