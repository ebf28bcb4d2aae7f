package controllers

import (
	"net/http"

	dbpkg "agentline/db"
	"agentline/models"

	"github.com/gin-gonic/gin"
)

// GET /api/events (operator)
func GetEvents(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	var events []models.WebhookEvent
	if err := db.Order("created_at desc").Limit(200).Find(&events).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"events": events})
}

// GET /api/events/:id (operator)
func GetEventByID(c *gin.Context) {
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

	var event models.WebhookEvent
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		RespondError(c, "event not found", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"event": event})
}
