package router

import (
	"log"
	"net/http"

	"agentline/config"
	"agentline/controllers"
	"agentline/middleware"
	"agentline/services"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares: the public LINE webhook,
// the operator login, and the JWT-guarded operator API.
func Initialize(r *gin.Engine, cfg config.Configuration, svc *services.MessagingService) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	webhook := &controllers.WebhookController{Service: svc}
	auth := &controllers.AuthController{Cfg: cfg}
	reply := &controllers.ReplyController{Service: svc}

	api := r.Group("/api")

	// Public: LINE calls this, authenticated by signature, not by JWT.
	api.POST("/webhook", Logger(), webhook.HandleWebhook)

	// Public: operator login.
	api.POST("/login", Logger(), auth.Login)

	// Operator routes (token required)
	operator := api.Group("")
	operator.Use(controllers.AuthRequired(cfg.Security.JwtSecret))

	operator.GET("/events", Logger(), controllers.GetEvents)
	operator.GET("/events/:id", Logger(), controllers.GetEventByID)
	operator.GET("/events/dashboard/processed-per-day", Logger(), controllers.GetEventsProcessedPerDay)
	operator.GET("/sessions/:id/history", Logger(), controllers.GetSessionHistory)
	operator.POST("/reply", Logger(), reply.OperatorReply)
	operator.POST("/webhook/sign", Logger(), webhook.SignBody)

	log.Printf("Routes initialized")
}
