package main

import (
	"log"
	"os"
	"strings"

	"agentline/config"
	dbpkg "agentline/db"
	"agentline/router"
	"agentline/services"
	"agentline/tools"
	"agentline/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := getenv("CONFIG_PATH", "config/config.json")
	cfg := config.Get(cfgPath)

	dbpkg.SetConfigurations(cfg)
	db, err := dbpkg.Connect()
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	lineClient := tools.NewLineClient(cfg.Line.ChannelID, cfg.Line.ChannelSecret, cfg.Line.APIBaseURL)
	openaiClient := tools.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)

	replyTokens := &dbpkg.ReplyTokenStore{DB: db}

	svc := &services.MessagingService{
		Line:         lineClient,
		Completion:   openaiClient,
		Events:       &dbpkg.WebhookEventStore{DB: db},
		Users:        &dbpkg.UserStore{DB: db},
		Sessions:     &dbpkg.ChatSessionStore{DB: db},
		Histories:    &dbpkg.ChatHistoryStore{DB: db},
		ReplyTokens:  replyTokens,
		SystemPrompt: cfg.OpenAI.SystemPrompt,
		Policy:       services.AbortOnFirstError,
	}

	workers.StartReplyTokenSweeper(replyTokens, workers.DefaultReplyTokenMaxAge)

	r := gin.Default()
	r.Use(dbpkg.SetDBtoContext(db))
	router.Initialize(r, cfg, svc)

	log.Printf("agentline listening on :%s", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
