package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Line struct {
		ChannelID     string `json:"channel_id"`
		ChannelSecret string `json:"channel_secret"`
		APIBaseURL    string `json:"api_base_url"`
	} `json:"line"`

	OpenAI struct {
		APIKey       string `json:"api_key"`
		Model        string `json:"model"`
		BaseURL      string `json:"base_url"`
		SystemPrompt string `json:"system_prompt"`
	} `json:"openai"`

	Security struct {
		JwtSecret        string `json:"jwt_secret"`
		TokenTTLHours    int    `json:"token_ttl_hours"`
		OperatorEmail    string `json:"operator_email"`
		OperatorPassword string `json:"operator_password"`
	} `json:"security"`
}

const defaultSystemPrompt = `You are "DealerDMS Pro", a domain-expert assistant for the Powersports industry.
Help dealership owners, managers, and staff with practical, up-to-date guidance on every aspect of a Dealership Management System: inventory, sales, F&I, service & parts, CRM, reporting, and integrations.
Tailor answers to the user's dealership, keep them actionable, stay vendor-neutral, and flag any compliance considerations.
Always end with: "Let me know if you'd like more detail or examples for your dealership."`

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Line.APIBaseURL == "" {
		c.Line.APIBaseURL = "https://api.line.me"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com"
	}
	if c.OpenAI.SystemPrompt == "" {
		c.OpenAI.SystemPrompt = defaultSystemPrompt
	}
	if c.Security.TokenTTLHours <= 0 {
		c.Security.TokenTTLHours = 24
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}

	// secrets may come from env so they stay out of config.json
	if v := getenv("LINE_CHANNEL_ID"); v != "" {
		c.Line.ChannelID = v
	}
	if v := getenv("LINE_CHANNEL_SECRET"); v != "" {
		c.Line.ChannelSecret = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.Security.JwtSecret = v
	}

	return c
}

func getenv(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}
