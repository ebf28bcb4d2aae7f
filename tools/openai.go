package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"agentline/services"
)

// CompletionFallbackMessage is returned instead of an error whenever the
// completion call fails for any reason: the pipeline must never abort
// because the model was unavailable.
const CompletionFallbackMessage = "ขออภัยค่ะระบบไม่สามารถประมวลผลคำถามนี้ได้\nSorry, I am unable to provide an answer at the moment. Please try again later."

// OpenAIClient calls the OpenAI Chat Completions API. It implements
// services.CompletionGateway.
type OpenAIClient struct {
	APIKey  string
	Model   string
	BaseURL string // e.g. https://api.openai.com

	HTTPClient *http.Client
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	return &OpenAIClient{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete runs one completion over the system prompt, the session
// history (already ordered by creation time ascending) and the new
// message. It never returns an error: failures become the fixed fallback
// reply with zero token counts.
func (c *OpenAIClient) Complete(ctx context.Context, prompt, systemPrompt string, history []services.CompletionTurn) services.CompletionResult {
	start := time.Now()

	text, inputToken, outputToken, err := c.complete(ctx, prompt, systemPrompt, history)
	elapsed := int(time.Since(start).Seconds())
	if err != nil {
		log.Printf("openai: completion error: %v", err)
		return services.CompletionResult{
			InputPrompt:      prompt,
			OutputCompletion: CompletionFallbackMessage,
			ProcessingTime:   elapsed,
		}
	}

	return services.CompletionResult{
		InputPrompt:      prompt,
		OutputCompletion: text,
		ProcessingTime:   elapsed,
		InputToken:       inputToken,
		OutputToken:      outputToken,
	}
}

func (c *OpenAIClient) complete(ctx context.Context, prompt, systemPrompt string, history []services.CompletionTurn) (string, int, int, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	for _, turn := range history {
		role := "user"
		if turn.IsBot {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Message})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := map[string]any{
		"model":    c.Model,
		"messages": messages,
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", 0, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, 0, fmt.Errorf("openai error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, 0, err
	}

	if len(parsed.Choices) == 0 {
		return "", 0, 0, fmt.Errorf("empty response from model")
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", 0, 0, fmt.Errorf("empty completion text")
	}
	return text, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens, nil
}
