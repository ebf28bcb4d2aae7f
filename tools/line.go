package tools

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LineClient talks to the LINE Messaging API. It implements
// services.LineGateway.
type LineClient struct {
	ChannelID     string
	ChannelSecret string
	APIBaseURL    string // e.g. https://api.line.me

	HTTPClient *http.Client
}

func NewLineClient(channelID, channelSecret, apiBaseURL string) *LineClient {
	return &LineClient{
		ChannelID:     channelID,
		ChannelSecret: channelSecret,
		APIBaseURL:    strings.TrimRight(apiBaseURL, "/"),
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// VerifySignature checks the X-Line-Signature header: base64 of the
// HMAC-SHA256 digest of the raw body keyed with the channel secret.
func (c *LineClient) VerifySignature(body []byte, signature string) bool {
	if strings.TrimSpace(signature) == "" {
		return false
	}
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.ChannelSecret))
	_, _ = mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

func (c *LineClient) GenerateSignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.ChannelSecret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Login issues a short-lived channel access token
// (POST /v2/oauth/accessToken, client_credentials grant).
func (c *LineClient) Login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.ChannelID)
	form.Set("client_secret", c.ChannelSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.APIBaseURL+"/v2/oauth/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("line login error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("line login returned empty access token")
	}
	return parsed.AccessToken, nil
}

// SendReply answers one event through the reply endpoint, consuming its
// one-time reply token.
func (c *LineClient) SendReply(ctx context.Context, accessToken, message, replyToken string) error {
	reqBody := map[string]any{
		"replyToken": replyToken,
		"messages": []map[string]any{
			{"type": "text", "text": message},
		},
	}
	return c.post(ctx, accessToken, "/v2/bot/message/reply", reqBody, nil)
}

// GetProfile returns the user's display name.
func (c *LineClient) GetProfile(ctx context.Context, accessToken, lineUserID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.APIBaseURL+"/v2/bot/profile/"+url.PathEscape(lineUserID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("line profile error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.DisplayName, nil
}

// ShowLoading starts the typing indicator in the user's chat.
func (c *LineClient) ShowLoading(ctx context.Context, accessToken, lineUserID string) error {
	reqBody := map[string]any{
		"chatId":         lineUserID,
		"loadingSeconds": 20,
	}
	return c.post(ctx, accessToken, "/v2/bot/chat/loading/start", reqBody, nil)
}

func (c *LineClient) post(ctx context.Context, accessToken, path string, reqBody any, out any) error {
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("line api error: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
