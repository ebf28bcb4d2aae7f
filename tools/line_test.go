package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	c := NewLineClient("1234", "channel-secret", "https://api.line.me")
	body := []byte(`{"destination":"bot","events":[]}`)

	sig := c.GenerateSignature(body)
	assert.NotEmpty(t, sig)
	assert.True(t, c.VerifySignature(body, sig))

	// Tampered body, wrong secret, garbage and empty signatures all fail.
	assert.False(t, c.VerifySignature(append(body, ' '), sig))
	other := NewLineClient("1234", "other-secret", "https://api.line.me")
	assert.False(t, other.VerifySignature(body, sig))
	assert.False(t, c.VerifySignature(body, "not-base64!!!"))
	assert.False(t, c.VerifySignature(body, ""))
	assert.False(t, c.VerifySignature(body, "   "))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/oauth/accessToken", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "1234", r.PostForm.Get("client_id"))
		assert.Equal(t, "channel-secret", r.PostForm.Get("client_secret"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "issued-token",
			"expires_in":   2592000,
			"token_type":   "Bearer",
		})
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	token, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

func TestLoginErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewLineClient("1234", "wrong", srv.URL)
	_, err := c.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestLoginEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	_, err := c.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}

func TestSendReply(t *testing.T) {
	var got struct {
		ReplyToken string `json:"replyToken"`
		Messages   []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	require.NoError(t, c.SendReply(context.Background(), "issued-token", "สวัสดีครับ", "rt-42"))

	assert.Equal(t, "rt-42", got.ReplyToken)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "text", got.Messages[0].Type)
	assert.Equal(t, "สวัสดีครับ", got.Messages[0].Text)
}

func TestSendReplyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid reply token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	err := c.SendReply(context.Background(), "issued-token", "hi", "stale-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/bot/profile/U123", r.URL.Path)
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"userId":      "U123",
			"displayName": "Somchai",
		})
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	name, err := c.GetProfile(context.Background(), "issued-token", "U123")
	require.NoError(t, err)
	assert.Equal(t, "Somchai", name)
}

func TestGetProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	_, err := c.GetProfile(context.Background(), "issued-token", "Unope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestShowLoading(t *testing.T) {
	var got struct {
		ChatID         string `json:"chatId"`
		LoadingSeconds int    `json:"loadingSeconds"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/chat/loading/start", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewLineClient("1234", "channel-secret", srv.URL)
	require.NoError(t, c.ShowLoading(context.Background(), "issued-token", "U123"))
	assert.Equal(t, "U123", got.ChatID)
	assert.Equal(t, 20, got.LoadingSeconds)
}
