package services

import (
	"testing"
	"time"

	"agentline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyRow(sender, mode, message string, createdAt time.Time) models.ChatHistory {
	return models.ChatHistory{
		SenderType:  sender,
		MessageMode: mode,
		Message:     message,
		CreatedAt:   &createdAt,
	}
}

func TestModelContextFilter(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	rows := []models.ChatHistory{
		// Reserved command turn: User/Auto, must not feed the model.
		historyRow(models.SENDER_TYPE_USER, models.MESSAGE_MODE_AUTO, models.CHAT_COMMAND_SELECT_AGENT, base),
		historyRow(models.SENDER_TYPE_BOT, models.MESSAGE_MODE_AUTO, "greeting", base.Add(1*time.Second)),
		historyRow(models.SENDER_TYPE_USER, models.MESSAGE_MODE_MANUAL, "what is F&I?", base.Add(2*time.Second)),
		historyRow(models.SENDER_TYPE_BOT, models.MESSAGE_MODE_AUTO, "F&I stands for...", base.Add(3*time.Second)),
		// Operator turn: Bot/Manual, included like any bot turn.
		historyRow(models.SENDER_TYPE_BOT, models.MESSAGE_MODE_MANUAL, "operator here", base.Add(4*time.Second)),
	}

	turns := ModelContext(rows)
	require.Len(t, turns, 4)

	assert.Equal(t, "greeting", turns[0].Message)
	assert.True(t, turns[0].IsBot)
	assert.Equal(t, "what is F&I?", turns[1].Message)
	assert.False(t, turns[1].IsBot)
	assert.Equal(t, "F&I stands for...", turns[2].Message)
	assert.Equal(t, "operator here", turns[3].Message)
}

func TestModelContextOrdersByCreatedAtAscending(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	// Input deliberately out of order.
	rows := []models.ChatHistory{
		historyRow(models.SENDER_TYPE_BOT, models.MESSAGE_MODE_AUTO, "third", base.Add(3*time.Second)),
		historyRow(models.SENDER_TYPE_USER, models.MESSAGE_MODE_MANUAL, "first", base.Add(1*time.Second)),
		historyRow(models.SENDER_TYPE_BOT, models.MESSAGE_MODE_AUTO, "second", base.Add(2*time.Second)),
	}

	turns := ModelContext(rows)
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[0].Message)
	assert.Equal(t, "second", turns[1].Message)
	assert.Equal(t, "third", turns[2].Message)
}

func TestModelContextEmptyAndNilTimes(t *testing.T) {
	assert.Empty(t, ModelContext(nil))

	rows := []models.ChatHistory{
		{SenderType: models.SENDER_TYPE_BOT, MessageMode: models.MESSAGE_MODE_AUTO, Message: "no timestamp"},
	}
	turns := ModelContext(rows)
	require.Len(t, turns, 1)
	assert.True(t, turns[0].CreatedAt.IsZero())
}
