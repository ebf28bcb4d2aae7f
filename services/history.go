package services

import (
	"sort"
	"time"

	"agentline/models"
)

// ModelContext selects the turns of a session that feed the model's
// context window: every Bot turn plus the User turns typed by hand
// (MessageMode Manual). Reserved-command turns are User/Auto and fall
// out. The result is ordered by creation time ascending.
func ModelContext(rows []models.ChatHistory) []CompletionTurn {
	turns := make([]CompletionTurn, 0, len(rows))
	for _, row := range rows {
		include := row.SenderType == models.SENDER_TYPE_BOT ||
			(row.SenderType == models.SENDER_TYPE_USER && row.MessageMode == models.MESSAGE_MODE_MANUAL)
		if !include {
			continue
		}
		var createdAt time.Time
		if row.CreatedAt != nil {
			createdAt = *row.CreatedAt
		}
		turns = append(turns, CompletionTurn{
			IsBot:     row.SenderType == models.SENDER_TYPE_BOT,
			Message:   row.Message,
			CreatedAt: createdAt,
		})
	}
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})
	return turns
}
