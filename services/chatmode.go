package services

import "agentline/models"

// ChatMode classifies one inbound message against the reserved menu
// commands. Anything that is not an exact command match continues the
// current conversation.
type ChatMode int

const (
	ChatModeContinue ChatMode = iota
	ChatModeSelectAgent
	ChatModeSelectHumanAdmin
)

const greetingSelectAgent = "สวัสดีครับ Agent AI ขออนุญาตเริ่มต้นการสนทนาใหม่นะครับ ข้อความก่อนหน้านี้จะไม่ถูกนำมาประมวลผล"
const greetingSelectHumanAdmin = "สวัสดีครับ Admin (คน) พร้อมตอบคำถามที่คุณกำลังสนทนาครับ"

func ResolveChatMode(messageText string) ChatMode {
	switch messageText {
	case models.CHAT_COMMAND_SELECT_AGENT:
		return ChatModeSelectAgent
	case models.CHAT_COMMAND_SELECT_HUMAN_ADMIN:
		return ChatModeSelectHumanAdmin
	default:
		return ChatModeContinue
	}
}

// IsReservedCommand reports whether the mode came from a menu command.
func (m ChatMode) IsReservedCommand() bool {
	return m == ChatModeSelectAgent || m == ChatModeSelectHumanAdmin
}

// ReplyMode maps the command to the reply mode of the session it opens.
// The human-admin command hands the conversation to an operator; every
// other new session is answered by the model.
func (m ChatMode) ReplyMode() string {
	if m == ChatModeSelectHumanAdmin {
		return models.REPLY_MODE_MANUAL_ADMIN
	}
	return models.REPLY_MODE_AUTO_AI
}

// Greeting returns the fixed localized greeting for a reserved command,
// or "" when the mode continues an existing conversation.
func (m ChatMode) Greeting() string {
	switch m {
	case ChatModeSelectAgent:
		return greetingSelectAgent
	case ChatModeSelectHumanAdmin:
		return greetingSelectHumanAdmin
	default:
		return ""
	}
}
