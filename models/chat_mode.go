package models

/************************************************
/**** MARK: RESERVED MENU COMMANDS ****/
/************************************************/

// Exact-match menu strings sent by the LINE rich menu. Any other text
// continues the current conversation.
const CHAT_COMMAND_SELECT_AGENT = "[AI] คุยกับ Agent AI โดยขึ้น Session ใหม่"
const CHAT_COMMAND_SELECT_HUMAN_ADMIN = "[Human] คุยกับ Admin (คน)"
