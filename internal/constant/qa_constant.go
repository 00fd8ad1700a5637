package constant

const (
	QAMessageRoleUser      = "user"
	QAMessageRoleAssistant = "assistant"
	QAMessageRoleSystem    = "system"

	DefaultSessionTitle   = "New conversation"
	SessionTitleMaxLength = 100

	EmptyNotePlaceholder = "No content available for this note."

	QASystemPromptPreamble = `You are an intelligent Q&A assistant. Your task is to answer questions based on the provided note content. Be concise, accurate, and helpful. If the answer is not in the note, say "I cannot find the answer in the provided note content.If user's question is not in the note content but is relevant, answer it based on your knowledge. "`
	QANoteContentHeader    = "\n\n--- NOTE CONTENT ---\n"

	QATemperature = 0.1
	QAMaxTokens   = 1000
)

// BuildQASystemPrompt appends the note content to the fixed instructions.
func BuildQASystemPrompt(noteContent string) string {
	return QASystemPromptPreamble + QANoteContentHeader + noteContent
}

const (
	MsgInvalidNoteId         = "Invalid Note ID"
	MsgInvalidSessionId      = "Invalid Session ID"
	MsgNoteIdRequired        = "Note ID is required"
	MsgSessionIdRequired     = "Session ID is required"
	MsgChatNoteIdRequired    = "Note ID is required."
	MsgChatInvalidNoteId     = "Invalid Note ID."
	MsgChatInvalidSessionId  = "Invalid Session ID."
	MsgNoUserMessage         = "No user message found."
	MsgUnauthorized          = "Unauthorized"
	MsgSessionCreateFailed   = "Could not start a new session."
	MsgFailedToFetchSessions = "Failed to fetch sessions"
	MsgFailedToFetchMessages = "Failed to fetch messages"
	MsgInvalidRequestBody    = "Invalid request body"
)
