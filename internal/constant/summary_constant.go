package constant

const (
	SummaryMinContentLength = 50

	SummarySystemPrompt = "You are an expert summarizer. Your task is to provide a concise, clear, and accurate summary of the given text in 1-3 sentences. Focus on the main points and key information. The summary should be returned in the same language as the original text. Return only the summary text, without any prefix such as \"Summary:\"."
	SummaryUserPrompt   = "Please summarize the following note content:\n\n---\n\n"

	SummaryTemperature = 0.3
	SummaryMaxTokens   = 200
)

const (
	MsgSummaryInvalidNoteId        = "Invalid note ID format."
	MsgSummaryContentTooShort      = "Note content is too short to generate a meaningful summary."
	MsgSummaryProvidersUnavailable = "Failed to generate summary. All AI services are currently unavailable."
	MsgSummarySaveFailed           = "Failed to save the summary to the database."
	MsgSummaryUnexpected           = "An unexpected error occurred while contacting the AI model."
)
