package dto

const (
	SummaryReasonInvalidNoteId        = "invalid_note_id"
	SummaryReasonContentTooShort      = "content_too_short"
	SummaryReasonProvidersUnavailable = "providers_unavailable"
	SummaryReasonSaveFailed           = "save_failed"
	SummaryReasonUnexpected           = "unexpected"
)

type GenerateSummaryRequest struct {
	NoteId      string `json:"-"`
	NoteContent string `json:"note_content"`
}

// GenerateSummaryResult reports the outcome of a summary request. Reason is
// set only when Success is false.
type GenerateSummaryResult struct {
	Success bool   `json:"success"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type GenerateSummaryResponse struct {
	Summary string `json:"summary"`
}
