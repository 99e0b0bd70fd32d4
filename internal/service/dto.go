package service

// BatchSubmitRequest is the payload for a stage batch submission. The shared
// form data is applied to every selected line; each line is submitted
// independently.
type BatchSubmitRequest struct {
	LineIDs     []string          `json:"line_ids" binding:"required,min=1"`
	Status      string            `json:"status,omitempty"` // approved|rejected for review stages, defaults by stage kind
	ProcessedBy string            `json:"processed_by" binding:"required"`
	Form        map[string]string `json:"form"`
}

// LineSubmitRequest is the payload for a single-line stage submission
type LineSubmitRequest struct {
	Status      string            `json:"status,omitempty"`
	ProcessedBy string            `json:"processed_by" binding:"required"`
	Form        map[string]string `json:"form"`
}

// StageCompletedEvent is published after a batch with at least one success
type StageCompletedEvent struct {
	Stage        string   `json:"stage"`
	Identifiers  []string `json:"identifiers"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	ProcessedBy  string   `json:"processed_by"`
}
