package dto

// SubmitFeedbackRequest represents a feedback submission
type SubmitFeedbackRequest struct {
	Message  string `json:"message" binding:"required,max=2000"`
	Category string `json:"category,omitempty"`
}

// FeedbackResponse confirms a feedback submission
type FeedbackResponse struct {
	ReferenceID string `json:"referenceId"`
	Category    string `json:"category"`
}
