package models

// FeedbackCategory classifies a feedback submission
type FeedbackCategory string

const (
	FeedbackCategoryBug        FeedbackCategory = "bug"
	FeedbackCategoryFeature    FeedbackCategory = "feature"
	FeedbackCategoryUI         FeedbackCategory = "ui"
	FeedbackCategorySuggestion FeedbackCategory = "suggestion"
	FeedbackCategoryOther      FeedbackCategory = "other"
)

// ValidFeedbackCategory reports whether the given category is recognized
func ValidFeedbackCategory(c FeedbackCategory) bool {
	switch c {
	case FeedbackCategoryBug, FeedbackCategoryFeature, FeedbackCategoryUI,
		FeedbackCategorySuggestion, FeedbackCategoryOther:
		return true
	}
	return false
}

// Feedback represents a user feedback submission forwarded by email
type Feedback struct {
	Message   string           `json:"message"`
	Category  FeedbackCategory `json:"category"`
	UserEmail string           `json:"userEmail,omitempty"`
	UserID    string           `json:"userId,omitempty"`
}
