package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrActionItemNotFound = errors.New("action item not found")
	ErrFrameworkNotFound  = errors.New("framework not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	ActionItemIDKey = "action_item_id"
	FrameworkKey    = "framework"
)
