package types

import "fmt"

// AssessmentStatus represents the progress of an assessment
type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
)

// IsValid checks if the assessment status is valid
func (s AssessmentStatus) IsValid() bool {
	return s == AssessmentInProgress || s == AssessmentCompleted
}

// String returns the string representation of the assessment status
func (s AssessmentStatus) String() string {
	return string(s)
}

// ParseAssessmentStatus parses a string into an AssessmentStatus
func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	status := AssessmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assessment status: %s", s)
	}
	return status, nil
}
