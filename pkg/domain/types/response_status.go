package types

import "fmt"

// ResponseStatus represents a self-reported compliance state for one question
type ResponseStatus string

const (
	ResponseCompliant    ResponseStatus = "compliant"
	ResponsePartial      ResponseStatus = "partial"
	ResponseNonCompliant ResponseStatus = "non-compliant"
	ResponseNotAssessed  ResponseStatus = "not-assessed"
)

// AllResponseStatuses returns all valid response statuses
func AllResponseStatuses() []ResponseStatus {
	return []ResponseStatus{
		ResponseCompliant,
		ResponsePartial,
		ResponseNonCompliant,
		ResponseNotAssessed,
	}
}

// IsValid checks if the response status is valid
func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseCompliant,
		ResponsePartial,
		ResponseNonCompliant,
		ResponseNotAssessed:
		return true
	default:
		return false
	}
}

// IsAnswered reports whether the status counts as an answer. Unknown values
// are treated like not-assessed.
func (s ResponseStatus) IsAnswered() bool {
	return s.IsValid() && s != ResponseNotAssessed
}

// String returns the string representation of the response status
func (s ResponseStatus) String() string {
	return string(s)
}

// ParseResponseStatus parses a string into a ResponseStatus
func ParseResponseStatus(s string) (ResponseStatus, error) {
	status := ResponseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid response status: %s", s)
	}
	return status, nil
}
