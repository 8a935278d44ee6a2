package model

import "github.com/secmon-lab/conformity/pkg/domain/types"

// Responses maps question IDs to the user's answer. A missing entry means the
// question has not been assessed yet.
type Responses map[string]types.ResponseStatus

// Get returns the response for a question. Absent keys and values outside
// the response vocabulary are reported as not-assessed.
func (r Responses) Get(questionID string) types.ResponseStatus {
	status, ok := r[questionID]
	if !ok || !status.IsValid() {
		return types.ResponseNotAssessed
	}
	return status
}

// Answered counts how many of the given questions have an answer other than
// not-assessed. Entries for IDs outside the question set are ignored.
func (r Responses) Answered(questions []Question) int {
	n := 0
	for i := range questions {
		if r.Get(questions[i].ID).IsAnswered() {
			n++
		}
	}
	return n
}

// Clone returns an independent copy, used to hand a stable snapshot to the
// scoring engine.
func (r Responses) Clone() Responses {
	if r == nil {
		return Responses{}
	}
	cloned := make(Responses, len(r))
	for k, v := range r {
		cloned[k] = v
	}
	return cloned
}

// Merge returns a copy of r with the entries of update applied on top.
func (r Responses) Merge(update Responses) Responses {
	merged := r.Clone()
	for k, v := range update {
		merged[k] = v
	}
	return merged
}
