package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// Framework is a named regulatory questionnaire together with the scoring
// capabilities it supports. Scorers is resolved when the catalog is loaded so
// that callers never dispatch on the framework name.
type Framework struct {
	ID          int64
	Name        string
	Description string
	Version     string
	Questions   []Question
	Scorers     []types.ScorerKind
	CreatedAt   time.Time
}

// Uses reports whether the framework declares the given scorer
func (f *Framework) Uses(kind types.ScorerKind) bool {
	return slices.Contains(f.Scorers, kind)
}

// Question looks up a question by ID
func (f *Framework) Question(id string) (*Question, bool) {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i], true
		}
	}
	return nil, false
}

// Copy returns a deep copy of the framework
func (f *Framework) Copy() *Framework {
	questions := make([]Question, len(f.Questions))
	copy(questions, f.Questions)
	scorers := make([]types.ScorerKind, len(f.Scorers))
	copy(scorers, f.Scorers)

	return &Framework{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		Questions:   questions,
		Scorers:     scorers,
		CreatedAt:   f.CreatedAt,
	}
}
