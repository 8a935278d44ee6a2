package model

import (
	"time"

	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// Assessment is one organization's answers to a framework questionnaire.
// OverallScore is the rounded headline score produced by the scoring engine.
type Assessment struct {
	ID               int64
	OrganizationName string
	FrameworkType    string // Framework name
	OverallScore     int
	Responses        Responses
	Status           types.AssessmentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Copy returns a deep copy of the assessment
func (a *Assessment) Copy() *Assessment {
	c := *a
	c.Responses = a.Responses.Clone()
	return &c
}
