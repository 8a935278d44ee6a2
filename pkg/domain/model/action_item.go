package model

import (
	"time"

	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// ActionItem is a remediation task, optionally tied to an assessment
type ActionItem struct {
	ID            int64
	AssessmentID  *int64 // Optional
	Title         string
	Description   string
	Priority      types.Priority
	Status        types.ActionStatus
	DueDate       *time.Time
	FrameworkType string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpenCritical reports whether the item is critical and still unresolved
func (a *ActionItem) IsOpenCritical() bool {
	return a.Priority == types.PriorityCritical && a.Status != types.ActionStatusCompleted
}

// Copy returns a deep copy of the action item
func (a *ActionItem) Copy() *ActionItem {
	c := *a
	if a.AssessmentID != nil {
		id := *a.AssessmentID
		c.AssessmentID = &id
	}
	if a.DueDate != nil {
		due := *a.DueDate
		c.DueDate = &due
	}
	return &c
}
