package memory

import (
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	assessment *assessmentRepository
	actionItem *actionItemRepository
	framework  *frameworkRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		assessment: newAssessmentRepository(),
		actionItem: newActionItemRepository(),
		framework:  newFrameworkRepository(),
	}
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) ActionItem() interfaces.ActionItemRepository {
	return m.actionItem
}

func (m *Memory) Framework() interfaces.FrameworkRepository {
	return m.framework
}

func (m *Memory) Close() error {
	return nil
}
