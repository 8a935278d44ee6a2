package http

import (
	"time"

	"github.com/secmon-lab/conformity/pkg/domain/model"
)

type assessmentResponse struct {
	ID               int64             `json:"id"`
	OrganizationName string            `json:"organizationName"`
	FrameworkType    string            `json:"frameworkType"`
	OverallScore     int               `json:"overallScore"`
	Responses        map[string]string `json:"responses"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type actionItemResponse struct {
	ID            int64      `json:"id"`
	AssessmentID  *int64     `json:"assessmentId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate"`
	FrameworkType string     `json:"frameworkType"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type questionResponse struct {
	ID              string  `json:"id"`
	Category        string  `json:"category,omitempty"`
	Article         string  `json:"article,omitempty"`
	Text            string  `json:"text"`
	Reference       string  `json:"reference,omitempty"`
	RiskLevel       string  `json:"riskLevel,omitempty"`
	MaxPenalty      float64 `json:"maxPenalty,omitempty"`
	HasCriminalRisk bool    `json:"hasCriminalRisk"`
	RegulatoryBody  string  `json:"regulatoryBody,omitempty"`
}

type frameworkResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Version     string             `json:"version"`
	Scorers     []string           `json:"scorers"`
	Questions   []questionResponse `json:"questions"`
}

func toAssessmentResponse(a *model.Assessment) assessmentResponse {
	responses := make(map[string]string, len(a.Responses))
	for id, status := range a.Responses {
		responses[id] = status.String()
	}
	return assessmentResponse{
		ID:               a.ID,
		OrganizationName: a.OrganizationName,
		FrameworkType:    a.FrameworkType,
		OverallScore:     a.OverallScore,
		Responses:        responses,
		Status:           a.Status.String(),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toAssessmentResponses(assessments []*model.Assessment) []assessmentResponse {
	result := make([]assessmentResponse, len(assessments))
	for i, a := range assessments {
		result[i] = toAssessmentResponse(a)
	}
	return result
}

func toActionItemResponse(item *model.ActionItem) actionItemResponse {
	return actionItemResponse{
		ID:            item.ID,
		AssessmentID:  item.AssessmentID,
		Title:         item.Title,
		Description:   item.Description,
		Priority:      item.Priority.String(),
		Status:        item.Status.String(),
		DueDate:       item.DueDate,
		FrameworkType: item.FrameworkType,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toActionItemResponses(items []*model.ActionItem) []actionItemResponse {
	result := make([]actionItemResponse, len(items))
	for i, item := range items {
		result[i] = toActionItemResponse(item)
	}
	return result
}

func toFrameworkResponse(fw *model.Framework) frameworkResponse {
	scorers := make([]string, len(fw.Scorers))
	for i, kind := range fw.Scorers {
		scorers[i] = kind.String()
	}

	questions := make([]questionResponse, len(fw.Questions))
	for i := range fw.Questions {
		q := &fw.Questions[i]
		questions[i] = questionResponse{
			ID:              q.ID,
			Category:        q.Category,
			Article:         q.Article,
			Text:            q.Text,
			Reference:       q.Reference,
			RiskLevel:       q.RiskLevel.String(),
			MaxPenalty:      q.MaxPenalty,
			HasCriminalRisk: q.HasCriminalRisk,
			RegulatoryBody:  q.RegulatoryBody.String(),
		}
	}

	return frameworkResponse{
		ID:          fw.ID,
		Name:        fw.Name,
		Description: fw.Description,
		Version:     fw.Version,
		Scorers:     scorers,
		Questions:   questions,
	}
}
