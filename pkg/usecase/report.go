package usecase

import (
	"context"
	"encoding/json"
	"io"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

type ReportUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewReportUseCase(repo interfaces.Repository) *ReportUseCase {
	return &ReportUseCase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Report is an exportable snapshot of an assessment and its evaluation
type Report struct {
	ID           string              `json:"id"`
	GeneratedAt  time.Time           `json:"generatedAt"`
	Organization string              `json:"organization"`
	AssessmentID int64               `json:"assessmentId"`
	Status       string              `json:"status"`
	Framework    ReportFramework     `json:"framework"`
	Evaluation   *scoring.Evaluation `json:"evaluation"`
	Findings     []ReportFinding     `json:"findings"`
	ActionItems  []ReportActionItem  `json:"actionItems"`
}

type ReportFramework struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// ReportFinding is a question that was not answered as compliant
type ReportFinding struct {
	QuestionID string `json:"questionId"`
	Group      string `json:"group"`
	Text       string `json:"text"`
	RiskLevel  string `json:"riskLevel,omitempty"`
	Response   string `json:"response"`
}

type ReportActionItem struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Priority string     `json:"priority"`
	Status   string     `json:"status"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
}

// Build collects the assessment, its framework, evaluation and linked action
// items into a report
func (uc *ReportUseCase) Build(ctx context.Context, assessmentID int64) (*Report, error) {
	assessment, err := getAssessment(ctx, uc.repo, assessmentID)
	if err != nil {
		return nil, err
	}

	fw, err := getFramework(ctx, uc.repo, assessment.FrameworkType)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.ActionItem().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V(AssessmentIDKey, assessmentID))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate report ID")
	}

	report := &Report{
		ID:           id.String(),
		GeneratedAt:  uc.now(),
		Organization: assessment.OrganizationName,
		AssessmentID: assessment.ID,
		Status:       assessment.Status.String(),
		Framework: ReportFramework{
			Name:        fw.Name,
			Version:     fw.Version,
			Description: fw.Description,
		},
		Evaluation:  scoring.Evaluate(fw, assessment.Responses),
		Findings:    buildFindings(fw, assessment.Responses),
		ActionItems: make([]ReportActionItem, 0, len(items)),
	}

	for _, item := range items {
		report.ActionItems = append(report.ActionItems, ReportActionItem{
			ID:       item.ID,
			Title:    item.Title,
			Priority: item.Priority.String(),
			Status:   item.Status.String(),
			DueDate:  item.DueDate,
		})
	}

	return report, nil
}

func buildFindings(fw *model.Framework, responses model.Responses) []ReportFinding {
	useArticle := len(fw.Questions) > 0 && fw.Questions[0].Category == ""

	findings := make([]ReportFinding, 0)
	for i := range fw.Questions {
		q := &fw.Questions[i]
		response := responses.Get(q.ID)
		if !response.IsAnswered() || response == types.ResponseCompliant {
			continue
		}
		findings = append(findings, ReportFinding{
			QuestionID: q.ID,
			Group:      q.GroupKey(useArticle),
			Text:       q.Text,
			RiskLevel:  q.RiskLevel.String(),
			Response:   response.String(),
		})
	}
	return findings
}

// RenderJSON writes the report as indented JSON
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return goerr.Wrap(err, "failed to render report as JSON", goerr.V("report_id", r.ID))
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Parse(`# Compliance Report: {{ .Organization }}

**Framework:** {{ .Framework.Name }}{{ if .Framework.Version }} ({{ .Framework.Version }}){{ end }}
**Status:** {{ .Status }}
**Overall score:** {{ .Evaluation.OverallScore }}/100
**Completion:** {{ printf "%.0f" .Evaluation.Completion }}% ({{ .Evaluation.Answered }}/{{ .Evaluation.TotalQuestions }} questions)
{{ with .Evaluation.ExportLiability }}
## Export Liability Index

- Score: {{ printf "%.1f" .Score }}{{ if .HasBonus }} (includes completion bonus){{ end }}
- Weighted compliance: {{ printf "%.2f" .WeightedCompliance }}
- Critical risks: {{ .CriticalRisks }}
{{ end }}{{ with .Evaluation.PenaltyExposure }}
## Penalty Exposure

- Total exposure: {{ .FormattedExposure }}
- Non-compliant answers: {{ .NonCompliantCount }}
{{ end }}{{ with .Evaluation.CriminalLiability }}
## Criminal Liability

- Probability: {{ .Probability }}%
{{ range .RiskFactors }}- {{ . }}
{{ end }}{{ end }}{{ if .Evaluation.Radar }}
## Category Scores

| Category | Score |
|---|---|
{{ range .Evaluation.Radar }}| {{ .Category }} | {{ .Score }} |
{{ end }}{{ end }}{{ if .Findings }}
## Findings

| Question | Group | Risk | Response |
|---|---|---|---|
{{ range .Findings }}| {{ .QuestionID }} | {{ .Group }} | {{ .RiskLevel }} | {{ .Response }} |
{{ end }}{{ end }}{{ if .ActionItems }}
## Action Items

{{ range .ActionItems }}- [{{ if eq .Status "completed" }}x{{ else }} {{ end }}] {{ .Title }} ({{ .Priority }}){{ with .DueDate }} due {{ .Format "2006-01-02" }}{{ end }}
{{ end }}{{ end }}
---
*Report {{ .ID }} generated at {{ .GeneratedAt.Format "2006-01-02T15:04:05Z07:00" }}*
`))

// RenderMarkdown writes the report as a Markdown document
func (r *Report) RenderMarkdown(w io.Writer) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return goerr.Wrap(err, "failed to render report as Markdown", goerr.V("report_id", r.ID))
	}
	return nil
}
