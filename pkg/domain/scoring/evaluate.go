package scoring

import (
	"math"

	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// Evaluation bundles the results of every scorer a framework declares
type Evaluation struct {
	Framework         string                   `json:"framework"`
	OverallScore      int                      `json:"overallScore"`
	Completion        float64                  `json:"completion"`
	Answered          int                      `json:"answered"`
	TotalQuestions    int                      `json:"totalQuestions"`
	ExportLiability   *ExportLiabilityResult   `json:"exportLiability,omitempty"`
	PenaltyExposure   *PenaltyExposureResult   `json:"penaltyExposure,omitempty"`
	CriminalLiability *CriminalLiabilityResult `json:"criminalLiability,omitempty"`
	Generic           *GenericResult           `json:"generic,omitempty"`
	Radar             []CategoryScore          `json:"radar"`
}

// IsComplete reports whether every question has been answered
func (e *Evaluation) IsComplete() bool {
	return e.TotalQuestions > 0 && e.Answered == e.TotalQuestions
}

// CompletionPercentage returns the share of answered questions (0-100)
func CompletionPercentage(questions []model.Question, responses model.Responses) float64 {
	if len(questions) == 0 {
		return 0
	}
	return float64(responses.Answered(questions)) / float64(len(questions)) * 100
}

// Evaluate runs the scorers declared by the framework. A framework that
// declares none is scored with the generic scorer. OverallScore is the
// rounded export liability index when available, otherwise the rounded
// generic score.
func Evaluate(fw *model.Framework, responses model.Responses) *Evaluation {
	questions := fw.Questions
	eval := &Evaluation{
		Framework:      fw.Name,
		Completion:     CompletionPercentage(questions, responses),
		Answered:       responses.Answered(questions),
		TotalQuestions: len(questions),
		Radar:          []CategoryScore{},
	}

	scorers := fw.Scorers
	if len(scorers) == 0 {
		scorers = []types.ScorerKind{types.ScorerGeneric}
	}

	for _, kind := range scorers {
		switch kind {
		case types.ScorerExportLiability:
			eval.ExportLiability = ExportLiability(questions, responses)
		case types.ScorerPenaltyExposure:
			eval.PenaltyExposure = PenaltyExposure(questions, responses)
		case types.ScorerCriminalLiability:
			eval.CriminalLiability = CriminalLiability(questions, responses)
		case types.ScorerGeneric:
			eval.Generic = Generic(questions, responses)
		}
	}

	switch {
	case eval.ExportLiability != nil:
		eval.OverallScore = int(math.Round(eval.ExportLiability.Score))
	case eval.Generic != nil:
		eval.OverallScore = int(math.Round(eval.Generic.OverallScore))
	}

	switch {
	case eval.PenaltyExposure != nil:
		eval.Radar = ExposureRadar(eval.PenaltyExposure.ByCategory)
	case eval.Generic != nil:
		eval.Radar = eval.Generic.Categories
	}

	return eval
}
