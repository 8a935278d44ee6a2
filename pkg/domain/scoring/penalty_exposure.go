package scoring

import (
	"fmt"

	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

const (
	likelihoodNonCompliant = 0.9
	likelihoodPartial      = 0.5
)

// PenaltyExposureResult is the estimated monetary penalty liability
type PenaltyExposureResult struct {
	TotalExposure     float64            `json:"totalExposure"`
	ByCategory        map[string]float64 `json:"byCategory"`
	NonCompliantCount int                `json:"nonCompliantCount"`
	FormattedExposure string             `json:"formattedExposure"`
}

// PenaltyExposure estimates the civil penalty exposure of non-compliant and
// partially compliant answers:
//
//	exposure = regulatoryWeight × likelihood × severityFactor × statutoryMax
//
// regulatoryWeight and severityFactor read the same risk level table, so the
// risk level contributes squared.
func PenaltyExposure(questions []model.Question, responses model.Responses) *PenaltyExposureResult {
	result := &PenaltyExposureResult{
		ByCategory: make(map[string]float64),
	}

	for i := range questions {
		q := &questions[i]

		var likelihood float64
		switch responses.Get(q.ID) {
		case types.ResponseNonCompliant:
			likelihood = likelihoodNonCompliant
			result.NonCompliantCount++
		case types.ResponsePartial:
			likelihood = likelihoodPartial
		default:
			continue
		}

		exposure := RegulatoryWeight(q.RiskLevel) * likelihood * SeverityFactor(q.RiskLevel) * StatutoryMaximum(q.RegulatoryBody)
		result.TotalExposure += exposure
		result.ByCategory[q.Category] += exposure
	}

	result.FormattedExposure = FormatPenalty(result.TotalExposure)
	return result
}

// FormatPenalty renders an amount as $X.XXB, $X.XXM, $XK or $X
func FormatPenalty(amount float64) string {
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("$%.2fB", amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("$%.2fM", amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("$%.0fK", amount/1e3)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}
