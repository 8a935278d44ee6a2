package scoring

import (
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

const (
	criticalViolationProbability = 40
	highRiskViolationProbability = 15
	maxCriminalProbability       = 95
)

// CriminalLiabilityResult is the bounded probability of criminal liability
type CriminalLiabilityResult struct {
	Probability        int      `json:"probability"`
	CriticalViolations int      `json:"criticalViolations"`
	HighRiskViolations int      `json:"highRiskViolations"`
	RiskFactors        []string `json:"riskFactors"`
}

// CriminalLiability estimates the probability (percent, capped at 95) of
// criminal prosecution. Only non-compliant answers to questions flagged with
// criminal risk count, and only at critical (40 each) or high (15 each) level.
func CriminalLiability(questions []model.Question, responses model.Responses) *CriminalLiabilityResult {
	result := &CriminalLiabilityResult{
		RiskFactors: []string{},
	}

	for i := range questions {
		q := &questions[i]
		if !q.HasCriminalRisk || responses.Get(q.ID) != types.ResponseNonCompliant {
			continue
		}

		switch q.RiskLevel {
		case types.RiskCritical:
			result.CriticalViolations++
			result.RiskFactors = append(result.RiskFactors, "Critical violation: "+q.Category)
		case types.RiskHigh:
			result.HighRiskViolations++
			result.RiskFactors = append(result.RiskFactors, "High-risk violation: "+q.Category)
		}
	}

	result.Probability = min(maxCriminalProbability,
		result.CriticalViolations*criticalViolationProbability+
			result.HighRiskViolations*highRiskViolationProbability)

	return result
}
