package scoring

import (
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

const (
	// penaltyScale converts a question's maximum penalty into the penalty
	// coefficient (millions of currency units).
	penaltyScale = 1_000_000

	bonusPoints            = 15
	bonusMinCompletionRate = 0.9
	bonusMinRawScore       = 85
)

// ExportLiabilityResult is the export liability index and its diagnostics
type ExportLiabilityResult struct {
	Score              float64 `json:"score"`
	RawScore           float64 `json:"rawScore"`
	HasBonus           bool    `json:"hasBonus"`
	WeightedCompliance float64 `json:"weightedCompliance"`
	RiskPenalty        float64 `json:"riskPenalty"`
	CompletionRate     float64 `json:"completionRate"`
	TotalAnswered      int     `json:"totalAnswered"`
	CriticalRisks      int     `json:"criticalRisks"`
}

// ExportLiability computes the normalized export liability index (0-100).
//
//	raw = (Σ w·c − Σ r·p) / (Σ w + Σ r) × 100
//
// where w is the risk weight and c the completion score of every answered
// question, and r = w/10, p = maxPenalty/1e6 for every non-compliant one.
// Not-assessed questions are excluded from every sum. A bonus of 15 points is
// granted when at least 90% of the questions are answered, no critical
// question is non-compliant and the raw score reaches 85.
func ExportLiability(questions []model.Question, responses model.Responses) *ExportLiabilityResult {
	var (
		sumWeightedCompliance float64
		sumWeights            float64
		sumRiskPenalty        float64
		sumRiskWeights        float64
		criticalRisks         int
		totalAnswered         int
	)

	for i := range questions {
		q := &questions[i]
		response := responses.Get(q.ID)
		if !response.IsAnswered() {
			continue
		}

		weight := RiskWeight(q.RiskLevel)
		totalAnswered++
		sumWeightedCompliance += weight * CompletionScore(response)
		sumWeights += weight

		if response == types.ResponseNonCompliant {
			riskVector := weight / 10
			penaltyCoefficient := q.MaxPenalty / penaltyScale
			sumRiskPenalty += riskVector * penaltyCoefficient
			sumRiskWeights += riskVector

			if q.RiskLevel == types.RiskCritical {
				criticalRisks++
			}
		}
	}

	result := &ExportLiabilityResult{
		TotalAnswered: totalAnswered,
		CriticalRisks: criticalRisks,
	}
	if len(questions) > 0 {
		result.CompletionRate = float64(totalAnswered) / float64(len(questions))
	}
	if sumWeights > 0 {
		result.WeightedCompliance = sumWeightedCompliance / sumWeights
	}
	if sumRiskWeights > 0 {
		result.RiskPenalty = sumRiskPenalty / sumRiskWeights
	}
	if denominator := sumWeights + sumRiskWeights; denominator > 0 {
		result.RawScore = (sumWeightedCompliance - sumRiskPenalty) / denominator * 100
	}

	score := result.RawScore
	result.HasBonus = result.CompletionRate >= bonusMinCompletionRate &&
		criticalRisks == 0 &&
		result.RawScore >= bonusMinRawScore
	if result.HasBonus {
		score = min(100, score+bonusPoints)
	}
	result.Score = clamp(score, 0, 100)

	return result
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
