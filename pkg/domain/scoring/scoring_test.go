package scoring_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func lowQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:        string(rune('a' + i)),
			Category:  "General",
			RiskLevel: types.RiskLow,
		}
	}
	return questions
}

func exportControlQuestions() []model.Question {
	return []model.Question{
		{ID: "ec-1", Category: "Classification", RiskLevel: types.RiskCritical, MaxPenalty: 1_000_000, HasCriminalRisk: true, RegulatoryBody: types.RegulatorBIS},
		{ID: "ec-2", Category: "Screening", RiskLevel: types.RiskHigh, MaxPenalty: 35_000_000, HasCriminalRisk: true, RegulatoryBody: types.RegulatorEU},
		{ID: "ec-3", Category: "Sanctions", RiskLevel: types.RiskCritical, MaxPenalty: 968_000_000, HasCriminalRisk: true, RegulatoryBody: types.RegulatorOFAC},
		{ID: "ec-4", Category: "Screening", RiskLevel: types.RiskMedium, MaxPenalty: 500_000, RegulatoryBody: types.RegulatorGeopolitical},
		{ID: "ec-5", Category: "Recordkeeping", RiskLevel: types.RiskLow, MaxPenalty: 100_000, RegulatoryBody: types.RegulatorBIS},
	}
}

func TestLookupTables(t *testing.T) {
	gt.Value(t, scoring.RiskWeight(types.RiskCritical)).Equal(10.0)
	gt.Value(t, scoring.RiskWeight(types.RiskHigh)).Equal(7.0)
	gt.Value(t, scoring.RiskWeight(types.RiskMedium)).Equal(5.0)
	gt.Value(t, scoring.RiskWeight(types.RiskLow)).Equal(3.0)
	gt.Value(t, scoring.RiskWeight(types.RiskLevel("extreme"))).Equal(3.0)

	gt.Value(t, scoring.RegulatoryWeight(types.RiskCritical)).Equal(1.0)
	gt.Value(t, scoring.RegulatoryWeight(types.RiskLevel(""))).Equal(0.4)
	gt.Value(t, scoring.SeverityFactor(types.RiskHigh)).Equal(scoring.RegulatoryWeight(types.RiskHigh))

	gt.Value(t, scoring.StatutoryMaximum(types.RegulatorOFAC)).Equal(968_000_000.0)
	gt.Value(t, scoring.StatutoryMaximum(types.RegulatoryBody("UN"))).Equal(0.0)

	gt.Value(t, scoring.CompletionScore(types.ResponseCompliant)).Equal(1.0)
	gt.Value(t, scoring.CompletionScore(types.ResponsePartial)).Equal(0.5)
	gt.Value(t, scoring.CompletionScore(types.ResponseNonCompliant)).Equal(0.0)
	gt.Value(t, scoring.CompletionScore(types.ResponseNotAssessed)).Equal(0.0)
}

func TestExportLiability(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		result := scoring.ExportLiability(nil, nil)
		gt.Value(t, result.Score).Equal(0.0)
		gt.Value(t, result.CompletionRate).Equal(0.0)
		gt.Value(t, result.TotalAnswered).Equal(0)
		gt.Bool(t, result.HasBonus).False()
		gt.Bool(t, math.IsNaN(result.Score)).False()
	})

	t.Run("nothing answered", func(t *testing.T) {
		result := scoring.ExportLiability(exportControlQuestions(), model.Responses{})
		gt.Value(t, result.Score).Equal(0.0)
		gt.Value(t, result.CompletionRate).Equal(0.0)
		gt.Value(t, result.WeightedCompliance).Equal(0.0)
		gt.Value(t, result.RiskPenalty).Equal(0.0)
	})

	t.Run("critical non-compliant clamps to zero", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "Exports", RiskLevel: types.RiskCritical, MaxPenalty: 1_000_000},
		}
		result := scoring.ExportLiability(questions, model.Responses{"q1": types.ResponseNonCompliant})

		gt.Value(t, result.Score).Equal(0.0)
		gt.Bool(t, result.RawScore < 0).True()
		gt.Value(t, result.WeightedCompliance).Equal(0.0)
		gt.Bool(t, approx(result.RiskPenalty, 1.0)).True()
		gt.Value(t, result.CompletionRate).Equal(1.0)
		gt.Value(t, result.CriticalRisks).Equal(1)
		gt.Bool(t, result.HasBonus).False()
	})

	t.Run("all compliant earns the bonus", func(t *testing.T) {
		questions := lowQuestions(10)
		responses := model.Responses{}
		for _, q := range questions {
			responses[q.ID] = types.ResponseCompliant
		}
		result := scoring.ExportLiability(questions, responses)

		gt.Bool(t, result.HasBonus).True()
		gt.Value(t, result.Score).Equal(100.0)
		gt.Value(t, result.WeightedCompliance).Equal(1.0)
	})

	t.Run("bonus at ninety percent completion", func(t *testing.T) {
		questions := lowQuestions(10)
		responses := model.Responses{}
		for _, q := range questions[:9] {
			responses[q.ID] = types.ResponseCompliant
		}
		result := scoring.ExportLiability(questions, responses)

		gt.Value(t, result.CompletionRate).Equal(0.9)
		gt.Bool(t, result.HasBonus).True()
		gt.Value(t, result.Score).Equal(100.0)
	})

	t.Run("no bonus below ninety percent completion", func(t *testing.T) {
		questions := lowQuestions(10)
		responses := model.Responses{}
		for _, q := range questions[:8] {
			responses[q.ID] = types.ResponseCompliant
		}
		result := scoring.ExportLiability(questions, responses)

		gt.Bool(t, result.HasBonus).False()
		gt.Value(t, result.Score).Equal(100.0)
	})

	t.Run("partial answers lower the score", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", RiskLevel: types.RiskHigh},
			{ID: "q2", RiskLevel: types.RiskMedium},
		}
		result := scoring.ExportLiability(questions, model.Responses{
			"q1": types.ResponseCompliant,
			"q2": types.ResponsePartial,
		})

		// (7 + 2.5) / 12
		gt.Bool(t, approx(result.Score, 9.5/12*100)).True()
		gt.Bool(t, result.HasBonus).False()
	})

	t.Run("critical violation blocks the bonus", func(t *testing.T) {
		questions := lowQuestions(40)
		responses := model.Responses{}
		for _, q := range questions {
			responses[q.ID] = types.ResponseCompliant
		}
		questions = append(questions, model.Question{ID: "crit", RiskLevel: types.RiskCritical})
		responses["crit"] = types.ResponseNonCompliant

		result := scoring.ExportLiability(questions, responses)

		// 120 / (130 + 1)
		gt.Bool(t, approx(result.RawScore, 120.0/131*100)).True()
		gt.Bool(t, result.RawScore >= 85).True()
		gt.Value(t, result.CriticalRisks).Equal(1)
		gt.Bool(t, result.HasBonus).False()
		gt.Value(t, result.Score).Equal(result.RawScore)
	})

	t.Run("unknown risk level uses the low weight", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", RiskLevel: types.RiskLevel("unknown")},
			{ID: "q2", RiskLevel: types.RiskLow},
		}
		result := scoring.ExportLiability(questions, model.Responses{
			"q1": types.ResponseCompliant,
			"q2": types.ResponsePartial,
		})
		gt.Bool(t, approx(result.WeightedCompliance, 4.5/6)).True()
	})
}

func TestPenaltyExposure(t *testing.T) {
	t.Run("EU high non-compliant", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "Data", RiskLevel: types.RiskHigh, RegulatoryBody: types.RegulatorEU},
		}
		result := scoring.PenaltyExposure(questions, model.Responses{"q1": types.ResponseNonCompliant})

		gt.Bool(t, math.Abs(result.TotalExposure-20_160_000) < 1e-3).True()
		gt.Bool(t, math.Abs(result.ByCategory["Data"]-20_160_000) < 1e-3).True()
		gt.Value(t, result.NonCompliantCount).Equal(1)
		gt.Value(t, result.FormattedExposure).Equal("$20.16M")
	})

	t.Run("partial counts toward exposure only", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "Exports", RiskLevel: types.RiskCritical, RegulatoryBody: types.RegulatorBIS},
		}
		result := scoring.PenaltyExposure(questions, model.Responses{"q1": types.ResponsePartial})

		gt.Bool(t, approx(result.TotalExposure, 500_000)).True()
		gt.Value(t, result.NonCompliantCount).Equal(0)
		gt.Value(t, result.FormattedExposure).Equal("$500K")
	})

	t.Run("compliant and not assessed contribute nothing", func(t *testing.T) {
		result := scoring.PenaltyExposure(exportControlQuestions(), model.Responses{
			"ec-1": types.ResponseCompliant,
			"ec-2": types.ResponseNotAssessed,
		})
		gt.Value(t, result.TotalExposure).Equal(0.0)
		gt.Value(t, len(result.ByCategory)).Equal(0)
		gt.Value(t, result.FormattedExposure).Equal("$0")
	})

	t.Run("unknown regulatory body has no monetary exposure", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "Other", RiskLevel: types.RiskCritical, RegulatoryBody: types.RegulatoryBody("UN")},
		}
		result := scoring.PenaltyExposure(questions, model.Responses{"q1": types.ResponseNonCompliant})

		gt.Value(t, result.TotalExposure).Equal(0.0)
		gt.Value(t, result.NonCompliantCount).Equal(1)
	})

	t.Run("categories accumulate", func(t *testing.T) {
		result := scoring.PenaltyExposure(exportControlQuestions(), model.Responses{
			"ec-2": types.ResponseNonCompliant,
			"ec-4": types.ResponsePartial,
		})
		// 0.8*0.9*0.8*35e6 + 0.6*0.5*0.6*5e6
		gt.Bool(t, math.Abs(result.ByCategory["Screening"]-(20_160_000+900_000)) < 1e-3).True()
		gt.Value(t, result.NonCompliantCount).Equal(1)
	})
}

func TestFormatPenalty(t *testing.T) {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{0, "$0"},
		{999, "$999"},
		{12_345, "$12K"},
		{1_000_000, "$1.00M"},
		{20_160_000, "$20.16M"},
		{1_500_000_000, "$1.50B"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			gt.Value(t, scoring.FormatPenalty(tc.amount)).Equal(tc.expected)
		})
	}
}

func TestCriminalLiability(t *testing.T) {
	t.Run("critical and high violations", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "Exports", RiskLevel: types.RiskCritical, HasCriminalRisk: true},
			{ID: "q2", Category: "Sanctions", RiskLevel: types.RiskHigh, HasCriminalRisk: true},
		}
		result := scoring.CriminalLiability(questions, model.Responses{
			"q1": types.ResponseNonCompliant,
			"q2": types.ResponseNonCompliant,
		})

		gt.Value(t, result.Probability).Equal(55)
		gt.Value(t, result.CriticalViolations).Equal(1)
		gt.Value(t, result.HighRiskViolations).Equal(1)
		gt.Value(t, result.RiskFactors).Equal([]string{
			"Critical violation: Exports",
			"High-risk violation: Sanctions",
		})
	})

	t.Run("capped at 95", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "A", RiskLevel: types.RiskCritical, HasCriminalRisk: true},
			{ID: "q2", Category: "B", RiskLevel: types.RiskCritical, HasCriminalRisk: true},
			{ID: "q3", Category: "C", RiskLevel: types.RiskCritical, HasCriminalRisk: true},
		}
		responses := model.Responses{}
		for _, q := range questions {
			responses[q.ID] = types.ResponseNonCompliant
		}
		result := scoring.CriminalLiability(questions, responses)

		gt.Value(t, result.Probability).Equal(95)
		gt.Array(t, result.RiskFactors).Length(3)
	})

	t.Run("ignored answers", func(t *testing.T) {
		questions := []model.Question{
			{ID: "q1", Category: "A", RiskLevel: types.RiskCritical},
			{ID: "q2", Category: "B", RiskLevel: types.RiskMedium, HasCriminalRisk: true},
			{ID: "q3", Category: "C", RiskLevel: types.RiskCritical, HasCriminalRisk: true},
		}
		result := scoring.CriminalLiability(questions, model.Responses{
			"q1": types.ResponseNonCompliant,
			"q2": types.ResponseNonCompliant,
			"q3": types.ResponsePartial,
		})

		gt.Value(t, result.Probability).Equal(0)
		gt.Value(t, result.RiskFactors).NotNil()
		gt.Array(t, result.RiskFactors).Length(0)
	})
}

func TestGeneric(t *testing.T) {
	t.Run("category grouping", func(t *testing.T) {
		questions := []model.Question{
			{ID: "g1", Category: "Govern"},
			{ID: "m1", Category: "Map"},
			{ID: "g2", Category: "Govern"},
			{ID: "m2", Category: "Map"},
		}
		result := scoring.Generic(questions, model.Responses{
			"g1": types.ResponseCompliant,
			"g2": types.ResponsePartial,
			"m1": types.ResponseNonCompliant,
		})

		gt.Value(t, result.OverallScore).Equal(50.0)
		gt.Value(t, result.Categories).Equal([]scoring.CategoryScore{
			{Category: "Govern", Score: 50},
			{Category: "Map", Score: 0},
		})
	})

	t.Run("article grouping", func(t *testing.T) {
		questions := []model.Question{
			{ID: "a1", Article: "Art. 5"},
			{ID: "a2", Article: "Art. 5"},
			{ID: "a3", Article: "Art. 5"},
			{ID: "b1", Article: "Art. 32"},
		}
		result := scoring.Generic(questions, model.Responses{
			"a1": types.ResponseCompliant,
			"a2": types.ResponseCompliant,
			"a3": types.ResponseNonCompliant,
		})

		gt.Value(t, result.Categories).Equal([]scoring.CategoryScore{
			{Category: "Art. 5", Score: 67},
			{Category: "Art. 32", Score: 0},
		})
		gt.Bool(t, approx(result.OverallScore, 200.0/3)).True()
	})

	t.Run("empty input", func(t *testing.T) {
		result := scoring.Generic(nil, nil)
		gt.Value(t, result.OverallScore).Equal(0.0)
		gt.Array(t, result.Categories).Length(0)
	})
}

func TestExposureRadar(t *testing.T) {
	radar := scoring.ExposureRadar(map[string]float64{
		"B": 5_000_000,
		"A": 0,
		"C": 20_000_000,
	})

	gt.Value(t, radar).Equal([]scoring.CategoryScore{
		{Category: "A", Score: 100},
		{Category: "B", Score: 50},
		{Category: "C", Score: 0},
	})
}

func TestCompletionPercentage(t *testing.T) {
	questions := lowQuestions(4)
	gt.Value(t, scoring.CompletionPercentage(nil, nil)).Equal(0.0)
	gt.Value(t, scoring.CompletionPercentage(questions, model.Responses{
		"a": types.ResponseCompliant,
		"b": types.ResponseNotAssessed,
		"c": types.ResponsePartial,
	})).Equal(50.0)
}

func TestScoreRanges(t *testing.T) {
	questions := exportControlQuestions()
	statuses := types.AllResponseStatuses()

	// Every combination of answers for the five questions
	total := int(math.Pow(float64(len(statuses)), float64(len(questions))))
	for n := 0; n < total; n++ {
		responses := model.Responses{}
		k := n
		for _, q := range questions {
			responses[q.ID] = statuses[k%len(statuses)]
			k /= len(statuses)
		}

		eli := scoring.ExportLiability(questions, responses)
		gt.Bool(t, eli.Score >= 0 && eli.Score <= 100).True()
		gt.Bool(t, eli.CompletionRate >= 0 && eli.CompletionRate <= 1).True()

		exposure := scoring.PenaltyExposure(questions, responses)
		gt.Bool(t, exposure.TotalExposure >= 0).True()

		criminal := scoring.CriminalLiability(questions, responses)
		gt.Bool(t, criminal.Probability >= 0 && criminal.Probability <= 95).True()

		generic := scoring.Generic(questions, responses)
		gt.Bool(t, generic.OverallScore >= 0 && generic.OverallScore <= 100).True()
		for _, c := range generic.Categories {
			gt.Bool(t, c.Score >= 0 && c.Score <= 100).True()
		}
	}
}

func TestMonotonicity(t *testing.T) {
	questions := exportControlQuestions()
	base := model.Responses{
		"ec-1": types.ResponseNonCompliant,
		"ec-2": types.ResponseNonCompliant,
		"ec-3": types.ResponsePartial,
		"ec-4": types.ResponseNonCompliant,
		"ec-5": types.ResponseCompliant,
	}

	for id, status := range base {
		if status != types.ResponseNonCompliant {
			continue
		}
		t.Run(id, func(t *testing.T) {
			improved := base.Merge(model.Responses{id: types.ResponseCompliant})

			before := scoring.ExportLiability(questions, base)
			after := scoring.ExportLiability(questions, improved)
			gt.Bool(t, after.Score >= before.Score).True()

			beforeExposure := scoring.PenaltyExposure(questions, base)
			afterExposure := scoring.PenaltyExposure(questions, improved)
			gt.Bool(t, afterExposure.TotalExposure <= beforeExposure.TotalExposure).True()
		})
	}
}

func TestEvaluate(t *testing.T) {
	exportControl := &model.Framework{
		Name:      "Export Control",
		Questions: exportControlQuestions(),
		Scorers: []types.ScorerKind{
			types.ScorerExportLiability,
			types.ScorerPenaltyExposure,
			types.ScorerCriminalLiability,
		},
	}

	t.Run("export control scorers", func(t *testing.T) {
		responses := model.Responses{
			"ec-1": types.ResponseCompliant,
			"ec-2": types.ResponseNonCompliant,
			"ec-3": types.ResponseCompliant,
		}
		eval := scoring.Evaluate(exportControl, responses)

		gt.Value(t, eval.Framework).Equal("Export Control")
		gt.Value(t, eval.ExportLiability).NotNil()
		gt.Value(t, eval.PenaltyExposure).NotNil()
		gt.Value(t, eval.CriminalLiability).NotNil()
		gt.Value(t, eval.Generic).Nil()
		gt.Value(t, eval.OverallScore).Equal(int(math.Round(eval.ExportLiability.Score)))
		gt.Value(t, eval.Answered).Equal(3)
		gt.Value(t, eval.TotalQuestions).Equal(5)
		gt.Bool(t, approx(eval.Completion, 60)).True()
		gt.Value(t, eval.CriminalLiability.Probability).Equal(15)
		gt.Value(t, eval.Radar).Equal(scoring.ExposureRadar(eval.PenaltyExposure.ByCategory))
		gt.Bool(t, eval.IsComplete()).False()
	})

	t.Run("idempotent", func(t *testing.T) {
		responses := model.Responses{
			"ec-1": types.ResponsePartial,
			"ec-4": types.ResponseNonCompliant,
		}
		gt.Value(t, scoring.Evaluate(exportControl, responses)).Equal(scoring.Evaluate(exportControl, responses))
	})

	t.Run("generic by default", func(t *testing.T) {
		fw := &model.Framework{
			Name: "NIST AI-RMF",
			Questions: []model.Question{
				{ID: "gov-1", Category: "Govern"},
				{ID: "map-1", Category: "Map"},
			},
		}
		eval := scoring.Evaluate(fw, model.Responses{
			"gov-1": types.ResponseCompliant,
			"map-1": types.ResponsePartial,
		})

		gt.Value(t, eval.ExportLiability).Nil()
		gt.Value(t, eval.Generic).NotNil()
		gt.Value(t, eval.OverallScore).Equal(75)
		gt.Value(t, eval.Radar).Equal(eval.Generic.Categories)
		gt.Bool(t, eval.IsComplete()).True()
	})
}
