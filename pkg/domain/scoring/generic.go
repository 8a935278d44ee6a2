package scoring

import (
	"math"

	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// CategoryScore is one axis of a category breakdown chart (0-100)
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// GenericResult is the compliance score of frameworks without monetary or
// criminal dimensions
type GenericResult struct {
	OverallScore float64         `json:"overallScore"`
	Categories   []CategoryScore `json:"categories"`
}

var genericResponseValues = map[types.ResponseStatus]float64{
	types.ResponseCompliant:    100,
	types.ResponsePartial:      50,
	types.ResponseNonCompliant: 0,
}

// Generic computes the average response value over answered questions and
// the share of compliant answers per category. Questions are grouped by
// Category, or by Article when the first question has no category.
// Categories appear in the order they are first seen.
func Generic(questions []model.Question, responses model.Responses) *GenericResult {
	result := &GenericResult{
		Categories: []CategoryScore{},
	}

	var total float64
	answered := 0
	for i := range questions {
		response := responses.Get(questions[i].ID)
		if !response.IsAnswered() {
			continue
		}
		total += genericResponseValues[response]
		answered++
	}
	if answered > 0 {
		result.OverallScore = total / float64(answered)
	}

	useArticle := len(questions) > 0 && questions[0].Category == ""

	type tally struct {
		answered  int
		compliant int
	}
	var order []string
	tallies := make(map[string]*tally)
	for i := range questions {
		q := &questions[i]
		key := q.GroupKey(useArticle)
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
			order = append(order, key)
		}

		response := responses.Get(q.ID)
		if !response.IsAnswered() {
			continue
		}
		t.answered++
		if response == types.ResponseCompliant {
			t.compliant++
		}
	}

	for _, key := range order {
		t := tallies[key]
		score := 0
		if t.answered > 0 {
			score = int(math.Round(float64(t.compliant) / float64(t.answered) * 100))
		}
		result.Categories = append(result.Categories, CategoryScore{
			Category: key,
			Score:    score,
		})
	}

	return result
}
