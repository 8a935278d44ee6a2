package model

import (
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

// Question is one entry of a framework's questionnaire. Questions are loaded
// with the catalog and treated as read-only while scoring.
type Question struct {
	ID       string
	Category string
	Article  string // Used by article-oriented frameworks such as GDPR in place of Category
	Text     string
	// Reference is the regulation clause the question is derived from
	Reference       string
	RiskLevel       types.RiskLevel
	MaxPenalty      float64 // Non-negative; same currency unit as the statutory maxima
	HasCriminalRisk bool
	RegulatoryBody  types.RegulatoryBody // Empty for frameworks without monetary exposure
}

// GroupKey returns the label used to aggregate the question into a category
// breakdown. useArticle selects Article instead of Category.
func (q *Question) GroupKey(useArticle bool) string {
	if useArticle {
		return q.Article
	}
	return q.Category
}
