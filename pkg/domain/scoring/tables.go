package scoring

import "github.com/secmon-lab/conformity/pkg/domain/types"

// Lookup tables are keyed by the closed enums of the types package. Values
// outside the enums never index these tables directly; the accessor
// functions below apply the documented fallback instead.

var riskWeights = map[types.RiskLevel]float64{
	types.RiskCritical: 10,
	types.RiskHigh:     7,
	types.RiskMedium:   5,
	types.RiskLow:      3,
}

// regulatoryWeights doubles as the severity factor table in the penalty
// exposure formula.
var regulatoryWeights = map[types.RiskLevel]float64{
	types.RiskCritical: 1.0,
	types.RiskHigh:     0.8,
	types.RiskMedium:   0.6,
	types.RiskLow:      0.4,
}

var statutoryMaximums = map[types.RegulatoryBody]float64{
	types.RegulatorBIS:          1_000_000,
	types.RegulatorEU:           35_000_000,
	types.RegulatorOFAC:         968_000_000,
	types.RegulatorGeopolitical: 5_000_000,
}

var completionScores = map[types.ResponseStatus]float64{
	types.ResponseCompliant:    1.0,
	types.ResponsePartial:      0.5,
	types.ResponseNonCompliant: 0.0,
	types.ResponseNotAssessed:  0.0,
}

// RiskWeight returns the export liability weight of a risk level. Unknown
// levels get the low tier weight.
func RiskWeight(level types.RiskLevel) float64 {
	if w, ok := riskWeights[level]; ok {
		return w
	}
	return riskWeights[types.RiskLow]
}

// RegulatoryWeight returns the penalty exposure weight of a risk level.
// Unknown levels get the low tier weight.
func RegulatoryWeight(level types.RiskLevel) float64 {
	if w, ok := regulatoryWeights[level]; ok {
		return w
	}
	return regulatoryWeights[types.RiskLow]
}

// SeverityFactor is the violation severity factor of the penalty exposure
// formula. It reads the same table as RegulatoryWeight.
func SeverityFactor(level types.RiskLevel) float64 {
	return RegulatoryWeight(level)
}

// StatutoryMaximum returns the maximum statutory penalty of a regulatory
// body. Unknown bodies carry no monetary exposure.
func StatutoryMaximum(body types.RegulatoryBody) float64 {
	return statutoryMaximums[body]
}

// CompletionScore returns the compliance credit of a response
func CompletionScore(status types.ResponseStatus) float64 {
	return completionScores[status]
}
