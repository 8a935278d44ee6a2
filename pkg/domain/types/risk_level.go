package types

import "fmt"

// RiskLevel is the ordinal severity attached to a question
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// AllRiskLevels returns all valid risk levels, most severe first
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskCritical,
		RiskHigh,
		RiskMedium,
		RiskLow,
	}
}

// IsValid checks if the risk level is valid
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return level, nil
}
