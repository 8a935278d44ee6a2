package types

import "fmt"

// ScorerKind names one scoring capability a framework can declare
type ScorerKind string

const (
	ScorerExportLiability   ScorerKind = "export_liability"
	ScorerPenaltyExposure   ScorerKind = "penalty_exposure"
	ScorerCriminalLiability ScorerKind = "criminal_liability"
	ScorerGeneric           ScorerKind = "generic"
)

// IsValid checks if the scorer kind is valid
func (k ScorerKind) IsValid() bool {
	switch k {
	case ScorerExportLiability, ScorerPenaltyExposure, ScorerCriminalLiability, ScorerGeneric:
		return true
	default:
		return false
	}
}

// String returns the string representation of the scorer kind
func (k ScorerKind) String() string {
	return string(k)
}

// ParseScorerKind parses a string into a ScorerKind
func ParseScorerKind(s string) (ScorerKind, error) {
	k := ScorerKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid scorer kind: %s", s)
	}
	return k, nil
}
