package types

import "fmt"

// RegulatoryBody identifies the issuer of a statutory maximum penalty
type RegulatoryBody string

const (
	RegulatorBIS          RegulatoryBody = "BIS"
	RegulatorEU           RegulatoryBody = "EU"
	RegulatorOFAC         RegulatoryBody = "OFAC"
	RegulatorGeopolitical RegulatoryBody = "GEOPOLITICAL"
)

// AllRegulatoryBodies returns all valid regulatory bodies
func AllRegulatoryBodies() []RegulatoryBody {
	return []RegulatoryBody{
		RegulatorBIS,
		RegulatorEU,
		RegulatorOFAC,
		RegulatorGeopolitical,
	}
}

// IsValid checks if the regulatory body is valid
func (b RegulatoryBody) IsValid() bool {
	switch b {
	case RegulatorBIS, RegulatorEU, RegulatorOFAC, RegulatorGeopolitical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the regulatory body
func (b RegulatoryBody) String() string {
	return string(b)
}

// ParseRegulatoryBody parses a string into a RegulatoryBody
func ParseRegulatoryBody(s string) (RegulatoryBody, error) {
	body := RegulatoryBody(s)
	if !body.IsValid() {
		return "", fmt.Errorf("invalid regulatory body: %s", s)
	}
	return body, nil
}
