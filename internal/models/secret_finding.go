// Package models holds the data passed between pipeline stages and sent to
// the reporting API.
package models

// SecretFinding is one secret occurrence reported by the scanner. Positions
// are 1-based; 0 means the scanner did not report the value.
type SecretFinding struct {
	RuleID      string
	Description string
	File        string
	Match       string
	Secret      string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
	Fingerprint string
	Tags        []string
}

// SecretRecord is the wire form of a finding for the update-secrets endpoint.
// Field order is part of the API contract.
type SecretRecord struct {
	RuleID      string `json:"ruleId"`
	Description string `json:"description"`
	File        string `json:"file"`
	Match       string `json:"match"`
	Secret      string `json:"secret"`
	StartLine   string `json:"startLine"`
	EndLine     string `json:"endLine"`
	StartColumn string `json:"startColumn"`
	EndColumn   string `json:"endColumn"`
}
