package secretscanner

import (
	"strconv"
	"strings"

	"github.com/aleister1102/pulsegate/internal/models"
)

// MapFinding converts a finding into its upload record. The path uses
// forward slashes and is left-padded with empty segments up to minSegments
// segments; 0 disables padding.
func MapFinding(f models.SecretFinding, minSegments int) models.SecretRecord {
	return models.SecretRecord{
		RuleID:      f.RuleID,
		Description: f.Description,
		File:        padPath(f.File, minSegments),
		Match:       f.Match,
		Secret:      f.Secret,
		StartLine:   position(f.StartLine),
		EndLine:     position(f.EndLine),
		StartColumn: position(f.StartColumn),
		EndColumn:   position(f.EndColumn),
	}
}

// MapFindings maps every finding, keeping order.
func MapFindings(findings []models.SecretFinding, minSegments int) []models.SecretRecord {
	records := make([]models.SecretRecord, 0, len(findings))
	for _, f := range findings {
		records = append(records, MapFinding(f, minSegments))
	}
	return records
}

func padPath(file string, minSegments int) string {
	file = strings.ReplaceAll(file, `\`, "/")
	if minSegments <= 0 {
		return file
	}
	segments := strings.Count(file, "/") + 1
	if segments >= minSegments {
		return file
	}
	return strings.Repeat("/", minSegments-segments) + file
}

func position(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
