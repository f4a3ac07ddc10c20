package secretscanner

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/zricethezav/gitleaks/v8/report"
)

// LoadReport reads a gitleaks JSON report. A missing, blank or null report
// means gitleaks found nothing.
func LoadReport(path string) ([]models.SecretFinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, common.WrapErrorf(err, "failed to read report %s", path)
	}
	return ParseReport(data)
}

// ParseReport decodes report bytes into findings.
func ParseReport(data []byte) ([]models.SecretFinding, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var raw []report.Finding
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, common.WrapErrorf(common.ErrReportParseFailed, "invalid gitleaks report: %v", err)
	}

	findings := make([]models.SecretFinding, 0, len(raw))
	for _, f := range raw {
		findings = append(findings, fromGitleaks(f))
	}
	return findings, nil
}

func fromGitleaks(f report.Finding) models.SecretFinding {
	return models.SecretFinding{
		RuleID:      f.RuleID,
		Description: f.Description,
		File:        f.File,
		Match:       f.Match,
		Secret:      f.Secret,
		StartLine:   f.StartLine,
		EndLine:     f.EndLine,
		StartColumn: f.StartColumn,
		EndColumn:   f.EndColumn,
		Fingerprint: f.Fingerprint,
		Tags:        f.Tags,
	}
}
