package configscanner

import (
	"encoding/json"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/models"
)

const (
	defaultArtifactName = "unknown-artifact"
	defaultArtifactType = "config"
)

// trivyReport is the part of trivy's JSON output that gets uploaded.
type trivyReport struct {
	ArtifactName string `json:"ArtifactName"`
	ArtifactType string `json:"ArtifactType"`
	Results      []struct {
		Target            string `json:"Target"`
		Class             string `json:"Class"`
		Type              string `json:"Type"`
		Misconfigurations []struct {
			ID          string `json:"ID"`
			Title       string `json:"Title"`
			Description string `json:"Description"`
			Severity    string `json:"Severity"`
			PrimaryURL  string `json:"PrimaryURL"`
			Query       string `json:"Query"`
		} `json:"Misconfigurations"`
	} `json:"Results"`
}

// ParseReport reshapes a trivy JSON report into the upload form. Missing
// artifact fields get defaults and absent lists become empty ones.
func ParseReport(data []byte) (models.ConfigReport, error) {
	var raw trivyReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.ConfigReport{}, common.WrapErrorf(common.ErrReportParseFailed, "invalid trivy report: %v", err)
	}

	report := models.ConfigReport{
		ArtifactName: raw.ArtifactName,
		ArtifactType: raw.ArtifactType,
		Results:      make([]models.ConfigResult, 0, len(raw.Results)),
	}
	if report.ArtifactName == "" {
		report.ArtifactName = defaultArtifactName
	}
	if report.ArtifactType == "" {
		report.ArtifactType = defaultArtifactType
	}

	for _, r := range raw.Results {
		res := models.ConfigResult{
			Target:            r.Target,
			Class:             r.Class,
			Type:              r.Type,
			Misconfigurations: make([]models.Misconfiguration, 0, len(r.Misconfigurations)),
		}
		for _, m := range r.Misconfigurations {
			res.Misconfigurations = append(res.Misconfigurations, models.Misconfiguration{
				ID:          m.ID,
				Title:       m.Title,
				Description: m.Description,
				Severity:    m.Severity,
				PrimaryURL:  m.PrimaryURL,
				Query:       m.Query,
			})
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
