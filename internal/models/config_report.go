package models

// SeverityCritical is the misconfiguration severity that gates a build.
const SeverityCritical = "CRITICAL"

// ConfigReport is the misconfiguration report sent to update-configs. Keys
// keep the scanner's PascalCase names.
type ConfigReport struct {
	ArtifactName string         `json:"ArtifactName"`
	ArtifactType string         `json:"ArtifactType"`
	Results      []ConfigResult `json:"Results"`
}

// ConfigResult groups the misconfigurations found in one target file.
type ConfigResult struct {
	Target            string             `json:"Target"`
	Class             string             `json:"Class"`
	Type              string             `json:"Type"`
	Misconfigurations []Misconfiguration `json:"Misconfigurations"`
}

type Misconfiguration struct {
	ID          string `json:"ID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Severity    string `json:"Severity"`
	PrimaryURL  string `json:"PrimaryURL"`
	Query       string `json:"Query"`
}

// CountBySeverity tallies misconfigurations across all results.
func (r ConfigReport) CountBySeverity() map[string]int {
	counts := make(map[string]int)
	for _, res := range r.Results {
		for _, m := range res.Misconfigurations {
			counts[m.Severity]++
		}
	}
	return counts
}

// HasSeverity reports whether any misconfiguration carries severity.
func (r ConfigReport) HasSeverity(severity string) bool {
	return r.CountBySeverity()[severity] > 0
}

// Total is the number of misconfigurations in the report.
func (r ConfigReport) Total() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Misconfigurations)
	}
	return n
}
