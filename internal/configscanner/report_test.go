package configscanner_test

import (
	"testing"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/configscanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	data := []byte(`{
		"SchemaVersion": 2,
		"ArtifactName": "/workspace/app",
		"ArtifactType": "filesystem",
		"Results": [
			{
				"Target": "Dockerfile",
				"Class": "config",
				"Type": "dockerfile",
				"Misconfigurations": [
					{"ID": "DS002", "Title": "Image user should not be 'root'", "Severity": "HIGH", "PrimaryURL": "https://avd.aquasec.com/misconfig/ds002", "Status": "FAIL"},
					{"ID": "DS026", "Title": "No HEALTHCHECK defined", "Severity": "LOW"}
				]
			},
			{"Target": "deploy.yaml", "Class": "config", "Type": "kubernetes", "Misconfigurations": null}
		]
	}`)

	report, err := configscanner.ParseReport(data)
	require.NoError(t, err)

	assert.Equal(t, "/workspace/app", report.ArtifactName)
	assert.Equal(t, "filesystem", report.ArtifactType)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "Dockerfile", report.Results[0].Target)
	assert.Equal(t, "DS002", report.Results[0].Misconfigurations[0].ID)
	assert.Equal(t, "https://avd.aquasec.com/misconfig/ds002", report.Results[0].Misconfigurations[0].PrimaryURL)
	assert.NotNil(t, report.Results[1].Misconfigurations)
	assert.Empty(t, report.Results[1].Misconfigurations)
	assert.Equal(t, 2, report.Total())
}

func TestParseReport_Defaults(t *testing.T) {
	report, err := configscanner.ParseReport([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "unknown-artifact", report.ArtifactName)
	assert.Equal(t, "config", report.ArtifactType)
	assert.NotNil(t, report.Results)
	assert.Zero(t, report.Total())
}

func TestParseReport_Malformed(t *testing.T) {
	for _, input := range []string{"", "{not json", "[]"} {
		_, err := configscanner.ParseReport([]byte(input))
		assert.ErrorIs(t, err, common.ErrReportParseFailed, "input %q", input)
	}
}
