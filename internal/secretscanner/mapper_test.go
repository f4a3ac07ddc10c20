package secretscanner_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/aleister1102/pulsegate/internal/secretscanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFinding_PathPadding(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		minSegments int
		want        string
	}{
		{"short relative path", "a/b.txt", 8, "//////a/b.txt"},
		{"empty path", "", 8, "///////"},
		{"windows separators", `src\app\main.js`, 8, "/////src/app/main.js"},
		{"deep path untouched", "/1/2/3/4/5/6/7/8.txt", 8, "/1/2/3/4/5/6/7/8.txt"},
		{"padding disabled", "a/b.txt", 0, "a/b.txt"},
		{"custom depth", "x", 3, "//x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := secretscanner.MapFinding(models.SecretFinding{File: tt.file}, tt.minSegments).File
			assert.Equal(t, tt.want, got)
			if tt.minSegments > 0 {
				assert.GreaterOrEqual(t, len(strings.Split(got, "/")), tt.minSegments)
			}
		})
	}
}

func TestMapFinding_Positions(t *testing.T) {
	rec := secretscanner.MapFinding(models.SecretFinding{
		RuleID:      "jwt",
		File:        "a.js",
		StartLine:   7,
		EndLine:     7,
		StartColumn: 0,
		EndColumn:   -1,
	}, 8)

	assert.Equal(t, "7", rec.StartLine)
	assert.Equal(t, "7", rec.EndLine)
	assert.Empty(t, rec.StartColumn)
	assert.Empty(t, rec.EndColumn)
}

func TestMapFinding_Idempotent(t *testing.T) {
	f := models.SecretFinding{RuleID: "aws-key", File: `dir\key.txt`, Match: "AKIA", StartLine: 1}

	assert.Equal(t, secretscanner.MapFinding(f, 8), secretscanner.MapFinding(f, 8))
}

func TestMapFinding_WireFieldOrder(t *testing.T) {
	rec := secretscanner.MapFinding(models.SecretFinding{
		RuleID:      "aws-key",
		Description: "AWS Access Key ID",
		File:        "k.txt",
		Match:       "m",
		Secret:      "s",
		StartLine:   1,
		EndLine:     2,
		StartColumn: 3,
		EndColumn:   4,
	}, 2)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"ruleId":"aws-key","description":"AWS Access Key ID","file":"/k.txt","match":"m","secret":"s","startLine":"1","endLine":"2","startColumn":"3","endColumn":"4"}`,
		string(data))
}

func TestMapFindings_KeepsOrder(t *testing.T) {
	records := secretscanner.MapFindings([]models.SecretFinding{{RuleID: "1"}, {RuleID: "2"}}, 8)

	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].RuleID)
	assert.Equal(t, "2", records[1].RuleID)
	assert.Empty(t, secretscanner.MapFindings(nil, 8))
}
