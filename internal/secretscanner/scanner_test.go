package secretscanner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/secretscanner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(t *testing.T) secretscanner.ScanRequest {
	dir := t.TempDir()
	return secretscanner.ScanRequest{
		Root:       dir,
		ReportPath: filepath.Join(dir, "report.json"),
		RulesPath:  filepath.Join(dir, "rules.toml"),
		Binary:     "gitleaks",
	}
}

func TestGitleaks_Args(t *testing.T) {
	cfg := config.NewDefaultSecretsConfig()
	cfg.Verbose = true
	g := secretscanner.NewGitleaks(cfg, &fakeExecutor{}, zerolog.Nop())

	args := g.Args(secretscanner.ScanRequest{Root: "/src", ReportPath: "/src/r.json", RulesPath: "/tmp/rules.toml"})
	assert.Equal(t, []string{
		"detect",
		"--source=/src",
		"--report-path=/src/r.json",
		"--config=/tmp/rules.toml",
		"--report-format=json",
		"--no-banner",
		"--verbose",
		"--no-git",
	}, args)

	cfg.Verbose = false
	cfg.NoGit = false
	args = secretscanner.NewGitleaks(cfg, &fakeExecutor{}, zerolog.Nop()).Args(secretscanner.ScanRequest{})
	assert.NotContains(t, args, "--verbose")
	assert.NotContains(t, args, "--no-git")
}

func TestGitleaks_ExitPolicy(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		want     command.Outcome
		wantErr  bool
	}{
		{"no leaks", 0, command.OutcomeClean, false},
		{"leaks found", 1, command.OutcomeFindings, false},
		{"unexpected code", 2, command.OutcomeFailed, true},
		{"killed", 137, command.OutcomeFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{exitCode: tt.exitCode}
			g := secretscanner.NewGitleaks(config.NewDefaultSecretsConfig(), exec, zerolog.Nop())

			outcome, err := g.Run(context.Background(), testRequest(t))
			assert.Equal(t, tt.want, outcome)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrScannerExecutionFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGitleaks_CustomExitCodes(t *testing.T) {
	cfg := config.NewDefaultSecretsConfig()
	cfg.FindingsExitCodes = []int{42}
	g := secretscanner.NewGitleaks(cfg, &fakeExecutor{exitCode: 42}, zerolog.Nop())

	outcome, err := g.Run(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, command.OutcomeFindings, outcome)
}

func TestGitleaks_SpawnFailure(t *testing.T) {
	exec := &fakeExecutor{execErr: errors.New("permission denied")}
	g := secretscanner.NewGitleaks(config.NewDefaultSecretsConfig(), exec, zerolog.Nop())

	_, err := g.Run(context.Background(), testRequest(t))
	assert.ErrorIs(t, err, common.ErrScannerExecutionFailed)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestGitleaks_BinaryNotFound(t *testing.T) {
	exec := &fakeExecutor{missing: map[string]bool{"gitleaks": true}}
	g := secretscanner.NewGitleaks(config.NewDefaultSecretsConfig(), exec, zerolog.Nop())

	_, err := g.Run(context.Background(), testRequest(t))
	assert.ErrorIs(t, err, common.ErrScannerExecutionFailed)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, exec.binaries(), "nothing is spawned")
}

func TestScanRequest_Absolute(t *testing.T) {
	req, err := secretscanner.ScanRequest{Root: ".", ReportPath: "r.json", Binary: "gitleaks"}.Absolute()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(req.Root))
	assert.True(t, filepath.IsAbs(req.ReportPath))
	assert.Empty(t, req.RulesPath)
	assert.Equal(t, "gitleaks", req.Binary)
}
