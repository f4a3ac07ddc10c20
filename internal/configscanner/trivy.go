// Package configscanner runs trivy's misconfiguration scanner over the
// workspace and reports the results.
package configscanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/rs/zerolog"
)

// Trivy invokes `trivy config` through an Executor.
type Trivy struct {
	binary   string
	executor command.Executor
	policy   command.ExitPolicy
	logger   zerolog.Logger
}

// NewTrivy creates an invoker. Any exit code outside cfg.SuccessExitCodes
// is a failure.
func NewTrivy(cfg config.TrivyConfig, executor command.Executor, logger zerolog.Logger) *Trivy {
	return &Trivy{
		binary:   cfg.Binary,
		executor: executor,
		policy:   command.ExitPolicy{SuccessCodes: cfg.SuccessExitCodes},
		logger:   logger.With().Str("module", "TrivyInvoker").Logger(),
	}
}

// Args builds the trivy command line.
func (t *Trivy) Args(scanDir, reportPath string) []string {
	return []string{"config", "--format", "json", "--output", reportPath, scanDir}
}

// Run scans scanDir and writes the JSON report to reportPath.
func (t *Trivy) Run(ctx context.Context, scanDir, reportPath string) error {
	binary, err := t.executor.LookPath(t.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found: %v", common.ErrScannerExecutionFailed, t.binary, err)
	}

	t.logger.Info().Str("binary", binary).Str("scan_dir", scanDir).Msg("Running trivy scan")
	res, err := t.executor.Execute(ctx, scanDir, binary, t.Args(scanDir, reportPath)...)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrScannerExecutionFailed, err)
	}

	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		t.logger.Warn().Str("stderr", errOut).Msg("Trivy wrote to stderr")
	}

	if t.policy.Classify(res.ExitCode) != command.OutcomeClean {
		return fmt.Errorf("%w: trivy exited with code %d", common.ErrScannerExecutionFailed, res.ExitCode)
	}
	t.logger.Info().Str("report", reportPath).Dur("duration", res.Duration).Msg("Trivy scan completed")
	return nil
}
