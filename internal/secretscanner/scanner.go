package secretscanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/rs/zerolog"
)

// ScanRequest is everything one gitleaks invocation needs.
type ScanRequest struct {
	Root       string
	ReportPath string
	RulesPath  string
	Binary     string
}

// Absolute resolves every path in the request so the scanner process and
// this process agree on them.
func (r ScanRequest) Absolute() (ScanRequest, error) {
	out := r
	for _, p := range []*string{&out.Root, &out.ReportPath, &out.RulesPath} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return r, common.WrapErrorf(err, "failed to resolve path %s", *p)
		}
		*p = abs
	}
	return out, nil
}

// Gitleaks runs the gitleaks binary through an Executor.
type Gitleaks struct {
	executor command.Executor
	policy   command.ExitPolicy
	noGit    bool
	verbose  bool
	logger   zerolog.Logger
}

// NewGitleaks creates an invoker using the exit codes and flags from cfg.
func NewGitleaks(cfg config.SecretsConfig, executor command.Executor, logger zerolog.Logger) *Gitleaks {
	return &Gitleaks{
		executor: executor,
		policy: command.ExitPolicy{
			SuccessCodes:  cfg.SuccessExitCodes,
			FindingsCodes: cfg.FindingsExitCodes,
		},
		noGit:   cfg.NoGit,
		verbose: cfg.Verbose,
		logger:  logger.With().Str("module", "GitleaksInvoker").Logger(),
	}
}

// Args builds the gitleaks command line for req.
func (g *Gitleaks) Args(req ScanRequest) []string {
	args := []string{
		"detect",
		"--source=" + req.Root,
		"--report-path=" + req.ReportPath,
		"--config=" + req.RulesPath,
		"--report-format=json",
		"--no-banner",
	}
	if g.verbose {
		args = append(args, "--verbose")
	}
	if g.noGit {
		args = append(args, "--no-git")
	}
	return args
}

// Run executes gitleaks and classifies its exit code. Output is only logged;
// the report file is the authoritative result.
func (g *Gitleaks) Run(ctx context.Context, req ScanRequest) (command.Outcome, error) {
	req, err := req.Absolute()
	if err != nil {
		return command.OutcomeFailed, err
	}

	binary, err := g.executor.LookPath(req.Binary)
	if err != nil {
		return command.OutcomeFailed, fmt.Errorf("%w: %s not found: %v", common.ErrScannerExecutionFailed, req.Binary, err)
	}

	args := g.Args(req)
	g.logger.Info().Str("binary", binary).Str("source", req.Root).Msg("Running gitleaks")
	g.logger.Debug().Strs("args", args).Msg("Gitleaks command line")

	res, err := g.executor.Execute(ctx, req.Root, binary, args...)
	if err != nil {
		return command.OutcomeFailed, fmt.Errorf("%w: %v", common.ErrScannerExecutionFailed, err)
	}

	if out := strings.TrimSpace(string(res.Stdout)); out != "" {
		g.logger.Debug().Str("stdout", out).Msg("Gitleaks output")
	}
	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		g.logger.Warn().Str("stderr", errOut).Msg("Gitleaks wrote to stderr")
	}

	outcome := g.policy.Classify(res.ExitCode)
	g.logger.Info().
		Int("exit_code", res.ExitCode).
		Str("outcome", outcome.String()).
		Dur("duration", res.Duration).
		Msg("Gitleaks finished")

	if outcome == command.OutcomeFailed {
		return outcome, fmt.Errorf("%w: gitleaks exited with code %d", common.ErrScannerExecutionFailed, res.ExitCode)
	}
	return outcome, nil
}
