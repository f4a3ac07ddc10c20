// Package command runs external scanner binaries and reports how they exited.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Executor starts a process and waits for it. A non-zero exit is reported in
// Result.ExitCode, not as an error; the error is reserved for processes that
// could not be started at all.
type Executor interface {
	Execute(ctx context.Context, dir string, name string, args ...string) (Result, error)
	LookPath(name string) (string, error)
}

// ExecExecutor is the os/exec backed Executor.
type ExecExecutor struct {
	logger zerolog.Logger
}

// NewExecExecutor creates an Executor that spawns real processes.
func NewExecExecutor(logger zerolog.Logger) *ExecExecutor {
	return &ExecExecutor{
		logger: logger.With().Str("component", "CommandExecutor").Logger(),
	}
}

// Execute runs name with args in dir (empty means the current directory).
func (e *ExecExecutor) Execute(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug().Str("binary", name).Strs("args", args).Str("dir", dir).Msg("Starting process")

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			e.logger.Debug().Str("binary", name).Int("exit_code", res.ExitCode).Dur("duration", res.Duration).Msg("Process exited")
			return res, nil
		}
		return res, fmt.Errorf("failed to start %s: %w", name, err)
	}

	e.logger.Debug().Str("binary", name).Int("exit_code", 0).Dur("duration", res.Duration).Msg("Process exited")
	return res, nil
}

// LookPath resolves name against PATH.
func (e *ExecExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ExitPolicy classifies exit codes for one scanner.
type ExitPolicy struct {
	// SuccessCodes mean the scan completed with nothing to report.
	SuccessCodes []int
	// FindingsCodes mean the scan completed and reported findings.
	FindingsCodes []int
}

// Outcome of a process exit under an ExitPolicy.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeClean
	OutcomeFindings
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeFindings:
		return "findings"
	default:
		return "failed"
	}
}

// Classify maps an exit code onto an Outcome.
func (p ExitPolicy) Classify(code int) Outcome {
	switch {
	case slices.Contains(p.SuccessCodes, code):
		return OutcomeClean
	case slices.Contains(p.FindingsCodes, code):
		return OutcomeFindings
	default:
		return OutcomeFailed
	}
}
