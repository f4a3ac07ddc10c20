package sbom

import (
	"context"
	"fmt"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/rs/zerolog"
)

// Cdxgen invokes the CycloneDX generator through an Executor.
type Cdxgen struct {
	cfg      config.SBOMConfig
	executor command.Executor
	policy   command.ExitPolicy
	logger   zerolog.Logger
}

func NewCdxgen(cfg config.SBOMConfig, executor command.Executor, logger zerolog.Logger) *Cdxgen {
	return &Cdxgen{
		cfg:      cfg,
		executor: executor,
		policy:   command.ExitPolicy{SuccessCodes: []int{0}},
		logger:   logger.With().Str("module", "CdxgenInvoker").Logger(),
	}
}

// Command returns the binary and the arguments for generating root's SBOM
// into output. A multi-word command such as "npx cdxgen" contributes its
// tail as leading arguments.
func (c *Cdxgen) Command(root, output string) (string, []string) {
	fields := strings.Fields(c.cfg.Command)
	if len(fields) == 0 {
		fields = []string{config.DefaultCdxgenCommand}
	}

	args := append([]string(nil), fields[1:]...)
	args = append(args, root, "-o", output)
	for _, p := range c.cfg.ExcludePaths {
		args = append(args, "--exclude", p)
	}
	args = append(args, "--spec-version", c.cfg.SpecVersion)
	if c.cfg.NoDevDependencies {
		args = append(args, "--no-dev-dependencies")
	}
	return fields[0], args
}

// Generate writes the SBOM for root to output.
func (c *Cdxgen) Generate(ctx context.Context, root, output string) error {
	name, args := c.Command(root, output)
	c.logger.Info().Str("scan_dir", root).Str("output", output).Msg("Generating SBOM")
	return c.run(ctx, root, name, args...)
}

// NpmInstall installs the project's npm dependencies so cdxgen can resolve
// the full tree.
func (c *Cdxgen) NpmInstall(ctx context.Context, root string) error {
	c.logger.Info().Msg("package.json detected, running npm install")
	return c.run(ctx, root, c.cfg.NpmBinary, "install")
}

func (c *Cdxgen) run(ctx context.Context, dir, name string, args ...string) error {
	binary, err := c.executor.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s not found: %v", common.ErrScannerExecutionFailed, name, err)
	}

	res, err := c.executor.Execute(ctx, dir, binary, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrScannerExecutionFailed, err)
	}
	if out := strings.TrimSpace(string(res.Stdout)); out != "" {
		c.logger.Debug().Str("binary", name).Str("stdout", out).Msg("Process output")
	}
	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		c.logger.Warn().Str("binary", name).Str("stderr", errOut).Msg("Process wrote to stderr")
	}

	if c.policy.Classify(res.ExitCode) != command.OutcomeClean {
		return fmt.Errorf("%w: %s exited with code %d", common.ErrScannerExecutionFailed, name, res.ExitCode)
	}
	return nil
}
