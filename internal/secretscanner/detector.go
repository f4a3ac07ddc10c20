package secretscanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// PipelineName identifies the secret pipeline in run summaries.
const PipelineName = "secrets"

// SecretsUploader sends mapped findings to the reporting API.
type SecretsUploader interface {
	UploadSecrets(ctx context.Context, records []models.SecretRecord) error
}

// Detector orchestrates the secret scanning pipeline.
type Detector struct {
	scanCfg     config.ScanConfig
	secretsCfg  config.SecretsConfig
	executor    command.Executor
	invoker     *Gitleaks
	uploader    SecretsUploader
	fileManager *common.FileManager
	runID       string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDetector creates a new Detector service.
func NewDetector(
	cfg *config.GlobalConfig,
	executor command.Executor,
	uploader SecretsUploader,
	runID string,
	logger zerolog.Logger,
) (*Detector, error) {
	if cfg == nil {
		return nil, common.NewValidationError("config", nil, "configuration is required")
	}
	if executor == nil {
		return nil, common.NewValidationError("executor", nil, "command executor is required")
	}
	if uploader == nil {
		return nil, common.NewValidationError("uploader", nil, "uploader is required")
	}

	moduleLogger := logger.With().Str("module", "SecretDetector").Logger()
	return &Detector{
		scanCfg:     cfg.ScanConfig,
		secretsCfg:  cfg.SecretsConfig,
		executor:    executor,
		invoker:     NewGitleaks(cfg.SecretsConfig, executor, logger),
		uploader:    uploader,
		fileManager: common.NewFileManager(logger),
		runID:       runID,
		logger:      moduleLogger,
		now:         time.Now,
	}, nil
}

// Run executes walk, scan, load, filter, map and upload in order. When
// findings are uploaded and fail_on_findings is set the returned error wraps
// common.ErrFindingsDetected; the summary is valid in that case.
func (d *Detector) Run(ctx context.Context) (models.RunSummary, error) {
	start := d.now()
	summary, err := d.run(ctx, start)
	summary.Duration = time.Since(start)

	d.logger.Info().
		Str("status", string(summary.Status)).
		Int("reported", summary.Reported).
		Int("retained", summary.Retained).
		Bool("uploaded", summary.Uploaded).
		Dur("duration", summary.Duration).
		Msg("Secret scan completed")
	return summary, err
}

func (d *Detector) run(ctx context.Context, start time.Time) (models.RunSummary, error) {
	summary := models.RunSummary{RunID: d.runID, Pipeline: PipelineName}

	root, err := d.fileManager.ResolveDirectory(d.scanCfg.ScanDir)
	if err != nil {
		return summary, err
	}

	reportPath := d.reportPath(root, start)
	summary.ReportPath = reportPath
	if err := d.fileManager.EnsureDirectory(filepath.Dir(reportPath), 0o755); err != nil {
		return summary, err
	}

	skip, err := NewSkipRules(
		append(append([]string(nil), d.scanCfg.SkipFiles...), filepath.Base(reportPath)),
		d.scanCfg.SkipPatterns,
	)
	if err != nil {
		return summary, common.WrapError(err, "failed to build skip rules")
	}

	d.logger.Info().Str("scan_dir", root).Int("skip_rules", skip.Len()).Msg("Detecting secrets")

	walker := NewWalker(skip, d.scanCfg.ExcludedDirs, d.scanCfg.ReportPrefixes, d.logger)
	if _, err := walker.Walk(root); err != nil {
		return summary, err
	}

	if d.scanCfg.GitSafeDirectory {
		d.addSafeDirectory(ctx, root)
	}

	rules := DefaultRuleSet(d.secretsCfg.MinSecretLength)
	if err := rules.Validate(); err != nil {
		return summary, common.WrapError(err, "invalid rule set")
	}
	rulesPath, err := rules.WriteTemp("", d.runID)
	if err != nil {
		return summary, err
	}
	d.logger.Debug().Str("rules_path", rulesPath).Int("rules", len(rules.Rules)).Msg("Wrote gitleaks rules")

	defer func() {
		if err := d.cleanup(rulesPath, reportPath); err != nil {
			d.logger.Warn().Err(err).Msg("Cleanup incomplete")
		}
	}()

	req := ScanRequest{
		Root:       root,
		ReportPath: reportPath,
		RulesPath:  rulesPath,
		Binary:     d.secretsCfg.GitleaksBinary,
	}
	if _, err := d.invoker.Run(ctx, req); err != nil {
		return summary, err
	}

	findings, err := LoadReport(reportPath)
	if err != nil {
		return summary, err
	}
	summary.Reported = len(findings)
	if len(findings) == 0 {
		d.logger.Info().Msg("No secrets detected")
		summary.Status = models.RunStatusClean
		return summary, nil
	}

	filter := NewFilter(root, skip, d.scanCfg.ExcludedDirs, d.logger)
	kept := filter.Apply(findings)
	summary.Retained = len(kept)
	d.logger.Info().Int("reported", len(findings)).Int("retained", len(kept)).Msg("Filtered findings")
	if len(kept) == 0 {
		d.logger.Info().Msg("No secrets detected after filtering")
		summary.Status = models.RunStatusClean
		return summary, nil
	}

	records := MapFindings(kept, d.secretsCfg.MinPathSegments)
	for _, r := range records {
		d.logger.Warn().Str("rule_id", r.RuleID).Str("file", r.File).Str("line", r.StartLine).Msg("Secret detected")
	}

	if err := d.uploader.UploadSecrets(ctx, records); err != nil {
		return summary, err
	}
	summary.Uploaded = true
	summary.Status = models.RunStatusFindings

	if d.secretsCfg.FailOnFindings {
		return summary, fmt.Errorf("%w: %d secrets", common.ErrFindingsDetected, len(records))
	}
	return summary, nil
}

// reportPath names the report after the run start in milliseconds.
func (d *Detector) reportPath(root string, start time.Time) string {
	dir := d.scanCfg.ReportDir
	if dir == "" {
		dir = root
	} else if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := d.secretsCfg.ReportPrefix + strconv.FormatInt(start.UnixMilli(), 10) + ".json"
	return filepath.Join(dir, name)
}

// addSafeDirectory is best effort: a checkout that is not a git repository,
// or a host without git, is only worth a warning.
func (d *Detector) addSafeDirectory(ctx context.Context, root string) {
	git, err := d.executor.LookPath("git")
	if err != nil {
		d.logger.Warn().Msg("git not found, skipping safe.directory")
		return
	}
	res, err := d.executor.Execute(ctx, root, git, "config", "--global", "--add", "safe.directory", root)
	if err != nil || res.ExitCode != 0 {
		d.logger.Warn().Err(err).Int("exit_code", res.ExitCode).Msg("Could not configure git safe directory")
	}
}

func (d *Detector) cleanup(rulesPath, reportPath string) error {
	var result *multierror.Error
	if err := d.fileManager.RemoveIfExists(rulesPath); err != nil {
		result = multierror.Append(result, err)
	}
	if d.secretsCfg.KeepReport {
		d.logger.Info().Str("report", reportPath).Msg("Keeping gitleaks report")
	} else if err := d.fileManager.RemoveIfExists(reportPath); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
