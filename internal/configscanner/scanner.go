package configscanner

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
	"github.com/rs/zerolog"
)

// PipelineName identifies the misconfiguration pipeline in run summaries.
const PipelineName = "configs"

// maxReportSize bounds the trivy report read into memory.
const maxReportSize = 256 << 20

// ConfigsUploader sends a misconfiguration report to the reporting API.
type ConfigsUploader interface {
	UploadConfigs(ctx context.Context, report models.ConfigReport) error
}

// Scanner runs trivy and uploads the reshaped report.
type Scanner struct {
	scanCfg     config.ScanConfig
	trivyCfg    config.TrivyConfig
	invoker     *Trivy
	uploader    ConfigsUploader
	fileManager *common.FileManager
	runID       string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewScanner creates a Scanner.
func NewScanner(
	cfg *config.GlobalConfig,
	executor command.Executor,
	uploader ConfigsUploader,
	runID string,
	logger zerolog.Logger,
) (*Scanner, error) {
	if cfg == nil {
		return nil, common.NewValidationError("config", nil, "configuration is required")
	}
	if executor == nil {
		return nil, common.NewValidationError("executor", nil, "command executor is required")
	}
	if uploader == nil {
		return nil, common.NewValidationError("uploader", nil, "uploader is required")
	}

	return &Scanner{
		scanCfg:     cfg.ScanConfig,
		trivyCfg:    cfg.TrivyConfig,
		invoker:     NewTrivy(cfg.TrivyConfig, executor, logger),
		uploader:    uploader,
		fileManager: common.NewFileManager(logger),
		runID:       runID,
		logger:      logger.With().Str("module", "ConfigScanner").Logger(),
		now:         time.Now,
	}, nil
}

// Run scans, uploads the report (even when it is empty) and then gates on
// CRITICAL findings when fail_on_critical is set. The returned error wraps
// common.ErrFindingsDetected in that case and the summary is still valid.
func (s *Scanner) Run(ctx context.Context) (models.RunSummary, error) {
	start := s.now()
	summary, err := s.run(ctx, start)
	summary.Duration = time.Since(start)

	s.logger.Info().
		Str("status", string(summary.Status)).
		Int("misconfigurations", summary.Reported).
		Bool("uploaded", summary.Uploaded).
		Dur("duration", summary.Duration).
		Msg("Config scan completed")
	return summary, err
}

func (s *Scanner) run(ctx context.Context, start time.Time) (models.RunSummary, error) {
	summary := models.RunSummary{RunID: s.runID, Pipeline: PipelineName}

	root, err := s.fileManager.ResolveDirectory(s.scanCfg.ScanDir)
	if err != nil {
		return summary, err
	}

	reportPath := s.reportPath(root, start)
	summary.ReportPath = reportPath
	if err := s.fileManager.EnsureDirectory(filepath.Dir(reportPath), 0o755); err != nil {
		return summary, err
	}
	defer s.cleanup(reportPath)

	s.logger.Info().Str("scan_dir", root).Str("report", reportPath).Msg("Scanning configuration files")
	if err := s.invoker.Run(ctx, root, reportPath); err != nil {
		return summary, err
	}

	data, err := s.fileManager.ReadFile(reportPath, maxReportSize)
	if err != nil {
		return summary, common.WrapErrorf(common.ErrReportParseFailed, "failed to read trivy report: %v", err)
	}
	report, err := ParseReport(data)
	if err != nil {
		return summary, err
	}

	summary.Reported = report.Total()
	summary.Retained = summary.Reported
	counts := report.CountBySeverity()
	event := s.logger.Info().Str("artifact", report.ArtifactName).Int("total", summary.Reported)
	for severity, n := range counts {
		event = event.Int(severity, n)
	}
	event.Msg("Misconfigurations by severity")

	if err := s.uploader.UploadConfigs(ctx, report); err != nil {
		return summary, err
	}
	summary.Uploaded = true

	if summary.Reported == 0 {
		summary.Status = models.RunStatusClean
		return summary, nil
	}
	summary.Status = models.RunStatusFindings

	if critical := counts[models.SeverityCritical]; critical > 0 {
		s.logger.Warn().Int("critical", critical).Msg("Critical misconfigurations found")
		if s.trivyCfg.FailOnCritical {
			return summary, fmt.Errorf("%w: %d critical misconfigurations", common.ErrFindingsDetected, critical)
		}
	}
	return summary, nil
}

func (s *Scanner) reportPath(root string, start time.Time) string {
	dir := s.scanCfg.ReportDir
	if dir == "" {
		dir = root
	} else if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, s.trivyCfg.ReportPrefix+strconv.FormatInt(start.UnixMilli(), 10)+".json")
}

func (s *Scanner) cleanup(reportPath string) {
	if s.trivyCfg.KeepReport {
		s.logger.Info().Str("report", reportPath).Msg("Keeping trivy report")
		return
	}
	if err := s.fileManager.RemoveIfExists(reportPath); err != nil {
		s.logger.Warn().Err(err).Str("report", reportPath).Msg("Could not remove trivy report")
	}
}
