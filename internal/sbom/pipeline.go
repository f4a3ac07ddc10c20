package sbom

import (
	"context"
	"strings"
	"time"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/rs/zerolog"
)

// PipelineName identifies the SBOM pipeline in run summaries.
const PipelineName = "sbom"

const maxSBOMSize = 512 << 20

// SBOMUploader sends a generated SBOM file to the reporting API.
type SBOMUploader interface {
	UploadSBOM(ctx context.Context, upload models.SBOMUpload) (models.SBOMUploadResult, error)
}

// Pipeline produces and uploads the SBOM of the scan root.
type Pipeline struct {
	scanCfg     config.ScanConfig
	sbomCfg     config.SBOMConfig
	generator   *Cdxgen
	uploader    SBOMUploader
	fileManager *common.FileManager
	runID       string
	logger      zerolog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	cfg *config.GlobalConfig,
	executor command.Executor,
	uploader SBOMUploader,
	runID string,
	logger zerolog.Logger,
) (*Pipeline, error) {
	if cfg == nil {
		return nil, common.NewValidationError("config", nil, "configuration is required")
	}
	if executor == nil {
		return nil, common.NewValidationError("executor", nil, "command executor is required")
	}
	if uploader == nil {
		return nil, common.NewValidationError("uploader", nil, "uploader is required")
	}

	return &Pipeline{
		scanCfg:     cfg.ScanConfig,
		sbomCfg:     cfg.SBOMConfig,
		generator:   NewCdxgen(cfg.SBOMConfig, executor, logger),
		uploader:    uploader,
		fileManager: common.NewFileManager(logger),
		runID:       runID,
		logger:      logger.With().Str("module", "SBOMPipeline").Logger(),
	}, nil
}

// Run generates the SBOM and uploads it unless filtering leaves no
// components, in which case the summary status is skipped and the error nil.
func (p *Pipeline) Run(ctx context.Context) (models.RunSummary, error) {
	start := time.Now()
	summary, err := p.run(ctx)
	summary.Duration = time.Since(start)

	p.logger.Info().
		Str("status", string(summary.Status)).
		Int("components", summary.Retained).
		Bool("uploaded", summary.Uploaded).
		Dur("duration", summary.Duration).
		Msg("SBOM pipeline completed")
	return summary, err
}

func (p *Pipeline) run(ctx context.Context) (models.RunSummary, error) {
	summary := models.RunSummary{RunID: p.runID, Pipeline: PipelineName}

	root, err := p.fileManager.ResolveDirectory(p.scanCfg.ScanDir)
	if err != nil {
		return summary, err
	}

	manifests, err := DetectManifests(root)
	if err != nil {
		return summary, common.WrapErrorf(err, "%s", root)
	}
	p.logger.Info().Strs("manifests", manifests).Msg("Found manifest files")

	if p.sbomCfg.NpmInstall && hasNpmManifest(manifests) {
		if err := p.generator.NpmInstall(ctx, root); err != nil {
			return summary, common.WrapError(err, "npm install failed")
		}
	}

	output := outputPath(root, p.sbomCfg.OutputFile)
	summary.ReportPath = output
	if err := p.generator.Generate(ctx, root, output); err != nil {
		return summary, err
	}

	data, err := p.fileManager.ReadFile(output, maxSBOMSize)
	if err != nil {
		return summary, common.WrapErrorf(common.ErrReportParseFailed, "failed to read SBOM: %v", err)
	}
	p.logger.Info().Float64("size_mb", float64(len(data))/(1024*1024)).Msg("SBOM generated")

	doc, err := ParseDocument(data)
	if err != nil {
		return summary, err
	}
	summary.Reported = doc.ComponentCount()

	if removed := doc.ExcludeComponents(p.sbomCfg.ExcludedComponents); len(removed) > 0 {
		rewritten, err := doc.Marshal()
		if err != nil {
			return summary, err
		}
		if err := p.fileManager.WriteFileAtomic(output, rewritten, 0o644); err != nil {
			return summary, common.WrapError(err, "failed to rewrite SBOM")
		}
		p.logger.Debug().Strs("removed", removed).Msg("Filtered helper components from SBOM")
	}
	summary.Retained = doc.ComponentCount()
	p.logger.Info().Int("original", summary.Reported).Int("filtered", summary.Retained).Msg("SBOM components")
	p.logger.Debug().Strs("components", doc.ComponentNames()).Msg("SBOM components to upload")

	if summary.Retained == 0 {
		p.logger.Warn().Msg("SBOM contains 0 components after filtering, skipping upload")
		summary.Status = models.RunStatusSkipped
		return summary, nil
	}

	result, err := p.uploader.UploadSBOM(ctx, models.SBOMUpload{
		FilePath:    output,
		DisplayName: strings.TrimSpace(p.sbomCfg.DisplayName),
		BranchName:  strings.TrimSpace(p.sbomCfg.BranchName),
	})
	if err != nil {
		return summary, err
	}
	summary.Uploaded = true
	summary.Status = models.RunStatusUploaded
	if result.ComponentCount > 0 {
		p.logger.Info().Int("component_count", result.ComponentCount).Msg("SBOM accepted")
	}
	return summary, nil
}
