package uploader

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/models"
)

// Multipart field names expected by update-sbom.
const (
	FieldSBOMFile    = "sbomFile"
	FieldDisplayName = "displayName"
	FieldBranchName  = "branchName"
)

// UploadSBOM streams the SBOM file as multipart form data. Both the
// workspace and the project id must be configured.
func (c *Client) UploadSBOM(ctx context.Context, upload models.SBOMUpload) (models.SBOMUploadResult, error) {
	var result models.SBOMUploadResult

	if strings.TrimSpace(c.cfg.WorkspaceID) == "" {
		c.logger.Error().Str("env", config.EnvWorkspaceID).Msg("Workspace ID is not set")
		return result, common.WrapErrorf(common.ErrMissingConfiguration, "%s is not set", config.EnvWorkspaceID)
	}
	if err := c.requireProjectID(); err != nil {
		return result, err
	}

	file, err := os.Open(upload.FilePath)
	if err != nil {
		return result, common.WrapErrorf(err, "failed to open SBOM file %s", upload.FilePath)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		c.logger.Info().Str("file", upload.FilePath).Float64("size_mb", float64(info.Size())/(1024*1024)).Msg("SBOM file size")
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeSBOMForm(writer, file, upload))
	}()

	resp, err := c.post(ctx, "sbom", c.SBOMURL(), writer.FormDataContentType(), pr)
	if err != nil {
		return result, err
	}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			c.logger.Warn().Err(err).Msg("Could not decode SBOM upload response")
		}
	}
	if result.ComponentCount > 0 {
		c.logger.Info().Int("component_count", result.ComponentCount).Msg("API reported component count")
	} else {
		c.logger.Info().Msg("No component count provided in API response")
	}
	return result, nil
}

func writeSBOMForm(writer *multipart.Writer, file io.Reader, upload models.SBOMUpload) error {
	part, err := writer.CreateFormFile(FieldSBOMFile, filepath.Base(upload.FilePath))
	if err != nil {
		return common.WrapError(err, "failed to create form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return common.WrapError(err, "failed to copy SBOM into form")
	}
	if err := writer.WriteField(FieldDisplayName, upload.DisplayName); err != nil {
		return common.WrapError(err, "failed to write displayName field")
	}
	if err := writer.WriteField(FieldBranchName, upload.BranchName); err != nil {
		return common.WrapError(err, "failed to write branchName field")
	}
	return writer.Close()
}
