// Package uploader sends pipeline results to the open-pulse reporting API.
// Every pipeline run makes at most one request; there are no retries.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/httpclient"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/rs/zerolog"
)

// Credential headers, sent only when the value is configured.
const (
	HeaderAPIKey    = "x-api-key"
	HeaderSecretKey = "x-secret-key"
	HeaderTenantKey = "x-tenant-key"

	contentTypeJSON = "application/json"
)

// Client posts payloads to the reporting API.
type Client struct {
	cfg        config.ReportingConfig
	httpClient *httpclient.HTTPClient
	logger     zerolog.Logger
}

// NewClient creates a Client with a transport configured from cfg.
func NewClient(cfg config.ReportingConfig, logger zerolog.Logger) (*Client, error) {
	moduleLogger := logger.With().Str("module", "ReportUploader").Logger()

	hc, err := httpclient.NewHTTPClientBuilder(moduleLogger).
		WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second).
		WithUserAgent(cfg.UserAgent).
		WithInsecureSkipVerify(cfg.InsecureSkipVerify).
		WithHTTP2(cfg.EnableHTTP2).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to create reporting HTTP client")
	}

	moduleLogger.Debug().Str("config", cfg.String()).Msg("Uploader initialized")
	return &Client{
		cfg:        cfg,
		httpClient: hc,
		logger:     moduleLogger,
	}, nil
}

// SecretsURL is {base}/update-secrets/{projectId}.
func (c *Client) SecretsURL() string {
	return c.base() + "/update-secrets/" + url.PathEscape(c.cfg.ProjectID)
}

// ConfigsURL is {base}/update-configs/{projectId}.
func (c *Client) ConfigsURL() string {
	return c.base() + "/update-configs/" + url.PathEscape(c.cfg.ProjectID)
}

// SBOMURL is {base}/{projectId}/update-sbom.
func (c *Client) SBOMURL() string {
	return c.base() + "/" + url.PathEscape(c.cfg.ProjectID) + "/update-sbom"
}

func (c *Client) base() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

// UploadSecrets posts the records as one JSON array.
func (c *Client) UploadSecrets(ctx context.Context, records []models.SecretRecord) error {
	if err := c.requireProjectID(); err != nil {
		return err
	}
	if records == nil {
		records = []models.SecretRecord{}
	}

	body, err := json.Marshal(records)
	if err != nil {
		return common.WrapError(err, "failed to marshal secrets payload")
	}

	if _, err := c.post(ctx, "secrets", c.SecretsURL(), contentTypeJSON, bytes.NewReader(body)); err != nil {
		return err
	}
	c.logger.Info().Int("count", len(records)).Msg("Secrets uploaded")
	return nil
}

// UploadConfigs posts the misconfiguration report as a JSON object.
func (c *Client) UploadConfigs(ctx context.Context, report models.ConfigReport) error {
	if err := c.requireProjectID(); err != nil {
		return err
	}

	body, err := json.Marshal(report)
	if err != nil {
		return common.WrapError(err, "failed to marshal config report")
	}

	if _, err := c.post(ctx, "configs", c.ConfigsURL(), contentTypeJSON, bytes.NewReader(body)); err != nil {
		return err
	}
	c.logger.Info().Int("misconfigurations", report.Total()).Msg("Config report uploaded")
	return nil
}

func (c *Client) requireProjectID() error {
	if strings.TrimSpace(c.cfg.ProjectID) == "" {
		c.logger.Error().Str("env", config.EnvProjectID).Msg("Project ID is not set")
		return common.WrapErrorf(common.ErrMissingConfiguration, "%s is not set", config.EnvProjectID)
	}
	return nil
}

func (c *Client) headers(contentType string) map[string]string {
	h := map[string]string{"Content-Type": contentType}
	if c.cfg.APIKey != "" {
		h[HeaderAPIKey] = c.cfg.APIKey
	}
	if c.cfg.SecretKey != "" {
		h[HeaderSecretKey] = c.cfg.SecretKey
	}
	if c.cfg.TenantKey != "" {
		h[HeaderTenantKey] = c.cfg.TenantKey
	}
	return h
}

// post sends body and maps every failure onto common.ErrUploadFailed.
func (c *Client) post(ctx context.Context, kind, endpoint, contentType string, body io.Reader) (*httpclient.HTTPResponse, error) {
	c.logger.Info().Str("kind", kind).Str("url", endpoint).Msg("Uploading")

	resp, err := c.httpClient.Post(ctx, endpoint, c.headers(contentType), body)
	if err != nil {
		var httpErr *httpclient.HTTPError
		var netErr *httpclient.NetworkError
		switch {
		case errors.As(err, &httpErr):
			c.logger.Error().
				Str("kind", kind).
				Str("url", endpoint).
				Int("status_code", httpErr.StatusCode).
				Str("response_body", httpErr.Body).
				Bool("truncated", httpErr.Truncated).
				Msg("Reporting API rejected upload")
		case errors.As(err, &netErr):
			c.logger.Error().Err(netErr.Err).Str("kind", kind).Str("url", endpoint).Msg("No response from reporting API")
		default:
			c.logger.Error().Err(err).Str("kind", kind).Str("url", endpoint).Msg("Upload request failed")
		}
		return nil, fmt.Errorf("%w: %s upload: %w", common.ErrUploadFailed, kind, err)
	}

	c.logger.Info().Str("kind", kind).Int("status_code", resp.StatusCode).Msg("Upload accepted")
	return resp, nil
}
