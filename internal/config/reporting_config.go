package config

// ReportingConfig locates the reporting API and carries tenant credentials.
// Credentials are pass-through: empty values are simply not sent.
type ReportingConfig struct {
	BaseURL            string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,url"`
	ProjectID          string `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	WorkspaceID        string `json:"workspace_id,omitempty" yaml:"workspace_id,omitempty"`
	APIKey             string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	SecretKey          string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	TenantKey          string `json:"tenant_key,omitempty" yaml:"tenant_key,omitempty"`
	TimeoutSecs        int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	EnableHTTP2        bool   `json:"enable_http2" yaml:"enable_http2"`
}

func NewDefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		BaseURL:     DefaultReportingBaseURL,
		TimeoutSecs: DefaultReportingTimeoutSecs,
		UserAgent:   DefaultReportingUserAgent,
	}
}

// String hides credentials so the config can be logged.
func (c ReportingConfig) String() string {
	return "ReportingConfig{BaseURL: " + c.BaseURL + ", ProjectID: " + c.ProjectID +
		", APIKey: " + mask(c.APIKey) + ", SecretKey: " + mask(c.SecretKey) + ", TenantKey: " + mask(c.TenantKey) + "}"
}

func mask(v string) string {
	if v == "" {
		return "<unset>"
	}
	return "<redacted>"
}
