package config

// SecretsConfig holds the configuration for the gitleaks secret pipeline.
type SecretsConfig struct {
	GitleaksBinary    string `json:"gitleaks_binary,omitempty" yaml:"gitleaks_binary,omitempty" validate:"required"`
	MinSecretLength   int    `json:"min_secret_length,omitempty" yaml:"min_secret_length,omitempty" validate:"min=1"`
	MinPathSegments   int    `json:"min_path_segments" yaml:"min_path_segments" validate:"min=0"`
	NoGit             bool   `json:"no_git" yaml:"no_git"`
	Verbose           bool   `json:"verbose" yaml:"verbose"`
	SuccessExitCodes  []int  `json:"success_exit_codes,omitempty" yaml:"success_exit_codes,omitempty" validate:"required,exitcodes"`
	FindingsExitCodes []int  `json:"findings_exit_codes,omitempty" yaml:"findings_exit_codes,omitempty" validate:"exitcodes"`
	FailOnFindings    bool   `json:"fail_on_findings" yaml:"fail_on_findings"`
	KeepReport        bool   `json:"keep_report" yaml:"keep_report"`
	ReportPrefix      string `json:"report_prefix,omitempty" yaml:"report_prefix,omitempty" validate:"required"`
}

// NewDefaultSecretsConfig creates a new SecretsConfig with default values.
func NewDefaultSecretsConfig() SecretsConfig {
	return SecretsConfig{
		GitleaksBinary:    DefaultGitleaksBinary,
		MinSecretLength:   DefaultMinSecretLength,
		MinPathSegments:   DefaultMinPathSegments,
		NoGit:             DefaultSecretsNoGit,
		SuccessExitCodes:  []int{0},
		FindingsExitCodes: []int{1},
		FailOnFindings:    DefaultFailOnFindings,
		ReportPrefix:      DefaultReportFilePrefix,
	}
}
