package config

// TrivyConfig configures the misconfiguration pipeline.
type TrivyConfig struct {
	Binary           string `json:"binary,omitempty" yaml:"binary,omitempty" validate:"required"`
	SuccessExitCodes []int  `json:"success_exit_codes,omitempty" yaml:"success_exit_codes,omitempty" validate:"required,exitcodes"`
	FailOnCritical   bool   `json:"fail_on_critical" yaml:"fail_on_critical"`
	KeepReport       bool   `json:"keep_report" yaml:"keep_report"`
	ReportPrefix     string `json:"report_prefix,omitempty" yaml:"report_prefix,omitempty" validate:"required"`
}

func NewDefaultTrivyConfig() TrivyConfig {
	return TrivyConfig{
		Binary:           DefaultTrivyBinary,
		SuccessExitCodes: []int{0},
		FailOnCritical:   DefaultFailOnCritical,
		KeepReport:       true,
		ReportPrefix:     DefaultTrivyReportPrefix,
	}
}
