package config

// ScanConfig describes the workspace being scanned and what to leave out of
// the results.
type ScanConfig struct {
	// ScanDir is the scan root. Empty means the working directory.
	ScanDir string `json:"scan_dir,omitempty" yaml:"scan_dir,omitempty"`
	// ReportDir receives scanner reports. Empty means the scan root.
	ReportDir string `json:"report_dir,omitempty" yaml:"report_dir,omitempty"`
	// SkipFiles are exact base names; SkipPatterns are regular expressions
	// matched against base names.
	SkipFiles      []string `json:"skip_files,omitempty" yaml:"skip_files,omitempty" validate:"dive,required"`
	SkipPatterns   []string `json:"skip_patterns,omitempty" yaml:"skip_patterns,omitempty" validate:"regexlist"`
	ExcludedDirs   []string `json:"excluded_dirs,omitempty" yaml:"excluded_dirs,omitempty" validate:"dive,required"`
	ReportPrefixes []string `json:"report_prefixes,omitempty" yaml:"report_prefixes,omitempty" validate:"dive,required"`
	// GitSafeDirectory registers the scan root as a git safe.directory before
	// scanning, for checkouts owned by another user.
	GitSafeDirectory bool `json:"git_safe_directory" yaml:"git_safe_directory"`
}

// NewDefaultScanConfig creates default scan configuration
func NewDefaultScanConfig() ScanConfig {
	return ScanConfig{
		SkipFiles:        append([]string(nil), DefaultSkipFiles...),
		SkipPatterns:     []string{},
		ExcludedDirs:     append([]string(nil), DefaultExcludedDirs...),
		ReportPrefixes:   append([]string(nil), DefaultReportPrefixes...),
		GitSafeDirectory: true,
	}
}
